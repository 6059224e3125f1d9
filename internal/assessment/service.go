package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/learnpath/backend/internal/analysis"
	"github.com/learnpath/backend/internal/cache"
	"github.com/learnpath/backend/internal/generator"
	"github.com/learnpath/backend/internal/models"
	"github.com/learnpath/backend/internal/skills"
	"github.com/learnpath/backend/internal/storage"
	"github.com/learnpath/backend/internal/subjects"
	"github.com/learnpath/backend/internal/survey"
)

var (
	ErrSurveyNotFound = errors.New("no survey found for this user and subject")
	ErrResultNotFound = errors.New("no results found for this user and subject")
	ErrSkillNotFound  = errors.New("no skill level recorded for this user and subject")
)

type Service struct {
	surveys *survey.Generator
	store   SurveyStore
	skills  SkillStore
	results cache.ResultCache

	llm        *generator.Generator
	llmTimeout time.Duration

	now func() time.Time
}

// NewService wires the assessment flow. skillStore and results may be nil;
// a nil cache behaves like cache.NoopCache.
func NewService(surveys *survey.Generator, store SurveyStore, skillStore SkillStore, results cache.ResultCache) *Service {
	if results == nil {
		results = cache.NoopCache{}
	}
	return &Service{
		surveys:    surveys,
		store:      store,
		skills:     skillStore,
		results:    results,
		llmTimeout: 20 * time.Second,
		now:        time.Now,
	}
}

// SetLLMGenerator enables LLM-written questions on top of the static bank.
// Each tier request is bounded by timeout.
func (s *Service) SetLLMGenerator(g *generator.Generator, timeout time.Duration) {
	s.llm = g
	if timeout > 0 {
		s.llmTimeout = timeout
	}
}

// Subjects lists every configured subject.
func (s *Service) Subjects() []models.SubjectSummary {
	catalog := s.surveys.Catalog()
	names := catalog.Names()
	out := make([]models.SubjectSummary, 0, len(names))
	for _, name := range names {
		cfg, err := catalog.Get(name)
		if err != nil {
			continue
		}
		out = append(out, models.SubjectSummary{
			Name:          cfg.Name,
			QuestionCount: cfg.QuestionCount,
			Topics:        cfg.Topics,
		})
	}
	return out
}

// checkRequest rejects unsafe identifiers and subjects outside the catalog.
func (s *Service) checkRequest(userID, subject string) (subjects.SubjectConfig, error) {
	if err := storage.SafeSegment(userID); err != nil {
		return subjects.SubjectConfig{}, fmt.Errorf("user_id: %w", err)
	}
	cfg, err := s.surveys.Catalog().Get(subject)
	if err != nil {
		return subjects.SubjectConfig{}, err
	}
	return cfg, nil
}

// GenerateSurvey issues a new survey and stores it, replacing any earlier
// survey for the pair.
func (s *Service) GenerateSurvey(ctx context.Context, userID, subject string) (*models.Survey, error) {
	cfg, err := s.checkRequest(userID, subject)
	if err != nil {
		return nil, err
	}

	var sv *models.Survey
	if s.llm != nil {
		sv, err = s.surveys.GenerateFromBank(subject, userID, s.augmentBank(ctx, cfg))
	} else {
		sv, err = s.surveys.Generate(subject, userID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveSurvey(ctx, sv); err != nil {
		return nil, fmt.Errorf("save survey: %w", err)
	}

	log.Printf("[assessment] generated %s survey for user %s (%d questions)", subject, userID, sv.TotalQuestions)
	return sv, nil
}

// augmentBank asks the LLM for one batch per tier and appends whatever
// validates to the static pool. Failed tiers keep the static pool.
func (s *Service) augmentBank(ctx context.Context, cfg subjects.SubjectConfig) subjects.Bank {
	bank := cfg.Bank()
	targets := subjects.TargetCounts(cfg.QuestionCount, cfg.DifficultyDistribution)

	for _, d := range models.Difficulties {
		if targets[d] == 0 {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
		templates, resp, err := s.llm.GenerateTemplates(callCtx, cfg.Name, cfg.Topics, d, targets[d])
		cancel()
		if err != nil {
			log.Printf("WARN: [generator] %s %s generation failed, using static bank: %v", cfg.Name, d, err)
			continue
		}

		bank[d] = append(bank[d], templates...)
		log.Printf("[generator] %s %s: %d templates from %s (tokens in=%d out=%d)",
			cfg.Name, d, len(templates), s.llm.ModelName(), resp.PromptTokens, resp.OutputTokens)
	}
	return bank
}

func (s *Service) GetSurvey(ctx context.Context, userID, subject string) (*models.Survey, error) {
	if _, err := s.checkRequest(userID, subject); err != nil {
		return nil, err
	}
	sv, err := s.store.LoadSurvey(ctx, userID, subject)
	if err != nil {
		return nil, fmt.Errorf("load survey: %w", err)
	}
	if sv == nil {
		return nil, ErrSurveyNotFound
	}
	return sv, nil
}

// SubmitSurvey grades rawAnswers against the stored survey and persists
// the result. The skill mirror and cache writes are best effort.
func (s *Service) SubmitSurvey(ctx context.Context, userID, subject string, rawAnswers json.RawMessage) (*models.AnalysisResult, error) {
	sv, err := s.GetSurvey(ctx, userID, subject)
	if err != nil {
		return nil, err
	}

	answers, err := survey.DecodeAnswers(rawAnswers)
	if err != nil {
		return nil, err
	}
	if err := survey.ValidateAnswers(answers, sv); err != nil {
		return nil, err
	}

	result := analysis.Analyze(answers, sv, s.now().UTC())

	if err := s.store.SaveAnalysisResult(ctx, result); err != nil {
		return nil, fmt.Errorf("save analysis result: %w", err)
	}

	if s.skills != nil {
		if err := s.skills.UpsertSkillRecord(ctx, userID, subject, result.SkillLevel); err != nil {
			log.Printf("WARN: [assessment] skill upsert failed for user %s subject %s: %v", userID, subject, err)
		}
	}

	// A cached earlier result would shadow the one just saved.
	if err := s.results.Set(ctx, result); err != nil {
		log.Printf("WARN: [assessment] cache write failed for user %s subject %s: %v", userID, subject, err)
		if err := s.results.Delete(ctx, userID, subject); err != nil {
			log.Printf("WARN: [assessment] cache evict failed for user %s subject %s: %v", userID, subject, err)
		}
	}

	log.Printf("[assessment] user %s %s: %d/%d correct, weighted %.2f, level %s",
		userID, subject, result.CorrectAnswers, result.TotalQuestions, result.WeightedAccuracy, result.SkillLevel)
	return result, nil
}

// GetResults returns the latest analysis, preferring the cache.
func (s *Service) GetResults(ctx context.Context, userID, subject string) (*models.AnalysisResult, error) {
	if _, err := s.checkRequest(userID, subject); err != nil {
		return nil, err
	}

	cached, err := s.results.Get(ctx, userID, subject)
	if err != nil {
		log.Printf("WARN: [assessment] cache read failed for user %s subject %s: %v", userID, subject, err)
	}
	if cached != nil {
		return cached, nil
	}

	result, err := s.store.LoadAnalysisResult(ctx, userID, subject)
	if err != nil {
		return nil, fmt.Errorf("load analysis result: %w", err)
	}
	if result == nil {
		return nil, ErrResultNotFound
	}

	if err := s.results.Set(ctx, result); err != nil {
		log.Printf("WARN: [assessment] cache write failed for user %s subject %s: %v", userID, subject, err)
	}
	return result, nil
}

// GetSkillLevel reads the relational mirror.
func (s *Service) GetSkillLevel(ctx context.Context, userID, subject string) (*models.SkillRecord, error) {
	if _, err := s.checkRequest(userID, subject); err != nil {
		return nil, err
	}
	if s.skills == nil {
		return nil, ErrSkillNotFound
	}

	rec, err := s.skills.GetSkillRecord(ctx, userID, subject)
	if errors.Is(err, skills.ErrNotFound) {
		return nil, ErrSkillNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get skill level: %w", err)
	}
	return rec, nil
}
