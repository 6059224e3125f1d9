package survey

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/learnpath/backend/internal/models"
	"github.com/learnpath/backend/internal/subjects"
)

// Generator issues surveys from the subject catalog. It holds no
// per-request state; the random source is guarded for concurrent callers.
type Generator struct {
	catalog *subjects.Catalog

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewGenerator(catalog *subjects.Catalog) *Generator {
	return NewGeneratorWithSource(catalog, rand.NewSource(time.Now().UnixNano()))
}

// NewGeneratorWithSource is NewGenerator with a caller-supplied random source,
// which makes generation reproducible in tests.
func NewGeneratorWithSource(catalog *subjects.Catalog, src rand.Source) *Generator {
	return &Generator{
		catalog: catalog,
		rng:     rand.New(src),
		now:     time.Now,
	}
}

// Catalog exposes the subject table the generator draws from.
func (g *Generator) Catalog() *subjects.Catalog {
	return g.catalog
}

// Generate builds a survey for subject from the catalog's static bank.
func (g *Generator) Generate(subject, userID string) (*models.Survey, error) {
	cfg, err := g.catalog.Get(subject)
	if err != nil {
		return nil, err
	}
	return g.build(cfg, userID, cfg.Bank()), nil
}

// GenerateFromBank is Generate with a caller-supplied bank, used when
// templates from the LLM supplement the static pool. Tiers missing from
// bank fall back to the catalog's templates.
func (g *Generator) GenerateFromBank(subject, userID string, bank subjects.Bank) (*models.Survey, error) {
	cfg, err := g.catalog.Get(subject)
	if err != nil {
		return nil, err
	}
	merged := cfg.Bank()
	for d, pool := range bank {
		if len(pool) > 0 {
			merged[d] = pool
		}
	}
	return g.build(cfg, userID, merged), nil
}

func (g *Generator) build(cfg subjects.SubjectConfig, userID string, bank subjects.Bank) *models.Survey {
	g.mu.Lock()
	defer g.mu.Unlock()

	targets := subjects.TargetCounts(cfg.QuestionCount, cfg.DifficultyDistribution)

	var drawn []models.QuestionTemplate
	for _, d := range models.Difficulties {
		drawn = append(drawn, g.sample(bank[d], targets[d])...)
	}

	questions := make([]models.Question, len(drawn))
	realized := map[models.Difficulty]int{
		models.DifficultyBeginner:     0,
		models.DifficultyIntermediate: 0,
		models.DifficultyAdvanced:     0,
	}
	topicSet := make(map[string]bool)

	for i, t := range drawn {
		questions[i] = models.Question{
			ID:            i + 1,
			Text:          t.Text,
			Type:          models.QuestionTypeMultipleChoice,
			Options:       append([]string(nil), t.Options...),
			CorrectAnswer: t.CorrectIndex(),
			Difficulty:    t.Difficulty,
			Topic:         t.Topic,
		}
		realized[t.Difficulty]++
		topicSet[t.Topic] = true
	}

	g.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	topics := make([]string, 0, len(topicSet))
	for topic := range topicSet {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	return &models.Survey{
		Subject:        cfg.Name,
		UserID:         userID,
		Questions:      questions,
		TotalQuestions: len(questions),
		GeneratedAt:    g.now().UTC(),
		Metadata: models.SurveyMetadata{
			DifficultyDistribution: realized,
			TopicsCovered:          topics,
		},
	}
}

// sample draws n templates without replacement while the pool lasts, then
// repeats templates at random so the caller always gets exactly n.
func (g *Generator) sample(pool []models.QuestionTemplate, n int) []models.QuestionTemplate {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	out := make([]models.QuestionTemplate, 0, n)
	perm := g.rng.Perm(len(pool))
	for _, idx := range perm {
		if len(out) == n {
			break
		}
		out = append(out, pool[idx])
	}
	for len(out) < n {
		out = append(out, pool[g.rng.Intn(len(pool))])
	}
	return out
}
