package assessment

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/learnpath/backend/internal/models"
	"github.com/learnpath/backend/internal/skills"
	"github.com/learnpath/backend/internal/storage"
	"github.com/learnpath/backend/internal/subjects"
	"github.com/learnpath/backend/internal/survey"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type memorySkills struct {
	mu      sync.Mutex
	records map[string]models.SkillRecord
	err     error
}

func newMemorySkills() *memorySkills {
	return &memorySkills{records: make(map[string]models.SkillRecord)}
}

func (m *memorySkills) UpsertSkillRecord(ctx context.Context, userID, subject string, level models.SkillLevel) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[userID+"/"+subject] = models.SkillRecord{UserID: userID, Subject: subject, SkillLevel: level, UpdatedAt: fixedNow}
	return nil
}

func (m *memorySkills) GetSkillRecord(ctx context.Context, userID, subject string) (*models.SkillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID+"/"+subject]
	if !ok {
		return nil, skills.ErrNotFound
	}
	return &rec, nil
}

type memoryCache struct {
	mu      sync.Mutex
	results map[string]*models.AnalysisResult
	err     error
	setErr  error
	gets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{results: make(map[string]*models.AnalysisResult)}
}

func (c *memoryCache) Get(ctx context.Context, userID, subject string) (*models.AnalysisResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, c.err
	}
	return c.results[userID+"/"+subject], nil
}

func (c *memoryCache) Set(ctx context.Context, r *models.AnalysisResult) error {
	if c.err != nil {
		return c.err
	}
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[r.UserID+"/"+r.Subject] = r
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, userID, subject string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, userID+"/"+subject)
	return nil
}

// failingStore wraps a SurveyStore and fails result saves.
type failingStore struct {
	SurveyStore
}

func (f failingStore) SaveAnalysisResult(ctx context.Context, r *models.AnalysisResult) error {
	return errors.New("disk full")
}

type fixture struct {
	service *Service
	store   *FileStore
	skills  *memorySkills
	cache   *memoryCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := subjects.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	docs, err := storage.NewDocumentStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDocumentStore() error: %v", err)
	}

	f := &fixture{
		store:  NewFileStore(docs),
		skills: newMemorySkills(),
		cache:  newMemoryCache(),
	}
	gen := survey.NewGeneratorWithSource(catalog, rand.NewSource(1))
	f.service = NewService(gen, f.store, f.skills, f.cache)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

// answersFor answers every question, correctly when correct(q) is true.
func answersFor(sv *models.Survey, correct func(models.Question) bool) []models.Answer {
	answers := make([]models.Answer, 0, len(sv.Questions))
	for _, q := range sv.Questions {
		a := q.CorrectAnswer
		if !correct(q) {
			a = (q.CorrectAnswer + 1) % models.OptionsPerQuestion
		}
		answers = append(answers, models.Answer{QuestionID: q.ID, Answer: a})
	}
	return answers
}
