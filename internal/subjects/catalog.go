package subjects

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/learnpath/backend/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed subjects.yaml
var defaultCatalog []byte

// UnsupportedSubjectError is returned for subjects missing from the catalog.
type UnsupportedSubjectError struct {
	Subject string
}

func (e *UnsupportedSubjectError) Error() string {
	return fmt.Sprintf("unsupported subject: %q", e.Subject)
}

// ConfigError collects every problem found in a subject definition.
type ConfigError struct {
	Subject string
	Errors  []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid subject %q: %s", e.Subject, strings.Join(e.Errors, "; "))
}

// Bank groups question templates by difficulty tier.
type Bank map[models.Difficulty][]models.QuestionTemplate

type SubjectConfig struct {
	Name                   string                        `yaml:"-"`
	QuestionCount          int                           `yaml:"question_count"`
	DifficultyDistribution map[models.Difficulty]float64 `yaml:"difficulty_distribution"`
	Topics                 []string                      `yaml:"topics"`
	Questions              []models.QuestionTemplate     `yaml:"questions"`
}

// Pool returns the templates for one difficulty tier.
func (c SubjectConfig) Pool(difficulty models.Difficulty) []models.QuestionTemplate {
	var pool []models.QuestionTemplate
	for _, q := range c.Questions {
		if q.Difficulty == difficulty {
			pool = append(pool, q)
		}
	}
	return pool
}

// Bank splits the subject's templates by tier.
func (c SubjectConfig) Bank() Bank {
	bank := make(Bank, len(models.Difficulties))
	for _, d := range models.Difficulties {
		bank[d] = c.Pool(d)
	}
	return bank
}

func (c SubjectConfig) clone() SubjectConfig {
	out := c
	out.DifficultyDistribution = make(map[models.Difficulty]float64, len(c.DifficultyDistribution))
	for k, v := range c.DifficultyDistribution {
		out.DifficultyDistribution[k] = v
	}
	out.Topics = append([]string(nil), c.Topics...)
	out.Questions = make([]models.QuestionTemplate, len(c.Questions))
	for i, q := range c.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}

// TargetCounts splits questionCount across tiers. Beginner and intermediate
// are floored; advanced takes the remainder so the counts always sum to
// questionCount.
func TargetCounts(questionCount int, distribution map[models.Difficulty]float64) map[models.Difficulty]int {
	beginner := floorCount(questionCount, distribution[models.DifficultyBeginner])
	intermediate := floorCount(questionCount, distribution[models.DifficultyIntermediate])
	if beginner+intermediate > questionCount {
		intermediate = questionCount - beginner
	}
	return map[models.Difficulty]int{
		models.DifficultyBeginner:     beginner,
		models.DifficultyIntermediate: intermediate,
		models.DifficultyAdvanced:     questionCount - beginner - intermediate,
	}
}

// floorCount tolerates float noise such as 100*0.29 = 28.999999999999996.
func floorCount(n int, ratio float64) int {
	return int(math.Floor(float64(n)*ratio + 1e-9))
}

// ── Catalog ───────────────────────────────────────────

// Catalog holds the validated subject table. Lookups return copies, so
// callers never share mutable state with the catalog.
type Catalog struct {
	mu       sync.RWMutex
	subjects map[string]SubjectConfig
}

func NewCatalog() *Catalog {
	return &Catalog{subjects: make(map[string]SubjectConfig)}
}

type catalogFile struct {
	Subjects map[string]SubjectConfig `yaml:"subjects"`
}

// Parse decodes a YAML subject table and validates every entry.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse subjects: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse subjects: multiple YAML documents are not supported")
		}
		return nil, fmt.Errorf("parse subjects: %w", err)
	}

	catalog := NewCatalog()
	names := make([]string, 0, len(file.Subjects))
	for name := range file.Subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg := file.Subjects[name]
		cfg.Name = name
		if err := catalog.Register(cfg); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subjects: %w", err)
	}
	return Parse(data)
}

// LoadDefault parses the subject table compiled into the binary.
func LoadDefault() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Register validates cfg and adds or replaces it in the catalog.
func (c *Catalog) Register(cfg SubjectConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects[cfg.Name] = cfg.clone()
	return nil
}

func (c *Catalog) Get(subject string) (SubjectConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.subjects[subject]
	if !ok {
		return SubjectConfig{}, &UnsupportedSubjectError{Subject: subject}
	}
	return cfg.clone(), nil
}

func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.subjects))
	for name := range c.subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks a subject definition without registering it.
func Validate(cfg SubjectConfig) error {
	var errs []string

	if strings.TrimSpace(cfg.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cfg.QuestionCount <= 0 {
		errs = append(errs, fmt.Sprintf("question_count must be positive, got %d", cfg.QuestionCount))
	}

	sum := 0.0
	for d, ratio := range cfg.DifficultyDistribution {
		if !models.ValidDifficulties[d] {
			errs = append(errs, fmt.Sprintf("unknown difficulty %q in distribution", d))
			continue
		}
		if ratio < 0 || ratio > 1 {
			errs = append(errs, fmt.Sprintf("ratio for %s must be within [0, 1], got %v", d, ratio))
		}
		sum += ratio
	}
	if math.Abs(sum-1.0) > 1e-6 {
		errs = append(errs, fmt.Sprintf("difficulty_distribution must sum to 1.0, got %v", sum))
	}

	if len(cfg.Topics) == 0 {
		errs = append(errs, "at least one topic is required")
	}

	for i, q := range cfg.Questions {
		qNum := i + 1
		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty text", qNum))
		}
		if len(q.Options) != models.OptionsPerQuestion {
			errs = append(errs, fmt.Sprintf("question %d: expected %d options, got %d", qNum, models.OptionsPerQuestion, len(q.Options)))
		} else if q.CorrectIndex() < 0 {
			errs = append(errs, fmt.Sprintf("question %d: correct_answer %q is not one of the options", qNum, q.CorrectAnswer))
		}
		if !models.ValidDifficulties[q.Difficulty] {
			errs = append(errs, fmt.Sprintf("question %d: invalid difficulty %q", qNum, q.Difficulty))
		}
		if strings.TrimSpace(q.Topic) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty topic", qNum))
		}
	}

	if cfg.QuestionCount > 0 {
		targets := TargetCounts(cfg.QuestionCount, cfg.DifficultyDistribution)
		for _, d := range models.Difficulties {
			if targets[d] > 0 && len(cfg.Pool(d)) == 0 {
				errs = append(errs, fmt.Sprintf("no %s questions to fill %d slots", d, targets[d]))
			}
		}
	}

	if len(errs) > 0 {
		return &ConfigError{Subject: cfg.Name, Errors: errs}
	}
	return nil
}
