package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/learnpath/backend/internal/models"
)

type GeneratedBatch struct {
	Questions []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Text          string            `json:"text"`
	Options       []string          `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Difficulty    models.Difficulty `json:"difficulty"`
	Topic         string            `json:"topic"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseResponse decodes an LLM response and checks every question against
// the requested tier and topics. An empty topics list accepts any topic.
func ParseResponse(responseBody string, difficulty models.Difficulty, topics []string) (*GeneratedBatch, error) {
	cleaned := stripCodeFences(responseBody)

	var batch GeneratedBatch
	if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateBatch(&batch, difficulty, topics); err != nil {
		return nil, err
	}

	return &batch, nil
}

// Templates converts the batch into catalog templates.
func (b *GeneratedBatch) Templates() []models.QuestionTemplate {
	out := make([]models.QuestionTemplate, len(b.Questions))
	for i, q := range b.Questions {
		out[i] = models.QuestionTemplate{
			Text:          q.Text,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
			Difficulty:    q.Difficulty,
			Topic:         q.Topic,
		}
	}
	return out
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateBatch(batch *GeneratedBatch, difficulty models.Difficulty, topics []string) error {
	if len(batch.Questions) == 0 {
		return &ValidationError{Errors: []string{"no questions in batch"}}
	}

	allowed := make(map[string]bool, len(topics))
	for _, t := range topics {
		allowed[t] = true
	}

	var errs []string
	for i, q := range batch.Questions {
		qNum := i + 1

		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty text", qNum))
		}

		if len(q.Options) != models.OptionsPerQuestion {
			errs = append(errs, fmt.Sprintf("question %d: expected %d options, got %d", qNum, models.OptionsPerQuestion, len(q.Options)))
		} else {
			seen := make(map[string]bool, len(q.Options))
			for j, opt := range q.Options {
				if strings.TrimSpace(opt) == "" {
					errs = append(errs, fmt.Sprintf("question %d: option %d is empty", qNum, j+1))
				}
				if seen[opt] {
					errs = append(errs, fmt.Sprintf("question %d: duplicate option %q", qNum, opt))
				}
				seen[opt] = true
			}
			if !seen[q.CorrectAnswer] {
				errs = append(errs, fmt.Sprintf("question %d: correct_answer %q is not one of the options", qNum, q.CorrectAnswer))
			}
		}

		if q.Difficulty != difficulty {
			errs = append(errs, fmt.Sprintf("question %d: difficulty %q, requested %q", qNum, q.Difficulty, difficulty))
		}

		switch {
		case q.Topic == "":
			errs = append(errs, fmt.Sprintf("question %d: empty topic", qNum))
		case len(allowed) > 0 && !allowed[q.Topic]:
			errs = append(errs, fmt.Sprintf("question %d: topic %q not requested", qNum, q.Topic))
		}
	}

	checkTextDiversity(batch.Questions)

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// checkTextDiversity warns if any two questions share >60% keyword overlap.
func checkTextDiversity(questions []GeneratedQuestion) {
	if len(questions) < 2 {
		return
	}

	tokenSets := make([]map[string]bool, len(questions))
	for i, q := range questions {
		tokenSets[i] = tokenize(q.Text)
	}

	for i := 0; i < len(questions); i++ {
		for j := i + 1; j < len(questions); j++ {
			overlap := jaccardSimilarity(tokenSets[i], tokenSets[j])
			if overlap > 0.60 {
				log.Printf("WARN: [generator] questions %d and %d have %.0f%% keyword overlap", i+1, j+1, overlap*100)
			}
		}
	}
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		if len(word) > 3 {
			tokens[word] = true
		}
	}
	return tokens
}

func jaccardSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
