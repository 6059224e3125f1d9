package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/learnpath/backend/internal/models"
)

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

func invalid(format string, args ...any) error {
	return &ValidationError{Errors: []string{fmt.Sprintf(format, args...)}}
}

// DecodeAnswers checks the shape of a raw answers payload and converts it
// into typed answers. It rejects anything that is not a non-empty array of
// objects carrying integer question_id and answer fields.
func DecodeAnswers(raw json.RawMessage) ([]models.Answer, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, invalid("answers are required")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, invalid("answers must be a list")
	}
	if len(entries) == 0 {
		return nil, invalid("answers must not be empty")
	}

	answers := make([]models.Answer, 0, len(entries))
	var errs []string

	for i, entry := range entries {
		pos := i + 1

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			errs = append(errs, fmt.Sprintf("answer %d: must be an object", pos))
			continue
		}

		rawID, hasID := fields["question_id"]
		rawAnswer, hasAnswer := fields["answer"]
		if !hasID {
			errs = append(errs, fmt.Sprintf("answer %d: missing question_id", pos))
		}
		if !hasAnswer {
			errs = append(errs, fmt.Sprintf("answer %d: missing answer", pos))
		}
		if !hasID || !hasAnswer {
			continue
		}

		questionID, err := parseInt(rawID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("answer %d: question_id must be an integer", pos))
			continue
		}
		value, err := parseInt(rawAnswer)
		if err != nil {
			errs = append(errs, fmt.Sprintf("answer %d: answer must be an integer option index", pos))
			continue
		}

		answers = append(answers, models.Answer{QuestionID: questionID, Answer: value})
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return answers, nil
}

// parseInt accepts only bare JSON integers; quoted numbers, fractions and
// exponents are rejected.
func parseInt(raw json.RawMessage) (int, error) {
	return strconv.Atoi(string(bytes.TrimSpace(raw)))
}

// ValidateAnswers checks typed answers against the issued survey: every
// question_id must exist, each question may be answered once, and every
// answer must be an option index in [0, 3].
func ValidateAnswers(answers []models.Answer, s *models.Survey) error {
	if len(answers) == 0 {
		return invalid("answers must not be empty")
	}

	known := s.QuestionIndex()
	seen := make(map[int]bool, len(answers))
	var errs []string

	for i, a := range answers {
		pos := i + 1
		if _, ok := known[a.QuestionID]; !ok {
			errs = append(errs, fmt.Sprintf("answer %d: question_id %d is not part of this survey", pos, a.QuestionID))
		} else if seen[a.QuestionID] {
			errs = append(errs, fmt.Sprintf("answer %d: question_id %d answered more than once", pos, a.QuestionID))
		}
		seen[a.QuestionID] = true

		if a.Answer < 0 || a.Answer >= models.OptionsPerQuestion {
			errs = append(errs, fmt.Sprintf("answer %d: answer %d must be between 0 and %d", pos, a.Answer, models.OptionsPerQuestion-1))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
