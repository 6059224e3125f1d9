package models

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists the tiers in enumeration order.
var Difficulties = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

var ValidDifficulties = map[Difficulty]bool{
	DifficultyBeginner:     true,
	DifficultyIntermediate: true,
	DifficultyAdvanced:     true,
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	OptionsPerQuestion         = 4
)

// ── Question Bank ─────────────────────────────────────

// QuestionTemplate is a bank entry. CorrectAnswer holds the option text;
// it is converted to an index when the question is issued.
type QuestionTemplate struct {
	Text          string     `json:"text" yaml:"text"`
	Options       []string   `json:"options" yaml:"options"`
	CorrectAnswer string     `json:"correct_answer" yaml:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty" yaml:"difficulty"`
	Topic         string     `json:"topic" yaml:"topic"`
}

// CorrectIndex returns the position of CorrectAnswer in Options, or -1.
func (t QuestionTemplate) CorrectIndex() int {
	for i, opt := range t.Options {
		if opt == t.CorrectAnswer {
			return i
		}
	}
	return -1
}

// ── Survey ────────────────────────────────────────────

type Question struct {
	ID            int        `json:"id"`
	Text          string     `json:"text"`
	Type          string     `json:"type"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty"`
	Topic         string     `json:"topic"`
}

type SurveyMetadata struct {
	DifficultyDistribution map[Difficulty]int `json:"difficulty_distribution"`
	TopicsCovered          []string           `json:"topics_covered"`
}

type Survey struct {
	Subject        string         `json:"subject"`
	UserID         string         `json:"user_id"`
	Questions      []Question     `json:"questions"`
	TotalQuestions int            `json:"total_questions"`
	GeneratedAt    time.Time      `json:"generated_at"`
	Metadata       SurveyMetadata `json:"metadata"`
}

// QuestionIndex maps question IDs to their questions.
func (s *Survey) QuestionIndex() map[int]*Question {
	idx := make(map[int]*Question, len(s.Questions))
	for i := range s.Questions {
		idx[s.Questions[i].ID] = &s.Questions[i]
	}
	return idx
}

// ── Client Views (strip answers for serving) ──────────

type ClientQuestion struct {
	ID         int        `json:"id"`
	Text       string     `json:"text"`
	Type       string     `json:"type"`
	Options    []string   `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
	Topic      string     `json:"topic"`
}

type ClientSurvey struct {
	Subject        string           `json:"subject"`
	UserID         string           `json:"user_id"`
	Questions      []ClientQuestion `json:"questions"`
	TotalQuestions int              `json:"total_questions"`
	GeneratedAt    time.Time        `json:"generated_at"`
	Metadata       SurveyMetadata   `json:"metadata"`
}

func (s *Survey) ClientView() ClientSurvey {
	questions := make([]ClientQuestion, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, ClientQuestion{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type,
			Options:    q.Options,
			Difficulty: q.Difficulty,
			Topic:      q.Topic,
		})
	}
	return ClientSurvey{
		Subject:        s.Subject,
		UserID:         s.UserID,
		Questions:      questions,
		TotalQuestions: s.TotalQuestions,
		GeneratedAt:    s.GeneratedAt,
		Metadata:       s.Metadata,
	}
}

// ── Submission ────────────────────────────────────────

type Answer struct {
	QuestionID int `json:"question_id"`
	Answer     int `json:"answer"`
}
