package models

import "time"

type DifficultyStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns Correct/Total, or 0 when nothing was attempted.
func (s DifficultyStats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

type TopicScore struct {
	Accuracy float64 `json:"accuracy"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
}

type TopicAnalysis struct {
	Strengths   []string              `json:"strengths"`
	Weaknesses  []string              `json:"weaknesses"`
	TopicScores map[string]TopicScore `json:"topic_scores"`
}

type ProcessedAnswer struct {
	QuestionID    int        `json:"question_id"`
	QuestionText  string     `json:"question_text"`
	UserAnswer    int        `json:"user_answer"`
	CorrectAnswer int        `json:"correct_answer"`
	IsCorrect     bool       `json:"is_correct"`
	Difficulty    Difficulty `json:"difficulty"`
	Topic         string     `json:"topic"`
	Weight        float64    `json:"weight"`
}

type AnalysisResult struct {
	UserID                  string                         `json:"user_id"`
	Subject                 string                         `json:"subject"`
	ProcessedAt             time.Time                      `json:"processed_at"`
	TotalQuestions          int                            `json:"total_questions"`
	CorrectAnswers          int                            `json:"correct_answers"`
	Accuracy                float64                        `json:"accuracy"`
	WeightedAccuracy        float64                        `json:"weighted_accuracy"`
	SkillLevel              SkillLevel                     `json:"skill_level"`
	PerformanceByDifficulty map[Difficulty]DifficultyStats `json:"performance_by_difficulty"`
	TopicAnalysis           TopicAnalysis                  `json:"topic_analysis"`
	ProcessedAnswers        []ProcessedAnswer              `json:"processed_answers"`
	Recommendations         []string                       `json:"recommendations"`
}

// ResultSummary is the trimmed result returned right after submission.
type ResultSummary struct {
	Subject          string     `json:"subject"`
	SkillLevel       SkillLevel `json:"skill_level"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	Accuracy         float64    `json:"accuracy"`
	WeightedAccuracy float64    `json:"weighted_accuracy"`
	Strengths        []string   `json:"strengths"`
	Weaknesses       []string   `json:"weaknesses"`
	Recommendations  []string   `json:"recommendations"`
	ProcessedAt      time.Time  `json:"processed_at"`
}

func (r *AnalysisResult) Summary() ResultSummary {
	return ResultSummary{
		Subject:          r.Subject,
		SkillLevel:       r.SkillLevel,
		TotalQuestions:   r.TotalQuestions,
		CorrectAnswers:   r.CorrectAnswers,
		Accuracy:         r.Accuracy,
		WeightedAccuracy: r.WeightedAccuracy,
		Strengths:        r.TopicAnalysis.Strengths,
		Weaknesses:       r.TopicAnalysis.Weaknesses,
		Recommendations:  r.Recommendations,
		ProcessedAt:      r.ProcessedAt,
	}
}
