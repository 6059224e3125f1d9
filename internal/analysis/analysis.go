// Package analysis grades survey submissions and derives a skill level,
// topic strengths and weaknesses, and study recommendations. Everything
// here is pure: no I/O, no shared state.
package analysis

import (
	"time"

	"github.com/learnpath/backend/internal/models"
)

// Analyze runs scoring, classification, topic analysis and recommendation
// generation and assembles the result record stamped with processedAt.
func Analyze(answers []models.Answer, survey *models.Survey, processedAt time.Time) *models.AnalysisResult {
	scores := Score(answers, survey)
	weighted := scores.WeightedAccuracy()

	level := Classify(weighted, scores.DifficultyPerformance)
	topics := AnalyzeTopics(scores.TopicPerformance)
	recs := GenerateRecommendations(level, topics, scores.DifficultyPerformance)

	return &models.AnalysisResult{
		UserID:                  survey.UserID,
		Subject:                 survey.Subject,
		ProcessedAt:             processedAt,
		TotalQuestions:          scores.Answered(),
		CorrectAnswers:          scores.CorrectCount,
		Accuracy:                scores.Accuracy(),
		WeightedAccuracy:        weighted,
		SkillLevel:              level,
		PerformanceByDifficulty: scores.DifficultyPerformance,
		TopicAnalysis:           topics,
		ProcessedAnswers:        scores.ProcessedAnswers,
		Recommendations:         recs,
	}
}
