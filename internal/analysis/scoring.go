package analysis

import (
	"log"

	"github.com/learnpath/backend/internal/models"
)

// DifficultyWeights scale each answer's contribution to weighted accuracy.
var DifficultyWeights = map[models.Difficulty]float64{
	models.DifficultyBeginner:     1.0,
	models.DifficultyIntermediate: 1.5,
	models.DifficultyAdvanced:     2.0,
}

// Scores is the raw tally produced by Score.
type Scores struct {
	ProcessedAnswers      []models.ProcessedAnswer
	CorrectCount          int
	TotalWeightedScore    float64
	MaxWeightedScore      float64
	TopicPerformance      map[string]models.DifficultyStats
	DifficultyPerformance map[models.Difficulty]models.DifficultyStats
}

// Answered is the number of answers that resolved to a question.
func (s Scores) Answered() int {
	return len(s.ProcessedAnswers)
}

func (s Scores) Accuracy() float64 {
	if s.Answered() == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.Answered())
}

func (s Scores) WeightedAccuracy() float64 {
	if s.MaxWeightedScore == 0 {
		return 0
	}
	return s.TotalWeightedScore / s.MaxWeightedScore
}

// Score grades answers against the survey in submission order. Every entry
// is processed, duplicates included; answers whose question_id does not
// resolve are logged and skipped.
func Score(answers []models.Answer, survey *models.Survey) Scores {
	scores := Scores{
		ProcessedAnswers:      make([]models.ProcessedAnswer, 0, len(answers)),
		TopicPerformance:      make(map[string]models.DifficultyStats),
		DifficultyPerformance: make(map[models.Difficulty]models.DifficultyStats, len(models.Difficulties)),
	}
	for _, d := range models.Difficulties {
		scores.DifficultyPerformance[d] = models.DifficultyStats{}
	}

	index := survey.QuestionIndex()

	for _, a := range answers {
		q, ok := index[a.QuestionID]
		if !ok {
			log.Printf("WARN: [analysis] skipping answer for unknown question %d (user=%s subject=%s)", a.QuestionID, survey.UserID, survey.Subject)
			continue
		}

		weight := DifficultyWeights[q.Difficulty]
		isCorrect := a.Answer == q.CorrectAnswer

		scores.MaxWeightedScore += weight
		if isCorrect {
			scores.CorrectCount++
			scores.TotalWeightedScore += weight
		}

		topic := scores.TopicPerformance[q.Topic]
		topic.Total++
		diff := scores.DifficultyPerformance[q.Difficulty]
		diff.Total++
		if isCorrect {
			topic.Correct++
			diff.Correct++
		}
		scores.TopicPerformance[q.Topic] = topic
		scores.DifficultyPerformance[q.Difficulty] = diff

		scores.ProcessedAnswers = append(scores.ProcessedAnswers, models.ProcessedAnswer{
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			UserAnswer:    a.Answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Difficulty:    q.Difficulty,
			Topic:         q.Topic,
			Weight:        weight,
		})
	}

	return scores
}
