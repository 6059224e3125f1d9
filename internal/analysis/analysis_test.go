package analysis

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/learnpath/backend/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func pythonSurvey() *models.Survey {
	return &models.Survey{
		Subject: "python",
		UserID:  "user-1",
		Questions: []models.Question{
			{ID: 1, Text: "What does len([1, 2, 3]) return?", Options: []string{"2", "3", "4", "error"}, CorrectAnswer: 1, Difficulty: models.DifficultyBeginner, Topic: "lists"},
			{ID: 2, Text: "What does the GIL serialize?", Options: []string{"bytecode execution", "I/O", "imports", "GC"}, CorrectAnswer: 0, Difficulty: models.DifficultyAdvanced, Topic: "gil"},
		},
		TotalQuestions: 2,
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestScore_Weights(t *testing.T) {
	s := &models.Survey{Questions: []models.Question{
		{ID: 1, CorrectAnswer: 0, Difficulty: models.DifficultyBeginner, Topic: "a"},
		{ID: 2, CorrectAnswer: 1, Difficulty: models.DifficultyIntermediate, Topic: "a"},
		{ID: 3, CorrectAnswer: 2, Difficulty: models.DifficultyAdvanced, Topic: "b"},
	}}
	answers := []models.Answer{{QuestionID: 1, Answer: 0}, {QuestionID: 2, Answer: 1}, {QuestionID: 3, Answer: 0}}

	scores := Score(answers, s)

	if scores.CorrectCount != 2 {
		t.Errorf("CorrectCount = %d, want 2", scores.CorrectCount)
	}
	if !almostEqual(scores.TotalWeightedScore, 2.5) {
		t.Errorf("TotalWeightedScore = %v, want 2.5", scores.TotalWeightedScore)
	}
	if !almostEqual(scores.MaxWeightedScore, 4.5) {
		t.Errorf("MaxWeightedScore = %v, want 4.5", scores.MaxWeightedScore)
	}
	if !almostEqual(scores.WeightedAccuracy(), 2.5/4.5) {
		t.Errorf("WeightedAccuracy() = %v, want %v", scores.WeightedAccuracy(), 2.5/4.5)
	}
	if got := scores.TopicPerformance["a"]; got != (models.DifficultyStats{Correct: 2, Total: 2}) {
		t.Errorf("topic a = %+v, want 2/2", got)
	}
	if got := scores.DifficultyPerformance[models.DifficultyAdvanced]; got != (models.DifficultyStats{Correct: 0, Total: 1}) {
		t.Errorf("advanced = %+v, want 0/1", got)
	}
	if scores.ProcessedAnswers[2].Weight != 2.0 || scores.ProcessedAnswers[2].IsCorrect {
		t.Errorf("processed answer 3 = %+v", scores.ProcessedAnswers[2])
	}
}

func TestScore_SkipsUnknownQuestions(t *testing.T) {
	scores := Score([]models.Answer{{QuestionID: 99, Answer: 0}, {QuestionID: 1, Answer: 1}}, pythonSurvey())

	if scores.Answered() != 1 {
		t.Fatalf("Answered() = %d, want 1", scores.Answered())
	}
	if scores.ProcessedAnswers[0].QuestionID != 1 {
		t.Errorf("processed question %d, want 1", scores.ProcessedAnswers[0].QuestionID)
	}
}

func TestScore_ProcessesDuplicates(t *testing.T) {
	scores := Score([]models.Answer{{QuestionID: 1, Answer: 1}, {QuestionID: 1, Answer: 0}}, pythonSurvey())

	if scores.Answered() != 2 {
		t.Errorf("Answered() = %d, want 2", scores.Answered())
	}
	if scores.CorrectCount != 1 {
		t.Errorf("CorrectCount = %d, want 1", scores.CorrectCount)
	}
}

func TestScore_EmptyIsZero(t *testing.T) {
	scores := Score(nil, pythonSurvey())
	if scores.Accuracy() != 0 || scores.WeightedAccuracy() != 0 {
		t.Errorf("empty accuracies = (%v, %v), want zeros", scores.Accuracy(), scores.WeightedAccuracy())
	}
	if len(scores.DifficultyPerformance) != len(models.Difficulties) {
		t.Errorf("DifficultyPerformance has %d tiers, want %d", len(scores.DifficultyPerformance), len(models.Difficulties))
	}
}

func TestClassify(t *testing.T) {
	stats := func(correct, total int) models.DifficultyStats {
		return models.DifficultyStats{Correct: correct, Total: total}
	}

	tests := []struct {
		name     string
		weighted float64
		perf     map[models.Difficulty]models.DifficultyStats
		want     models.SkillLevel
	}{
		{"below half", 0.49, nil, models.SkillBeginner},
		{"exactly half", 0.5, nil, models.SkillIntermediate},
		{"just under advanced", 0.74, nil, models.SkillIntermediate},
		{"exactly advanced", 0.75, nil, models.SkillAdvanced},
		{"upgrade on strong advanced", 0.6, map[models.Difficulty]models.DifficultyStats{
			models.DifficultyAdvanced: stats(8, 10),
		}, models.SkillAdvanced},
		{"downgrade on weak advanced", 0.8, map[models.Difficulty]models.DifficultyStats{
			models.DifficultyAdvanced: stats(2, 10),
		}, models.SkillIntermediate},
		{"no upgrade from beginner", 0.4, map[models.Difficulty]models.DifficultyStats{
			models.DifficultyAdvanced: stats(10, 10),
		}, models.SkillBeginner},
		{"beginner floor beats base", 0.9, map[models.Difficulty]models.DifficultyStats{
			models.DifficultyBeginner: stats(1, 5),
		}, models.SkillBeginner},
		{"beginner floor beats upgrade", 0.6, map[models.Difficulty]models.DifficultyStats{
			models.DifficultyBeginner: stats(1, 4),
			models.DifficultyAdvanced: stats(9, 10),
		}, models.SkillBeginner},
		{"empty tiers ignored", 0.9, map[models.Difficulty]models.DifficultyStats{
			models.DifficultyBeginner: stats(0, 0),
			models.DifficultyAdvanced: stats(0, 0),
		}, models.SkillAdvanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.weighted, tt.perf); got != tt.want {
				t.Errorf("Classify(%v, %v) = %q, want %q", tt.weighted, tt.perf, got, tt.want)
			}
		})
	}
}

func TestAnalyzeTopics_Partition(t *testing.T) {
	got := AnalyzeTopics(map[string]models.DifficultyStats{
		"loops":      {Correct: 4, Total: 5},
		"classes":    {Correct: 13, Total: 20},
		"decorators": {Correct: 1, Total: 4},
		"unused":     {Correct: 0, Total: 0},
	})

	if len(got.Strengths) != 1 || got.Strengths[0] != "loops" {
		t.Errorf("Strengths = %v, want [loops]", got.Strengths)
	}
	if len(got.Weaknesses) != 1 || got.Weaknesses[0] != "decorators" {
		t.Errorf("Weaknesses = %v, want [decorators]", got.Weaknesses)
	}
	if contains(got.Strengths, "classes") || contains(got.Weaknesses, "classes") {
		t.Error("topic at 0.65 accuracy should be neutral")
	}
	if score, ok := got.TopicScores["classes"]; !ok || !almostEqual(score.Accuracy, 0.65) {
		t.Errorf("TopicScores[classes] = %+v, want accuracy 0.65", score)
	}
	if _, ok := got.TopicScores["unused"]; ok {
		t.Error("unattempted topic should be omitted")
	}
}

func TestAnalyzeTopics_EmptyIsNonNil(t *testing.T) {
	got := AnalyzeTopics(nil)
	if got.Strengths == nil || got.Weaknesses == nil || got.TopicScores == nil {
		t.Errorf("AnalyzeTopics(nil) = %+v, want empty non-nil collections", got)
	}
}

func TestGenerateRecommendations_Order(t *testing.T) {
	topics := models.TopicAnalysis{
		Strengths:  []string{"loops", "strings"},
		Weaknesses: []string{"gil"},
	}
	perf := map[models.Difficulty]models.DifficultyStats{
		models.DifficultyBeginner:     {Correct: 0, Total: 2},
		models.DifficultyIntermediate: {Correct: 3, Total: 4},
		models.DifficultyAdvanced:     {Correct: 1, Total: 3},
	}

	recs := GenerateRecommendations(models.SkillIntermediate, topics, perf)

	want := []string{
		levelRecommendations[models.SkillIntermediate][0],
		levelRecommendations[models.SkillIntermediate][1],
		"Focus on improving these areas: gil.",
		"You show strong understanding in: loops, strings.",
		"Spend more time on beginner-level concepts.",
		"Spend more time on advanced-level concepts.",
	}
	if len(recs) != len(want) {
		t.Fatalf("got %d recommendations %v, want %d", len(recs), recs, len(want))
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Errorf("recs[%d] = %q, want %q", i, recs[i], want[i])
		}
	}
}

func TestGenerateRecommendations_LevelOnly(t *testing.T) {
	recs := GenerateRecommendations(models.SkillAdvanced, AnalyzeTopics(nil), nil)
	if len(recs) != 2 {
		t.Errorf("got %v, want only the two advanced strings", recs)
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	answers := []models.Answer{
		{QuestionID: 1, Answer: 1},
		{QuestionID: 2, Answer: 2},
	}

	result := Analyze(answers, pythonSurvey(), now)

	if result.UserID != "user-1" || result.Subject != "python" {
		t.Errorf("owner = (%q, %q)", result.UserID, result.Subject)
	}
	if !result.ProcessedAt.Equal(now) {
		t.Errorf("ProcessedAt = %v, want %v", result.ProcessedAt, now)
	}
	if result.TotalQuestions != 2 || result.CorrectAnswers != 1 {
		t.Errorf("totals = %d/%d, want 1/2", result.CorrectAnswers, result.TotalQuestions)
	}
	if !almostEqual(result.Accuracy, 0.5) {
		t.Errorf("Accuracy = %v, want 0.5", result.Accuracy)
	}
	if !almostEqual(result.WeightedAccuracy, 1.0/3.0) {
		t.Errorf("WeightedAccuracy = %v, want 1/3", result.WeightedAccuracy)
	}
	if result.SkillLevel != models.SkillBeginner {
		t.Errorf("SkillLevel = %q, want beginner", result.SkillLevel)
	}
	if !contains(result.TopicAnalysis.Weaknesses, "gil") {
		t.Errorf("Weaknesses = %v, want gil", result.TopicAnalysis.Weaknesses)
	}
	if !contains(result.TopicAnalysis.Strengths, "lists") {
		t.Errorf("Strengths = %v, want lists", result.TopicAnalysis.Strengths)
	}

	if !contains(result.Recommendations, levelRecommendations[models.SkillBeginner][0]) {
		t.Errorf("missing beginner guidance in %v", result.Recommendations)
	}
	shortfall := false
	for _, r := range result.Recommendations {
		if strings.Contains(r, "advanced-level") {
			shortfall = true
		}
	}
	if !shortfall {
		t.Errorf("missing advanced shortfall in %v", result.Recommendations)
	}
}
