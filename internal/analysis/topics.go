package analysis

import (
	"sort"

	"github.com/learnpath/backend/internal/models"
)

const (
	strengthAccuracy = 0.8
	weaknessAccuracy = 0.5
)

// AnalyzeTopics splits attempted topics into strengths (>= 0.8) and
// weaknesses (< 0.5). Topics in between appear only in TopicScores;
// topics never attempted are left out entirely.
func AnalyzeTopics(perf map[string]models.DifficultyStats) models.TopicAnalysis {
	analysis := models.TopicAnalysis{
		Strengths:   []string{},
		Weaknesses:  []string{},
		TopicScores: make(map[string]models.TopicScore, len(perf)),
	}

	for topic, stats := range perf {
		if stats.Total <= 0 {
			continue
		}
		acc := stats.Accuracy()
		analysis.TopicScores[topic] = models.TopicScore{
			Accuracy: acc,
			Correct:  stats.Correct,
			Total:    stats.Total,
		}

		switch {
		case acc >= strengthAccuracy:
			analysis.Strengths = append(analysis.Strengths, topic)
		case acc < weaknessAccuracy:
			analysis.Weaknesses = append(analysis.Weaknesses, topic)
		}
	}

	sort.Strings(analysis.Strengths)
	sort.Strings(analysis.Weaknesses)
	return analysis
}
