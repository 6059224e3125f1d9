package analysis

import (
	"fmt"
	"strings"

	"github.com/learnpath/backend/internal/models"
)

const difficultyShortfallAccuracy = 0.5

var levelRecommendations = map[models.SkillLevel][]string{
	models.SkillBeginner: {
		"Start with fundamental concepts and basic syntax.",
		"Practice with simple exercises to build confidence.",
	},
	models.SkillIntermediate: {
		"Focus on deepening your understanding of core concepts.",
		"Work on small projects that combine several topics.",
	},
	models.SkillAdvanced: {
		"Explore advanced patterns and best practices.",
		"Take on complex projects that stretch your expertise.",
	},
}

// GenerateRecommendations builds guidance in a fixed order: skill-level
// advice, weak topics, strong topics, then one line per difficulty tier
// (beginner, intermediate, advanced) with accuracy below 0.5.
func GenerateRecommendations(level models.SkillLevel, topics models.TopicAnalysis, perf map[models.Difficulty]models.DifficultyStats) []string {
	recs := make([]string, 0, 6)
	recs = append(recs, levelRecommendations[level]...)

	if len(topics.Weaknesses) > 0 {
		recs = append(recs, fmt.Sprintf("Focus on improving these areas: %s.", strings.Join(topics.Weaknesses, ", ")))
	}
	if len(topics.Strengths) > 0 {
		recs = append(recs, fmt.Sprintf("You show strong understanding in: %s.", strings.Join(topics.Strengths, ", ")))
	}

	for _, d := range models.Difficulties {
		stats := perf[d]
		if stats.Total > 0 && stats.Accuracy() < difficultyShortfallAccuracy {
			recs = append(recs, fmt.Sprintf("Spend more time on %s-level concepts.", d))
		}
	}

	return recs
}
