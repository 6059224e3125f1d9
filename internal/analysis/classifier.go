package analysis

import "github.com/learnpath/backend/internal/models"

const (
	intermediateThreshold = 0.5
	advancedThreshold     = 0.75

	advancedUpgradeAccuracy   = 0.7
	advancedDowngradeAccuracy = 0.3
	beginnerFloorAccuracy     = 0.5
)

// Classify maps weighted accuracy and per-tier performance to a skill level.
//
// Rules run in a fixed order and each may override the last:
//  1. base level from weighted accuracy (<0.5 beginner, <0.75 intermediate, else advanced)
//  2. advanced accuracy >= 0.7 lifts intermediate to advanced; < 0.3 drops advanced to intermediate
//  3. beginner accuracy < 0.5 forces beginner
func Classify(weightedAccuracy float64, perf map[models.Difficulty]models.DifficultyStats) models.SkillLevel {
	level := baseLevel(weightedAccuracy)

	if adv := perf[models.DifficultyAdvanced]; adv.Total > 0 {
		acc := adv.Accuracy()
		if acc >= advancedUpgradeAccuracy && level == models.SkillIntermediate {
			level = models.SkillAdvanced
		} else if acc < advancedDowngradeAccuracy && level == models.SkillAdvanced {
			level = models.SkillIntermediate
		}
	}

	if beg := perf[models.DifficultyBeginner]; beg.Total > 0 {
		if beg.Accuracy() < beginnerFloorAccuracy && level != models.SkillBeginner {
			level = models.SkillBeginner
		}
	}

	return level
}

func baseLevel(weightedAccuracy float64) models.SkillLevel {
	switch {
	case weightedAccuracy < intermediateThreshold:
		return models.SkillBeginner
	case weightedAccuracy < advancedThreshold:
		return models.SkillIntermediate
	default:
		return models.SkillAdvanced
	}
}
