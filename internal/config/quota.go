package config

import (
	"aibot-api/internal/models"
)

// QuotaConfig holds the starting allowance per feature for a fresh user and
// the number of history entries fed back to the completion API as context.
type QuotaConfig struct {
	Defaults map[models.Feature]int

	HistoryLimit        int
	PremiumHistoryLimit int
}

func NewQuotaConfig() *QuotaConfig {
	return &QuotaConfig{
		Defaults: map[models.Feature]int{
			models.FeatureText:   20,
			models.FeatureImage:  10,
			models.FeatureVision: 3,
			models.FeatureCode:   5,
		},
		HistoryLimit:        5,
		PremiumHistoryLimit: 10,
	}
}
