package services

import (
	"fmt"

	"github.com/staybright/offseason-campaigns/internal/types/business"
)

// discountTable is indexed by user tier, then season category.
var discountTable = map[business.UserTier]map[business.SeasonCategory]string{
	business.UserTierHigh: {
		business.SeasonLow:    "40% OFF",
		business.SeasonMedium: "30% OFF",
		business.SeasonHigh:   "20% OFF",
	},
	business.UserTierMedium: {
		business.SeasonLow:    "30% OFF",
		business.SeasonMedium: "20% OFF",
		business.SeasonHigh:   "10% OFF",
	},
	business.UserTierLow: {
		business.SeasonLow:    "20% OFF",
		business.SeasonMedium: "15% OFF",
		business.SeasonHigh:   "5% OFF",
	},
}

// LookupDiscount returns the offer for a tier in a season.
func LookupDiscount(tier business.UserTier, season business.SeasonCategory) (string, error) {
	row, ok := discountTable[tier]
	if !ok {
		return "", fmt.Errorf("unknown user tier %q", tier)
	}
	discount, ok := row[season]
	if !ok {
		return "", fmt.Errorf("unknown season category %q", season)
	}
	return discount, nil
}
