package services

import (
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/constants"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

// SegmentationService buckets users into tiers by booking frequency
type SegmentationService struct {
	logger *zap.Logger
}

// NewSegmentationService creates a new segmentation service
func NewSegmentationService(logger *zap.Logger) *SegmentationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SegmentationService{logger: logger}
}

// SegmentUsers aggregates revenue and booking counts per user and assigns
// each user a tier. Cutoffs are the 75th and 50th percentile of booking
// counts across the users in bookings, so they move as the dataset grows.
// Bookings without a user id belong to no user and are ignored here.
func (s *SegmentationService) SegmentUsers(bookings []business.Booking) ([]business.UserProfile, business.TierThresholds) {
	byUser := make(map[string]*business.UserProfile)
	skipped := 0
	for _, b := range bookings {
		if b.UserID == "" {
			skipped++
			continue
		}
		profile, ok := byUser[b.UserID]
		if !ok {
			profile = &business.UserProfile{UserID: b.UserID}
			byUser[b.UserID] = profile
		}
		profile.TotalRevenue += b.Revenue
		profile.NumBookings++
		if profile.Email == "" {
			profile.Email = b.Email
		}
	}

	profiles := make([]business.UserProfile, 0, len(byUser))
	counts := make([]float64, 0, len(byUser))
	for _, profile := range byUser {
		profiles = append(profiles, *profile)
		counts = append(counts, float64(profile.NumBookings))
	}
	sortProfiles(profiles)
	sort.Float64s(counts)

	thresholds := business.TierThresholds{
		High:   Quantile(counts, constants.HighTierQuantile),
		Medium: Quantile(counts, constants.MediumTierQuantile),
	}

	for i := range profiles {
		profiles[i].Tier = AssignTier(profiles[i].NumBookings, thresholds)
	}

	s.logger.Info("Segmented users",
		zap.Int("users", len(profiles)),
		zap.Int("bookings_without_user", skipped),
		zap.Float64("high_threshold", thresholds.High),
		zap.Float64("medium_threshold", thresholds.Medium),
	)

	return profiles, thresholds
}

// AssignTier maps a booking count onto a tier. When both cutoffs coincide
// the Medium band is empty.
func AssignTier(numBookings int, thresholds business.TierThresholds) business.UserTier {
	count := float64(numBookings)
	switch {
	case count >= thresholds.High:
		return business.UserTierHigh
	case count >= thresholds.Medium:
		return business.UserTierMedium
	default:
		return business.UserTierLow
	}
}

// Quantile returns the p-quantile of an ascending slice, interpolating
// linearly between the closest ranks at position (n-1)*p. Empty input yields NaN.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	pos := float64(n-1) * p
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// sortProfiles orders users numerically when every id is an integer,
// lexically otherwise. Ids with the same numeric value ("7", "07") fall back
// to their raw string.
func sortProfiles(profiles []business.UserProfile) {
	numeric := make(map[string]int64, len(profiles))
	allNumeric := true
	for _, p := range profiles {
		v, err := strconv.ParseInt(p.UserID, 10, 64)
		if err != nil {
			allNumeric = false
			break
		}
		numeric[p.UserID] = v
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		a, b := profiles[i].UserID, profiles[j].UserID
		if allNumeric && numeric[a] != numeric[b] {
			return numeric[a] < numeric[b]
		}
		return a < b
	})
}
