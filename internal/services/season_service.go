package services

import (
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/staybright/offseason-campaigns/internal/constants"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

// SeasonService classifies months by how far they fall below the all-months baseline
type SeasonService struct {
	logger *zap.Logger
}

// NewSeasonService creates a new season service
func NewSeasonService(logger *zap.Logger) *SeasonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeasonService{logger: logger}
}

// AnalyzeSeasons aggregates bookings per calendar month and categorizes each
// month against the mean over every month present in bookings. Months are
// returned in chronological order. Rows without a user id add revenue but are
// not counted as bookings.
func (s *SeasonService) AnalyzeSeasons(bookings []business.Booking) business.SeasonReport {
	byMonth := make(map[business.MonthKey]*business.MonthSummary)
	for _, b := range bookings {
		summary, ok := byMonth[b.Month]
		if !ok {
			summary = &business.MonthSummary{Month: b.Month, MonthLabel: b.Month.String()}
			byMonth[b.Month] = summary
		}
		summary.TotalRevenue += b.Revenue
		if b.UserID != "" {
			summary.NumBookings++
		}
	}

	months := make([]business.MonthSummary, 0, len(byMonth))
	for _, summary := range byMonth {
		months = append(months, *summary)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})

	report := business.SeasonReport{Months: months}
	if len(months) == 0 {
		return report
	}

	revenues := make([]float64, len(months))
	counts := make([]float64, len(months))
	for i, m := range months {
		revenues[i] = m.TotalRevenue
		counts[i] = float64(m.NumBookings)
	}
	report.BaselineRevenue = stat.Mean(revenues, nil)
	report.BaselineBookings = stat.Mean(counts, nil)

	for i := range report.Months {
		m := &report.Months[i]
		m.RevenueDropPercent = DropPercent(report.BaselineRevenue, m.TotalRevenue)
		m.BookingsDropPercent = DropPercent(report.BaselineBookings, float64(m.NumBookings))
		m.Category = CategorizeSeason(m.RevenueDropPercent)
	}

	if latest, ok := report.Latest(); ok {
		s.logger.Info("Analyzed seasons",
			zap.Int("months", len(report.Months)),
			zap.Float64("baseline_revenue", report.BaselineRevenue),
			zap.String("latest_month", latest.MonthLabel),
			zap.Float64("latest_revenue_drop", latest.RevenueDropPercent),
			zap.String("latest_season", string(latest.Category)),
		)
	}

	return report
}

// DropPercent is how far value sits below baseline, in percent of baseline.
// Negative results mean value beat the baseline. A zero baseline yields 0.
func DropPercent(baseline, value float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (baseline - value) / baseline * 100
}

// CategorizeSeason maps a revenue drop onto a season category. Low is the
// worst-performing bucket.
func CategorizeSeason(revenueDropPercent float64) business.SeasonCategory {
	switch {
	case revenueDropPercent > constants.LowSeasonDropPercent:
		return business.SeasonLow
	case revenueDropPercent > constants.MediumSeasonDropPercent:
		return business.SeasonMedium
	default:
		return business.SeasonHigh
	}
}
