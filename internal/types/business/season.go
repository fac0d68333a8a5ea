package business

// SeasonCategory buckets a month by its revenue drop against the baseline.
// The naming is inverted: Low marks the worst-performing months, High the best.
type SeasonCategory string

const (
	SeasonLow    SeasonCategory = "Low"
	SeasonMedium SeasonCategory = "Medium"
	SeasonHigh   SeasonCategory = "High"
)

// MonthSummary holds the aggregated metrics of one calendar month.
type MonthSummary struct {
	Month               MonthKey       `json:"-"`
	MonthLabel          string         `json:"month"`
	TotalRevenue        float64        `json:"total_revenue"`
	NumBookings         int            `json:"num_bookings"`
	RevenueDropPercent  float64        `json:"revenue_drop"`
	BookingsDropPercent float64        `json:"bookings_drop"`
	Category            SeasonCategory `json:"season_category"`
}

// SeasonReport is the month table plus the baselines it was computed against.
type SeasonReport struct {
	Months           []MonthSummary `json:"months"`
	BaselineRevenue  float64        `json:"baseline_revenue"`
	BaselineBookings float64        `json:"baseline_bookings"`
}

// Latest returns the chronologically last month, if any.
func (r SeasonReport) Latest() (MonthSummary, bool) {
	if len(r.Months) == 0 {
		return MonthSummary{}, false
	}
	return r.Months[len(r.Months)-1], true
}
