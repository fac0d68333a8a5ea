package business

// UserTier buckets users by booking frequency.
type UserTier string

const (
	UserTierHigh   UserTier = "High"
	UserTierMedium UserTier = "Medium"
	UserTierLow    UserTier = "Low"
)

// UserProfile aggregates a user's bookings for one run.
type UserProfile struct {
	UserID       string   `json:"user_id"`
	Email        string   `json:"email,omitempty"`
	TotalRevenue float64  `json:"total_revenue"`
	NumBookings  int      `json:"num_bookings"`
	Tier         UserTier `json:"tier"`
}

// TierThresholds are the booking-count cutoffs of the current user population.
type TierThresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}
