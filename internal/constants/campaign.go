package constants

import "time"

// Campaign defaults
const (
	DefaultMailSubject     = "Special Offer Just for You!"
	DefaultRecipientDomain = "example.com"

	// First day of every month at 00:00
	DefaultCampaignSchedule = "0 0 1 * *"

	// Zero disables the client timeout on outbound mail requests
	DefaultMailTimeout time.Duration = 0
)

// Season drop thresholds, in percent of the all-months baseline
const (
	LowSeasonDropPercent    = 20.0
	MediumSeasonDropPercent = 10.0
)

// Booking-count quantiles used as tier cutoffs
const (
	HighTierQuantile   = 0.75
	MediumTierQuantile = 0.50
)
