package services_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/logger"
	"github.com/staybright/offseason-campaigns/internal/services"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

func init() {
	logger.InitLogger("test")
}

func booking(userID string, revenue float64, date time.Time) business.Booking {
	return business.Booking{
		UserID:      userID,
		Revenue:     revenue,
		BookingDate: date,
		Month:       business.MonthKeyOf(date),
	}
}

// bookingsFor creates count bookings of revenue 10 each for a user.
func bookingsFor(userID string, count int) []business.Booking {
	var out []business.Booking
	for i := 0; i < count; i++ {
		out = append(out, booking(userID, 10, time.Date(2024, time.Month(i%12+1), 1, 0, 0, 0, 0, time.UTC)))
	}
	return out
}

func TestSegmentationService_SegmentUsers(t *testing.T) {
	svc := services.NewSegmentationService(zap.NewNop())

	var bookings []business.Booking
	bookings = append(bookings, bookingsFor("a", 1)...)
	bookings = append(bookings, bookingsFor("b", 2)...)
	bookings = append(bookings, bookingsFor("c", 3)...)
	bookings = append(bookings, bookingsFor("d", 4)...)

	profiles, thresholds := svc.SegmentUsers(bookings)

	assert.InDelta(t, 3.25, thresholds.High, 1e-9)
	assert.InDelta(t, 2.5, thresholds.Medium, 1e-9)

	require.Len(t, profiles, 4)
	want := map[string]business.UserTier{
		"a": business.UserTierLow,
		"b": business.UserTierLow,
		"c": business.UserTierMedium,
		"d": business.UserTierHigh,
	}
	for _, p := range profiles {
		assert.Equal(t, want[p.UserID], p.Tier, "user %s", p.UserID)
		assert.InDelta(t, float64(p.NumBookings)*10, p.TotalRevenue, 1e-9)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, userIDs(profiles))
}

func TestSegmentationService_EveryUserOneTierMonotonic(t *testing.T) {
	svc := services.NewSegmentationService(zap.NewNop())

	var bookings []business.Booking
	for i := 1; i <= 37; i++ {
		bookings = append(bookings, bookingsFor(fmt.Sprintf("%d", i), (i*7)%11+1)...)
	}

	profiles, _ := svc.SegmentUsers(bookings)
	require.Len(t, profiles, 37)

	seen := make(map[string]bool)
	rank := map[business.UserTier]int{
		business.UserTierLow:    0,
		business.UserTierMedium: 1,
		business.UserTierHigh:   2,
	}
	for _, p := range profiles {
		assert.False(t, seen[p.UserID], "user %s appears twice", p.UserID)
		seen[p.UserID] = true
		_, ok := rank[p.Tier]
		assert.True(t, ok, "user %s has no valid tier", p.UserID)
	}

	for _, x := range profiles {
		for _, y := range profiles {
			if x.NumBookings > y.NumBookings {
				assert.GreaterOrEqual(t, rank[x.Tier], rank[y.Tier],
					"user %s (%d bookings) ranked below user %s (%d bookings)", x.UserID, x.NumBookings, y.UserID, y.NumBookings)
			}
		}
	}
}

func TestSegmentationService_CollapsedMediumBand(t *testing.T) {
	svc := services.NewSegmentationService(zap.NewNop())

	var bookings []business.Booking
	bookings = append(bookings, bookingsFor("1", 2)...)
	bookings = append(bookings, bookingsFor("2", 2)...)

	profiles, thresholds := svc.SegmentUsers(bookings)
	assert.Equal(t, thresholds.High, thresholds.Medium)
	for _, p := range profiles {
		assert.Equal(t, business.UserTierHigh, p.Tier)
	}
}

func TestSegmentationService_NumericOrdering(t *testing.T) {
	svc := services.NewSegmentationService(zap.NewNop())

	var bookings []business.Booking
	for _, id := range []string{"100", "9", "10"} {
		bookings = append(bookings, bookingsFor(id, 1)...)
	}

	profiles, _ := svc.SegmentUsers(bookings)
	assert.Equal(t, []string{"9", "10", "100"}, userIDs(profiles))
}

func TestSegmentationService_BlankUserIDs(t *testing.T) {
	svc := services.NewSegmentationService(zap.NewNop())

	tests := []struct {
		name      string
		bookings  []business.Booking
		wantUsers []string
		wantTiers map[string]business.UserTier
		wantHigh  float64
	}{
		{
			name: "rows without a user id form no user",
			bookings: append(append(bookingsFor("1", 1), bookingsFor("2", 1)...),
				bookingsFor("", 3)...),
			wantUsers: []string{"1", "2"},
			wantTiers: map[string]business.UserTier{
				"1": business.UserTierHigh,
				"2": business.UserTierHigh,
			},
			wantHigh: 1,
		},
		{
			name:      "only blank ids",
			bookings:  bookingsFor("", 2),
			wantUsers: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles, thresholds := svc.SegmentUsers(tt.bookings)
			assert.Equal(t, tt.wantUsers, userIDs(profiles))
			for _, p := range profiles {
				assert.Equal(t, tt.wantTiers[p.UserID], p.Tier, "user %s", p.UserID)
			}
			if len(tt.wantUsers) > 0 {
				assert.InDelta(t, tt.wantHigh, thresholds.High, 1e-9)
			}
		})
	}
}

func TestSegmentationService_EquivalentNumericIDsOrderedByRawID(t *testing.T) {
	svc := services.NewSegmentationService(zap.NewNop())

	var bookings []business.Booking
	for _, id := range []string{"7", "3", "07", "007"} {
		bookings = append(bookings, bookingsFor(id, 1)...)
	}

	for i := 0; i < 20; i++ {
		profiles, _ := svc.SegmentUsers(bookings)
		require.Equal(t, []string{"3", "007", "07", "7"}, userIDs(profiles))
	}
}

func TestSegmentationService_FirstEmailKept(t *testing.T) {
	svc := services.NewSegmentationService(zap.NewNop())
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	profiles, _ := svc.SegmentUsers([]business.Booking{
		{UserID: "u", Revenue: 1, BookingDate: date, Month: business.MonthKeyOf(date)},
		{UserID: "u", Email: "first@hotel.test", Revenue: 1, BookingDate: date, Month: business.MonthKeyOf(date)},
		{UserID: "u", Email: "second@hotel.test", Revenue: 1, BookingDate: date, Month: business.MonthKeyOf(date)},
	})
	require.Len(t, profiles, 1)
	assert.Equal(t, "first@hotel.test", profiles[0].Email)
}

func TestAssignTier(t *testing.T) {
	thresholds := business.TierThresholds{High: 5, Medium: 3}

	tests := []struct {
		count int
		want  business.UserTier
	}{
		{count: 7, want: business.UserTierHigh},
		{count: 5, want: business.UserTierHigh},
		{count: 4, want: business.UserTierMedium},
		{count: 3, want: business.UserTierMedium},
		{count: 2, want: business.UserTierLow},
		{count: 0, want: business.UserTierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, services.AssignTier(tt.count, thresholds), "count %d", tt.count)
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{name: "single value", sorted: []float64{4}, p: 0.75, want: 4},
		{name: "exact rank", sorted: []float64{1, 2, 3, 4, 5}, p: 0.5, want: 3},
		{name: "interpolated upper quartile", sorted: []float64{1, 2, 3, 4}, p: 0.75, want: 3.25},
		{name: "interpolated median", sorted: []float64{1, 2, 3, 4}, p: 0.5, want: 2.5},
		{name: "max", sorted: []float64{1, 2, 9}, p: 1, want: 9},
		{name: "min", sorted: []float64{1, 2, 9}, p: 0, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, services.Quantile(tt.sorted, tt.p), 1e-9)
		})
	}

	assert.True(t, math.IsNaN(services.Quantile(nil, 0.5)))
}

func userIDs(profiles []business.UserProfile) []string {
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
	}
	return ids
}
