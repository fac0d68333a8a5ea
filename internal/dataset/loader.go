package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	awsclient "github.com/staybright/offseason-campaigns/internal/client/aws"
	"github.com/staybright/offseason-campaigns/internal/interfaces"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

// Required and optional dataset columns
const (
	ColumnUserID      = "user_id"
	ColumnRevenue     = "total_revenue"
	ColumnBookingDate = "booking_date"
	ColumnEmail       = "email"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// Loader reads booking datasets from local files or S3.
type Loader struct {
	objects interfaces.ObjectStore
	logger  *zap.Logger
}

// NewLoader creates a loader. objects may be nil when only local paths are used.
func NewLoader(objects interfaces.ObjectStore, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{objects: objects, logger: logger}
}

// Load reads every booking at location, a local path or an s3://bucket/key URI.
func (l *Loader) Load(ctx context.Context, location string) ([]business.Booking, error) {
	body, err := l.open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	bookings, err := ParseBookings(body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset %s", location)
	}

	l.logger.Info("Loaded booking dataset",
		zap.String("location", location),
		zap.Int("rows", len(bookings)),
	)
	return bookings, nil
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, awsclient.S3URIScheme) {
		bucket, key, ok := awsclient.ParseS3URI(location)
		if !ok {
			return nil, errors.Errorf("malformed S3 dataset location %q", location)
		}
		if l.objects == nil {
			return nil, errors.Errorf("no object store configured for %s", location)
		}
		return l.objects.GetObject(ctx, bucket, key)
	}

	file, err := os.Open(location)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open dataset")
	}
	return file, nil
}

// ParseBookings reads CSV rows into bookings. Any row whose date or revenue
// cannot be parsed fails the whole parse.
func ParseBookings(r io.Reader) ([]business.Booking, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read header")
	}

	columns := normalizeHeaders(headers)
	userIdx, ok := columns[ColumnUserID]
	if !ok {
		return nil, errors.Errorf("missing %s column", ColumnUserID)
	}
	revenueIdx, ok := columns[ColumnRevenue]
	if !ok {
		return nil, errors.Errorf("missing %s column", ColumnRevenue)
	}
	dateIdx, ok := columns[ColumnBookingDate]
	if !ok {
		return nil, errors.Errorf("missing %s column", ColumnBookingDate)
	}
	emailIdx, hasEmail := columns[ColumnEmail]
	if !hasEmail {
		emailIdx = -1
	}

	var bookings []business.Booking
	row := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrap(err, "unable to read CSV")
		}
		row++
		if isBlank(record) {
			continue
		}

		bookingDate, err := ParseDate(getValue(record, dateIdx))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: invalid %s", row, ColumnBookingDate)
		}

		revenue, err := parseRevenue(getValue(record, revenueIdx))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: invalid %s", row, ColumnRevenue)
		}

		bookings = append(bookings, business.Booking{
			UserID:      getValue(record, userIdx),
			Email:       getValue(record, emailIdx),
			Revenue:     revenue,
			BookingDate: bookingDate,
			Month:       business.MonthKeyOf(bookingDate),
		})
	}

	return bookings, nil
}

// ParseDate accepts the date formats commonly exported by booking systems.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.Errorf("unsupported date format: %s", value)
}

// Empty cells count as zero revenue.
func parseRevenue(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

func normalizeHeaders(headers []string) map[string]int {
	result := make(map[string]int, len(headers))
	for idx, header := range headers {
		normalized := normalizeHeader(header)
		if _, exists := result[normalized]; !exists {
			result[normalized] = idx
		}
	}
	return result
}

func normalizeHeader(value string) string {
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return value
}

func getValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
