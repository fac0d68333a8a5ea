package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/staybright/offseason-campaigns/internal/services"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

// ErrNoBookings is returned when the dataset has a header but no rows
var ErrNoBookings = errors.New("dataset contains no bookings")

// BookingLoader reads the bookings for one run
type BookingLoader interface {
	Load(ctx context.Context, location string) ([]business.Booking, error)
}

// CampaignProcessor runs the load, segment, analyze and dispatch pipeline
type CampaignProcessor struct {
	loader         BookingLoader
	segmentation   *services.SegmentationService
	seasons        *services.SeasonService
	emails         *services.EmailService
	logger         *zap.Logger
	defaultDataset string
}

// NewCampaignProcessor creates a new campaign processor. defaultDataset is
// used for run requests that do not name a dataset.
func NewCampaignProcessor(
	loader BookingLoader,
	segmentation *services.SegmentationService,
	seasons *services.SeasonService,
	emails *services.EmailService,
	logger *zap.Logger,
	defaultDataset string,
) *CampaignProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignProcessor{
		loader:         loader,
		segmentation:   segmentation,
		seasons:        seasons,
		emails:         emails,
		logger:         logger,
		defaultDataset: defaultDataset,
	}
}

// Analysis is the computed part of a run, before any email is sent
type Analysis struct {
	Users      []business.UserProfile  `json:"users"`
	Thresholds business.TierThresholds `json:"thresholds"`
	Seasons    business.SeasonReport   `json:"seasons"`
	Latest     business.MonthSummary   `json:"latest"`
}

// ProcessingResults holds the results of one campaign run
type ProcessingResults struct {
	RunID       string                     `json:"run_id"`
	Label       string                     `json:"label,omitempty"`
	DatasetPath string                     `json:"dataset_path"`
	StartedAt   time.Time                  `json:"started_at"`
	Duration    time.Duration              `json:"duration"`
	Analysis    Analysis                   `json:"analysis"`
	Total       int                        `json:"total"`
	Sent        int                        `json:"sent"`
	Failed      int                        `json:"failed"`
	Recipients  []business.RecipientResult `json:"recipients"`

	// SendErrors aggregates every failed recipient; nil when all were sent.
	SendErrors error `json:"-"`
}

// Analyze segments users and classifies months. It has no side effects, so
// the same bookings always produce the same analysis.
func (p *CampaignProcessor) Analyze(bookings []business.Booking) (*Analysis, error) {
	if len(bookings) == 0 {
		return nil, ErrNoBookings
	}

	users, thresholds := p.segmentation.SegmentUsers(bookings)
	report := p.seasons.AnalyzeSeasons(bookings)
	latest, ok := report.Latest()
	if !ok {
		return nil, ErrNoBookings
	}

	return &Analysis{
		Users:      users,
		Thresholds: thresholds,
		Seasons:    report,
		Latest:     latest,
	}, nil
}

// Run executes one campaign. Loader and analysis errors abort the run; email
// failures do not and are reported through the results instead.
func (p *CampaignProcessor) Run(ctx context.Context, req business.RunRequest) (*ProcessingResults, error) {
	results := &ProcessingResults{
		RunID:       uuid.New().String(),
		Label:       req.Label,
		DatasetPath: req.DatasetPath,
		StartedAt:   time.Now(),
	}
	if results.DatasetPath == "" {
		results.DatasetPath = p.defaultDataset
	}
	if results.DatasetPath == "" {
		return nil, errors.New("no dataset path configured for campaign run")
	}

	log := p.logger.With(zap.String("run_id", results.RunID), zap.String("dataset", results.DatasetPath))
	log.Info("Starting campaign run", zap.String("label", req.Label))

	bookings, err := p.loader.Load(ctx, results.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	analysis, err := p.Analyze(bookings)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze bookings: %w", err)
	}
	results.Analysis = *analysis

	if log.Core().Enabled(zapcore.DebugLevel) {
		log.Debug("Computed campaign tables",
			zap.String("thresholds", spew.Sdump(analysis.Thresholds)),
			zap.String("months", spew.Sdump(analysis.Seasons.Months)),
		)
	}

	season := analysis.Latest.Category
	log.Info("Dispatching campaign",
		zap.String("latest_month", analysis.Latest.MonthLabel),
		zap.String("season_category", string(season)),
		zap.Int("users", len(analysis.Users)),
	)

	recipients, sendErr := p.emails.SendCampaign(ctx, analysis.Users, season)
	results.Recipients = recipients
	results.SendErrors = sendErr
	results.Total = len(recipients)
	for _, r := range recipients {
		if r.Sent() {
			results.Sent++
		} else {
			results.Failed++
		}
	}
	results.Duration = time.Since(results.StartedAt)

	if sendErr != nil {
		log.Warn("Campaign finished with failed recipients",
			zap.Int("failed", results.Failed),
			zap.Error(sendErr),
		)
	}
	log.Info("Campaign run completed",
		zap.Int("total", results.Total),
		zap.Int("sent", results.Sent),
		zap.Int("failed", results.Failed),
		zap.Duration("duration", results.Duration),
	)

	return results, nil
}
