package service

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRetentionHours is how long ledger rows are kept. It must not be
// shorter than the refresh window or refreshable tokens lose their record.
const DefaultRetentionHours = 2

// HousekeepingService periodically prunes the token ledger.
type HousekeepingService struct {
	Ledger         *TokenLedger
	Logger         *slog.Logger
	Interval       time.Duration
	RetentionHours int

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults interval to one hour and retention to
// DefaultRetentionHours when they are not positive.
func NewHousekeepingService(ledger *TokenLedger, logger *slog.Logger, interval time.Duration, retentionHours int) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retentionHours <= 0 {
		retentionHours = DefaultRetentionHours
	}

	return &HousekeepingService{
		Ledger:         ledger,
		Logger:         logger,
		Interval:       interval,
		RetentionHours: retentionHours,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start runs the sweep in the background, once immediately and then every
// Interval. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		"interval", s.Interval, "retention_hours", s.RetentionHours)
}

// Stop blocks until an in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	res, err := s.Ledger.PruneExpired(ctx, s.RetentionHours)
	if err != nil {
		s.Logger.Error("housekeeping cleanup failed", "error", err)
		return
	}
	s.Logger.Debug("housekeeping cleanup completed",
		"blacklisted_deleted", res.Blacklisted, "issued_deleted", res.Issued)
}
