package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/config"
)

// CleanupSchedule runs audit retention once a day at 03:00.
const CleanupSchedule = "0 3 * * *"

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Loader is the part of the collection synchronizer the scheduler drives.
type Loader interface {
	LoadWithTrigger(ctx context.Context, trigger string) error
	InFlight() int
}

// Pruner deletes audit events older than the retention period.
type Pruner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// RefreshScheduler periodically reloads the collection from the store so
// changes made by other clients show up, and prunes the audit log.
type RefreshScheduler struct {
	loader    Loader
	pruner    Pruner
	cfg       config.Refresh
	retention time.Duration
	logger    *zap.Logger

	cron         *cron.Cron
	entryID      cron.EntryID
	mu           sync.RWMutex
	isRunning    bool
	isRefreshing bool
	cancelFunc   context.CancelFunc
}

// NewRefreshScheduler creates a scheduler. pruner may be nil, and a
// non-positive retentionDays disables cleanup.
func NewRefreshScheduler(cfg config.Refresh, retentionDays int, loader Loader, pruner Pruner, logger *zap.Logger) *RefreshScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshScheduler{
		loader:    loader,
		pruner:    pruner,
		cfg:       cfg,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger.Named("scheduler"),
		cron:      cron.New(cron.WithParser(parser)),
	}
}

// Start registers the enabled jobs and starts the cron loop. It stops on its
// own when ctx is cancelled.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	jobs := 0
	if s.cfg.Enabled {
		if err := ValidateSchedule(s.cfg.Schedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
		}
		entryID, err := s.cron.AddFunc(s.cfg.Schedule, s.runRefresh)
		if err != nil {
			return fmt.Errorf("failed to schedule refresh job: %w", err)
		}
		s.entryID = entryID
		jobs++
		s.logger.Info("refresh scheduled",
			zap.String("schedule", s.cfg.Schedule),
			zap.String("description", Describe(s.cfg.Schedule)))
	} else {
		s.logger.Info("refresh disabled")
	}

	if s.pruner != nil && s.retention > 0 {
		if _, err := s.cron.AddFunc(CleanupSchedule, s.runCleanup); err != nil {
			return fmt.Errorf("failed to schedule audit cleanup: %w", err)
		}
		jobs++
	}

	if jobs == 0 {
		return nil
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for running jobs to finish and stops the cron loop.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// Jobs take s.mu, so wait for them without holding it.
	<-s.cron.Stop().Done()
	if cancel != nil {
		cancel()
	}

	s.logger.Info("scheduler stopped")
}

func (s *RefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *RefreshScheduler) IsRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRefreshing
}

// GetNextRunTime returns when the next refresh will occur, or nil when
// refresh is not scheduled.
func (s *RefreshScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || s.entryID == 0 {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runRefresh reloads the collection unless a refresh is already running or
// optimistic mutations are still waiting on the store. A reload then would
// briefly hide their optimistic records.
func (s *RefreshScheduler) runRefresh() {
	s.mu.Lock()
	if s.isRefreshing {
		s.mu.Unlock()
		s.logger.Debug("refresh skipped, already refreshing")
		return
	}
	s.isRefreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRefreshing = false
		s.mu.Unlock()
	}()

	if n := s.loader.InFlight(); n > 0 {
		s.logger.Info("refresh skipped, mutations in flight", zap.Int("in_flight", n))
		return
	}

	start := time.Now()
	if err := s.loader.LoadWithTrigger(context.Background(), collection.TriggerRefresh); err != nil {
		s.logger.Warn("refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("refresh finished", zap.Duration("took", time.Since(start).Round(time.Millisecond)))
}

func (s *RefreshScheduler) runCleanup() {
	deleted, err := s.pruner.DeleteOldEvents(s.retention)
	if err != nil {
		s.logger.Warn("audit cleanup failed", zap.Error(err))
		return
	}
	s.logger.Info("audit cleanup finished", zap.Int64("deleted", deleted))
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Describe returns a human-readable description of common schedules.
func Describe(schedule string) string {
	switch schedule {
	case "* * * * *":
		return "Every minute"
	case "*/5 * * * *":
		return "Every 5 minutes"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 * * * *":
		return "Every hour at :00"
	case "0 */6 * * *":
		return "Every 6 hours"
	case "0 0 * * *":
		return "Daily at midnight"
	default:
		return "Custom schedule"
	}
}
