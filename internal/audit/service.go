package audit

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const maxMessageLen = 500

// Service records synchronization outcomes: loads, confirmed or failed
// mutations, and rollbacks.
type Service struct {
	repo   *audit.Repository
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			s.logger.Warn("failed to log audit event",
				zap.String("action", event.Action),
				zap.Error(err))
		}
	}()
}

// Flush blocks until every event passed to LogAsync has been written.
func (s *Service) Flush() {
	s.wg.Wait()
}

// RecordLoad records a full collection load.
func (s *Service) RecordLoad(trigger string, count int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventLoad,
		Action:      "collection_load",
		Description: trigger,
		Status:      entities.AuditStatusSuccess,
	}
	if trigger == collection.TriggerRefresh {
		event.EventType = entities.AuditEventRefresh
		event.Action = "scheduled_refresh"
	}
	if err == nil {
		event.Description = fmt.Sprintf("%s: %d books", trigger, count)
	}
	s.LogAsync(withError(event, err))
}

// RecordMutation records the confirmation (or failure) of one optimistic mutation.
func (s *Service) RecordMutation(action, bookID string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMutation,
		Action:      action,
		Description: "book " + action,
		EntityID:    bookID,
		Status:      entities.AuditStatusSuccess,
	}
	s.LogAsync(withError(event, err))
}

// RecordRollback records a rollback-by-reload caused by a failed mutation.
// reloadErr is the error of the reload itself, nil if it succeeded.
func (s *Service) RecordRollback(action, bookID string, reloadErr error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventRollback,
		Action:      action + "_rollback",
		Description: "collection reloaded after failed " + action,
		EntityID:    bookID,
		Status:      entities.AuditStatusSuccess,
	}
	s.LogAsync(withError(event, reloadErr))
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// GetBookHistory returns every event recorded against one book id.
func (s *Service) GetBookHistory(bookID string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(bookID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func withError(event *entities.AuditEvent, err error) *entities.AuditEvent {
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxMessageLen)
	}
	return event
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
