package plant

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recorder accepts audit events from the workflows. Implementations
// must never propagate their own failures into the caller.
type Recorder interface {
	Record(actionType, description string, actorID *int64)
}

// AuditStore is an append-only store for audit events. It writes on the
// root DB handle, outside any workflow transaction, so an event survives
// even when the triggering workflow later aborts, and a failed write
// never aborts the workflow.
type AuditStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(db *gorm.DB, logger *slog.Logger) *AuditStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditStore{db: db, logger: logger}
}

// Record appends an audit event. Failures are logged and swallowed.
func (s *AuditStore) Record(actionType, description string, actorID *int64) {
	event := &AuditEvent{
		CorrelationID: uuid.New().String(),
		ActionType:    actionType,
		Description:   description,
		ActorID:       actorID,
	}
	if err := s.db.Create(event).Error; err != nil {
		s.logger.Warn("failed to record audit event",
			"actionType", actionType,
			"error", err)
	}
}

// List returns audit events newest first, optionally filtered by action
// type and capped at limit (0 means no cap).
func (s *AuditStore) List(actionType string, limit int) ([]AuditEvent, error) {
	q := s.db.Order("created_at DESC")
	if actionType != "" {
		q = q.Where("action_type = ?", actionType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var events []AuditEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

// DeleteOlderThan deletes audit events created before the cutoff and
// returns the number of deleted records.
func (s *AuditStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&AuditEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete old audit events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
