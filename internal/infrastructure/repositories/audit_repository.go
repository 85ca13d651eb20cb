package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sovannvath/storefront-gateway/domain"
	"gorm.io/gorm"
)

// DBAuditEvent represents the database model for an audit trail entry
type DBAuditEvent struct {
	ID        string    `gorm:"primaryKey;size:36"`
	EventType string    `gorm:"index;size:64"`
	UserID    uint      `gorm:"index"`
	Role      string    `gorm:"size:32"`
	SessionID string    `gorm:"index;size:64"`
	Resource  string    `gorm:"size:255"`
	Action    string    `gorm:"size:16"`
	Outcome   string    `gorm:"size:32"`
	IPAddress string    `gorm:"size:64"`
	UserAgent string    `gorm:"size:512"`
	ErrorMsg  string    `gorm:"size:512"`
	Success   bool      `gorm:"index"`
	Timestamp time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAuditEvent) TableName() string {
	return "audit_events"
}

// AuditRepositoryImpl implements domain.AuditLogger using GORM
type AuditRepositoryImpl struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) domain.AuditLogger {
	return &AuditRepositoryImpl{db: db}
}

// LogEvent implements domain.AuditLogger
func (r *AuditRepositoryImpl) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return r.db.WithContext(ctx).Create(r.domainToDB(event)).Error
}

// Recent implements domain.AuditLogger, newest first
func (r *AuditRepositoryImpl) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []DBAuditEvent
	err := r.db.WithContext(ctx).Order("timestamp desc").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]domain.AuditEvent, 0, len(rows))
	for i := range rows {
		events = append(events, r.dbToDomain(&rows[i]))
	}
	return events, nil
}

func (r *AuditRepositoryImpl) domainToDB(e *domain.AuditEvent) *DBAuditEvent {
	return &DBAuditEvent{
		ID:        e.ID,
		EventType: string(e.EventType),
		UserID:    e.UserID,
		Role:      string(e.Role),
		SessionID: e.SessionID,
		Resource:  e.Resource,
		Action:    e.Action,
		Outcome:   e.Outcome,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		ErrorMsg:  e.ErrorMsg,
		Success:   e.Success,
		Timestamp: e.Timestamp,
	}
}

func (r *AuditRepositoryImpl) dbToDomain(e *DBAuditEvent) domain.AuditEvent {
	return domain.AuditEvent{
		ID:        e.ID,
		EventType: domain.AuditEventType(e.EventType),
		UserID:    e.UserID,
		Role:      domain.Role(e.Role),
		SessionID: e.SessionID,
		Resource:  e.Resource,
		Action:    e.Action,
		Outcome:   e.Outcome,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		ErrorMsg:  e.ErrorMsg,
		Success:   e.Success,
		Timestamp: e.Timestamp,
	}
}
