package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Session events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserLogoutEvent       AuditEventType = "USER_LOGOUT"
	SessionRevokedEvent   AuditEventType = "SESSION_REVOKED"

	// Authorization events
	AccessGrantedEvent AuditEventType = "ACCESS_GRANTED"
	AccessDeniedEvent  AuditEventType = "ACCESS_DENIED"
)

// AuditEvent represents a business event that occurred in the gateway
type AuditEvent struct {
	ID        string         `json:"id"`
	EventType AuditEventType `json:"event_type"`
	UserID    uint           `json:"user_id"`
	Role      Role           `json:"role,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Resource  string         `json:"resource,omitempty"`
	Action    string         `json:"action,omitempty"`
	Outcome   string         `json:"outcome,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	ErrorMsg  string         `json:"error_msg,omitempty"`
	Success   bool           `json:"success"`
	Timestamp time.Time      `json:"timestamp"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
	Recent(ctx context.Context, limit int) ([]AuditEvent, error)
}

// ClientContext represents client information extracted from HTTP request
type ClientContext struct {
	IPAddress string
	UserAgent string
	SessionID string
}

// NewAccessEvent creates an authorization audit event for a guard decision
func NewAccessEvent(res *Resolution, resource, action, outcome string, granted bool, client ClientContext) *AuditEvent {
	event := &AuditEvent{
		EventType: AccessDeniedEvent,
		Resource:  resource,
		Action:    action,
		Outcome:   outcome,
		Success:   granted,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		SessionID: client.SessionID,
		Timestamp: time.Now(),
	}
	if granted {
		event.EventType = AccessGrantedEvent
	}
	if res.Authenticated() {
		event.UserID = res.User.ID
		event.Role = res.User.Role
	}
	return event
}
