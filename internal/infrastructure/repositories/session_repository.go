package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sovannvath/storefront-gateway/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	ttl := r.ttlFor(session)
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}
	session.Generation = 1

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.prefix+session.ID, data, ttl).Err()
}

// FindByID implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	key := r.prefix + sessionID
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	session, err := decodeSession(data)
	if err != nil {
		return nil, err
	}

	if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(time.Now()) {
		r.client.Del(ctx, key)
		return nil, domain.ErrSessionExpired
	}

	return session, nil
}

// Update implements domain.SessionRepository. The stored generation is
// incremented under WATCH so two concurrent writers cannot both win.
func (r *SessionRepositoryImpl) Update(ctx context.Context, session *domain.Session) error {
	key := r.prefix + session.ID

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		current, err := decodeSession(data)
		if err != nil {
			return err
		}

		ttl := r.ttlFor(session)
		if ttl <= 0 {
			return domain.ErrSessionExpired
		}

		next := *session
		next.Generation = current.Generation + 1
		payload, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, payload, ttl)
			return nil
		})
		if err == nil {
			session.Generation = next.Generation
		}
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return domain.ErrSessionStale
	}
	return err
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.prefix+sessionID).Err()
}

func (r *SessionRepositoryImpl) ttlFor(session *domain.Session) time.Duration {
	if session.ExpiresAt.IsZero() {
		return r.ttl
	}
	return time.Until(session.ExpiresAt)
}

func decodeSession(data []byte) (*domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}
