package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func newSession(id string, ttl time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        id,
		Token:     "upstream-" + id,
		UserID:    7,
		Role:      domain.RoleCustomer,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionRepositoryImpl_Create(t *testing.T) {
	tests := []struct {
		name          string
		session       *domain.Session
		expectedError error
		expectedTTL   time.Duration
	}{
		{
			name:        "successful session creation",
			session:     newSession("session_123", time.Hour),
			expectedTTL: time.Hour,
		},
		{
			name:        "ttl follows session expiry",
			session:     newSession("session_456", 30*time.Minute),
			expectedTTL: 30 * time.Minute,
		},
		{
			name:        "zero expiry falls back to repository ttl",
			session:     &domain.Session{ID: "session_789", Token: "t"},
			expectedTTL: 2 * time.Hour,
		},
		{
			name:          "already expired session is rejected",
			session:       newSession("session_old", -time.Minute),
			expectedError: domain.ErrSessionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := setupTestRedis(t)
			repo := NewSessionRepository(client, 2*time.Hour)

			err := repo.Create(context.Background(), tt.session)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), tt.session.Generation)

			ttl := client.TTL(context.Background(), "session:"+tt.session.ID).Val()
			assert.InDelta(t, tt.expectedTTL.Seconds(), ttl.Seconds(), 2)
		})
	}
}

func TestSessionRepositoryImpl_FindByID(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(t *testing.T, client *redis.Client)
		sessionID     string
		expectedError error
		wantErr       bool
	}{
		{
			name: "successful session retrieval",
			setup: func(t *testing.T, client *redis.Client) {
				repo := NewSessionRepository(client, time.Hour)
				require.NoError(t, repo.Create(context.Background(), newSession("session_active", time.Hour)))
			},
			sessionID: "session_active",
		},
		{
			name:          "session not found",
			setup:         func(t *testing.T, client *redis.Client) {},
			sessionID:     "nonexistent_session",
			expectedError: domain.ErrSessionNotFound,
		},
		{
			name: "expired payload is removed",
			setup: func(t *testing.T, client *redis.Client) {
				data, err := json.Marshal(newSession("session_expired", -time.Hour))
				require.NoError(t, err)
				require.NoError(t, client.Set(context.Background(), "session:session_expired", data, time.Hour).Err())
			},
			sessionID:     "session_expired",
			expectedError: domain.ErrSessionExpired,
		},
		{
			name: "corrupt payload",
			setup: func(t *testing.T, client *redis.Client) {
				require.NoError(t, client.Set(context.Background(), "session:broken", "{", time.Hour).Err())
			},
			sessionID: "broken",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := setupTestRedis(t)
			tt.setup(t, client)
			repo := NewSessionRepository(client, time.Hour)

			session, err := repo.FindByID(context.Background(), tt.sessionID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, session)
				return
			}
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sessionID, session.ID)
			assert.Equal(t, "upstream-"+tt.sessionID, session.Token)
			assert.Equal(t, domain.RoleCustomer, session.Role)
		})
	}

	t.Run("expired key is deleted", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		data, err := json.Marshal(newSession("gone", -time.Hour))
		require.NoError(t, err)
		require.NoError(t, client.Set(context.Background(), "session:gone", data, time.Hour).Err())

		_, err = NewSessionRepository(client, time.Hour).FindByID(context.Background(), "gone")
		require.ErrorIs(t, err, domain.ErrSessionExpired)
		assert.Equal(t, int64(0), client.Exists(context.Background(), "session:gone").Val())
	})
}

func TestSessionRepositoryImpl_Update(t *testing.T) {
	t.Run("bumps generation on every write", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		repo := NewSessionRepository(client, time.Hour)
		ctx := context.Background()

		session := newSession("s1", time.Hour)
		require.NoError(t, repo.Create(ctx, session))

		session.Token = "rotated"
		require.NoError(t, repo.Update(ctx, session))
		assert.Equal(t, int64(2), session.Generation)

		require.NoError(t, repo.Update(ctx, session))
		assert.Equal(t, int64(3), session.Generation)

		stored, err := repo.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), stored.Generation)
		assert.Equal(t, "rotated", stored.Token)
	})

	t.Run("generation comes from the stored copy", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		repo := NewSessionRepository(client, time.Hour)
		ctx := context.Background()

		session := newSession("s2", time.Hour)
		require.NoError(t, repo.Create(ctx, session))
		require.NoError(t, repo.Update(ctx, session))

		stale := newSession("s2", time.Hour)
		stale.Generation = 1
		require.NoError(t, repo.Update(ctx, stale))
		assert.Equal(t, int64(3), stale.Generation)
	})

	t.Run("missing session", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		repo := NewSessionRepository(client, time.Hour)

		err := repo.Update(context.Background(), newSession("missing", time.Hour))
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionRepositoryImpl_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("session_to_delete", time.Hour)))

	require.NoError(t, repo.Delete(ctx, "session_to_delete"))
	assert.Equal(t, int64(0), client.Exists(ctx, "session:session_to_delete").Val())

	// deleting again is a no-op
	require.NoError(t, repo.Delete(ctx, "session_to_delete"))

	_, err := repo.FindByID(ctx, "session_to_delete")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
