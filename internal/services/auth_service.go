package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sovannvath/storefront-gateway/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultResolveTimeout bounds one GET /user during session resolution
const DefaultResolveTimeout = 10 * time.Second

// resolveRounds is how often Resolve starts over when a concurrent write
// replaced the session while /user was in flight
const resolveRounds = 2

// AuthServiceImpl implements domain.AuthService on top of the upstream API.
// Sessions hold the upstream bearer token; the browser only ever sees the
// gateway session token.
type AuthServiceImpl struct {
	api            domain.StorefrontAPI
	sessionRepo    domain.SessionRepository
	cartCache      domain.CartCache
	tokenSvc       domain.TokenService
	auditLogger    domain.AuditLogger
	logger         *zap.Logger
	resolveTimeout time.Duration
	inflight       singleflight.Group
}

// NewAuthService creates a new auth service
func NewAuthService(
	api domain.StorefrontAPI,
	sessionRepo domain.SessionRepository,
	cartCache domain.CartCache,
	tokenSvc domain.TokenService,
	auditLogger domain.AuditLogger,
	logger *zap.Logger,
	resolveTimeout time.Duration,
) domain.AuthService {
	if resolveTimeout <= 0 {
		resolveTimeout = DefaultResolveTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthServiceImpl{
		api:            api,
		sessionRepo:    sessionRepo,
		cartCache:      cartCache,
		tokenSvc:       tokenSvc,
		auditLogger:    auditLogger,
		logger:         logger.Named("auth"),
		resolveTimeout: resolveTimeout,
	}
}

// Resolve implements domain.SessionResolver. The returned Resolution is
// never nil. err is set only together with StateUnavailable and says why
// the user could not be resolved.
func (s *AuthServiceImpl) Resolve(ctx context.Context, sessionID string) (*domain.Resolution, error) {
	anonymous := &domain.Resolution{State: domain.StateAnonymous}
	if sessionID == "" {
		return anonymous, nil
	}

	for round := 0; round < resolveRounds; round++ {
		session, err := s.sessionRepo.FindByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
				return anonymous, nil
			}
			return &domain.Resolution{State: domain.StateUnavailable}, fmt.Errorf("load session: %w", err)
		}
		if session.Token == "" {
			return anonymous, nil
		}

		res, err := s.currentUser(ctx, session)

		// A logout, login or refresh that landed while /user was in flight
		// wins over this response
		latest, findErr := s.sessionRepo.FindByID(ctx, sessionID)
		if findErr != nil {
			if errors.Is(findErr, domain.ErrSessionNotFound) || errors.Is(findErr, domain.ErrSessionExpired) {
				s.logger.Debug("session removed while resolving", zap.String("session_id", sessionID))
				return anonymous, nil
			}
			return &domain.Resolution{State: domain.StateUnavailable}, fmt.Errorf("reload session: %w", findErr)
		}
		if latest.Generation != session.Generation {
			s.logger.Debug("discarding stale resolution",
				zap.String("session_id", sessionID),
				zap.Int64("generation", session.Generation),
				zap.Int64("latest_generation", latest.Generation),
			)
			continue
		}

		switch {
		case err != nil:
			s.logger.Warn("user resolution failed", zap.String("session_id", sessionID), zap.Error(err))
			return &domain.Resolution{State: domain.StateUnavailable, Session: latest}, err
		case res.Status == http.StatusUnauthorized:
			s.revoke(ctx, latest, "upstream rejected token")
			return anonymous, nil
		case !res.OK() || res.Data == nil:
			failure := res.Err()
			if failure == nil {
				failure = fmt.Errorf("current user: %w", domain.ErrMalformedResponse)
			}
			s.logger.Warn("user resolution failed", zap.String("session_id", sessionID), zap.Int("status", res.Status))
			return &domain.Resolution{State: domain.StateUnavailable, Session: latest}, failure
		}

		return &domain.Resolution{State: domain.StateAuthenticated, Session: latest, User: res.Data}, nil
	}

	s.logger.Info("session kept changing while resolving", zap.String("session_id", sessionID), zap.Error(domain.ErrSessionStale))
	return anonymous, nil
}

// currentUser shares one GET /user per session generation between
// concurrent callers. The shared call is detached from any single caller's
// cancellation and bounded by resolveTimeout instead.
func (s *AuthServiceImpl) currentUser(ctx context.Context, session *domain.Session) (domain.APIResult[*domain.User], error) {
	key := session.ID + "@" + strconv.FormatInt(session.Generation, 10)

	ch := s.inflight.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.resolveTimeout)
		defer cancel()
		return s.api.CurrentUser(callCtx, session.Token)
	})

	select {
	case <-ctx.Done():
		return domain.APIResult[*domain.User]{}, ctx.Err()
	case r := <-ch:
		res, _ := r.Val.(domain.APIResult[*domain.User])
		return res, r.Err
	}
}

// revoke drops a session the upstream no longer accepts
func (s *AuthServiceImpl) revoke(ctx context.Context, session *domain.Session, reason string) {
	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		s.logger.Error("failed to delete revoked session", zap.String("session_id", session.ID), zap.Error(err))
	}
	if err := s.cartCache.Delete(ctx, session.ID); err != nil {
		s.logger.Warn("failed to drop cart summary", zap.String("session_id", session.ID), zap.Error(err))
	}
	s.logger.Info("session revoked", zap.String("session_id", session.ID), zap.String("reason", reason))
	s.audit(ctx, &domain.AuditEvent{
		EventType: domain.SessionRevokedEvent,
		UserID:    session.UserID,
		Role:      session.Role,
		SessionID: session.ID,
		ErrorMsg:  reason,
		Success:   true,
	})
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	res, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := res.Err(); err != nil {
		s.audit(ctx, &domain.AuditEvent{
			EventType: domain.UserLoginFailureEvent,
			Outcome:   strconv.Itoa(res.Status),
			ErrorMsg:  res.Message,
		})
		return nil, err
	}
	if res.Data.Token == "" {
		return nil, fmt.Errorf("login: missing token: %w", domain.ErrMalformedResponse)
	}

	return s.startSession(ctx, res.Data)
}

// Register implements domain.AuthService. When the backend answers without
// a token the account exists but must sign in, so no session is started.
func (s *AuthServiceImpl) Register(ctx context.Context, reg domain.Registration) (*domain.LoginResult, error) {
	res, err := s.api.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	if res.Data.Token == "" {
		return &domain.LoginResult{User: res.Data.User, Redirect: domain.LoginPath}, nil
	}

	return s.startSession(ctx, res.Data)
}

func (s *AuthServiceImpl) startSession(ctx context.Context, payload domain.AuthPayload) (*domain.LoginResult, error) {
	user := payload.User
	if user == nil {
		res, err := s.api.CurrentUser(ctx, payload.Token)
		if err != nil {
			return nil, fmt.Errorf("resolve user: %w", err)
		}
		if err := res.Err(); err != nil {
			return nil, fmt.Errorf("resolve user: %w", err)
		}
		if res.Data == nil {
			return nil, fmt.Errorf("resolve user: %w", domain.ErrMalformedResponse)
		}
		user = res.Data
	}
	if !user.Role.Valid() {
		user.Role = domain.RoleCustomer
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Token:     payload.Token,
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenSvc.TTL()),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokenSvc.GenerateSessionToken(session.ID, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.logger.Info("user signed in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	s.audit(ctx, &domain.AuditEvent{
		EventType: domain.UserLoginEvent,
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: session.ID,
		Success:   true,
	})

	return &domain.LoginResult{
		User:         user,
		SessionID:    session.ID,
		SessionToken: token,
		Redirect:     domain.DashboardPath(user.Role),
		ExpiresIn:    int64(s.tokenSvc.TTL().Seconds()),
	}, nil
}

// Logout implements domain.AuthService. The upstream logout is best effort;
// the local session is always removed.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err == nil && session.Token != "" {
		if res, err := s.api.Logout(ctx, session.Token); err != nil || !res.OK() {
			s.logger.Warn("upstream logout failed", zap.String("session_id", sessionID), zap.Int("status", res.Status), zap.Error(err))
		}
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := s.cartCache.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to drop cart summary", zap.String("session_id", sessionID), zap.Error(err))
	}

	event := &domain.AuditEvent{EventType: domain.UserLogoutEvent, SessionID: sessionID, Success: true}
	if session != nil {
		event.UserID = session.UserID
		event.Role = session.Role
	}
	s.audit(ctx, event)
	return nil
}

// Revoke implements domain.AuthService. It drops a session whose upstream
// token was rejected outside of Resolve; an unknown session is not an error.
func (s *AuthServiceImpl) Revoke(ctx context.Context, sessionID, reason string) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		return nil
	case err != nil:
		return fmt.Errorf("failed to load session: %w", err)
	}
	s.revoke(ctx, session, reason)
	return nil
}

// Refresh implements domain.AuthService
func (s *AuthServiceImpl) Refresh(ctx context.Context, sessionID string) (*domain.LoginResult, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.ExpiresAt = time.Now().Add(s.tokenSvc.TTL())
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to extend session: %w", err)
	}

	token, err := s.tokenSvc.GenerateSessionToken(session.ID, session.UserID, session.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &domain.LoginResult{
		User:         &domain.User{ID: session.UserID, Role: session.Role},
		SessionID:    session.ID,
		SessionToken: token,
		Redirect:     domain.DashboardPath(session.Role),
		ExpiresIn:    int64(s.tokenSvc.TTL().Seconds()),
	}, nil
}

func (s *AuthServiceImpl) audit(ctx context.Context, event *domain.AuditEvent) {
	if s.auditLogger == nil {
		return
	}
	if err := s.auditLogger.LogEvent(ctx, event); err != nil {
		s.logger.Warn("failed to write audit event", zap.String("event", string(event.EventType)), zap.Error(err))
	}
}
