package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// maxUserAgentLength bounds the client description kept on a session
const maxUserAgentLength = 255

// authService issues JWTs backed by server-side sessions, so a token can be
// revoked before it expires. Each login opens one session that remembers
// the client it was issued to.
type authService struct {
	users    driven.UserStore
	sessions driven.SessionStore
	adapter  driven.AuthAdapter
	tokenTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// AuthServiceConfig holds dependencies for the auth service.
type AuthServiceConfig struct {
	Users    driven.UserStore
	Sessions driven.SessionStore
	Adapter  driven.AuthAdapter
	TokenTTL time.Duration // Lifetime of tokens and sessions (default: 24h)
	Logger   *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(cfg AuthServiceConfig) driving.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		users:    cfg.Users,
		sessions: cfg.Sessions,
		adapter:  cfg.Adapter,
		tokenTTL: tokenTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Authenticate checks the learner's credentials and opens a session for the client
func (s *authService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if !s.adapter.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user, req)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	s.logger.Info("user logged in", "user_id", user.ID, "session_id", session.ID, "ip", session.IPAddress)

	return &domain.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user.ToSummary(),
	}, nil
}

// openSession issues a token bound to a new session and persists the session
func (s *authService) openSession(ctx context.Context, user *domain.User, req domain.LoginRequest) (*domain.Session, error) {
	issuedAt := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(s.tokenTTL),
		UserAgent: truncateRunes(strings.TrimSpace(req.UserAgent), maxUserAgentLength),
		IPAddress: strings.TrimSpace(req.IPAddress),
	}

	token, err := s.adapter.GenerateToken(&domain.TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: session.ID,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: session.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	session.Token = token

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// ValidateToken resolves a bearer token to the learner it was issued to.
// The token must verify and its session must still exist for the same user.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.adapter.ParseToken(token)
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case err != nil:
		return nil, domain.ErrTokenInvalid
	case s.now().Unix() > claims.ExpiresAt:
		return nil, domain.ErrTokenExpired
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	switch {
	case session.IsExpired():
		return nil, domain.ErrTokenExpired
	case session.UserID != claims.UserID:
		return nil, domain.ErrTokenInvalid
	}

	return &domain.AuthContext{
		UserID:    claims.UserID,
		Email:     claims.Email,
		SessionID: claims.SessionID,
	}, nil
}

// Logout ends the session behind token. Unparseable tokens have nothing to end.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.adapter.ParseToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

// LogoutAll ends every session of the user
func (s *authService) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	s.logger.Info("all sessions revoked", "user_id", userID)
	return nil
}

// ListSessions returns the user's unexpired sessions without their tokens
func (s *authService) ListSessions(ctx context.Context, userID int64, currentSessionID string) ([]*domain.SessionSummary, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]*domain.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		if session.IsExpired() {
			continue
		}
		summaries = append(summaries, session.Summary(currentSessionID))
	}
	slices.SortFunc(summaries, func(a, b *domain.SessionSummary) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return summaries, nil
}

// RevokeSession ends one of the user's sessions. Sessions of other users are
// reported as not found.
func (s *authService) RevokeSession(ctx context.Context, userID int64, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session.UserID != userID {
		return domain.ErrNotFound
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("session revoked", "user_id", userID, "session_id", sessionID)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
