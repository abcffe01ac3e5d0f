package platform

import (
	"context"
	"fmt"
	"log/slog"
)

// Session owns the credential pair for the account used by all scheduled
// calls. The token pair is mutated only by Authenticate and Refresh; the
// scheduler's one-cycle-at-a-time rule makes those mutations strictly
// sequential, so no lock is held around them.
type Session struct {
	client   *Client
	email    string
	password string
	logger   *slog.Logger

	accessToken  string
	refreshToken string
}

// NewSession binds a session to the client and primary credentials.
func NewSession(client *Client, email, password string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client:   client,
		email:    email,
		password: password,
		logger:   logger,
	}
}

// Authenticate performs the primary login and stores the issued token pair.
func (s *Session) Authenticate(ctx context.Context) error {
	s.logger.InfoContext(ctx, "attempting to authenticate", "email", s.email)

	pair, err := s.client.Login(ctx, s.email, s.password)
	if err != nil {
		s.logger.ErrorContext(ctx, "authentication failed", "error", err)
		return err
	}

	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.logger.InfoContext(ctx, "authentication successful")
	return nil
}

// Refresh exchanges the stored refresh token for a new access token.
func (s *Session) Refresh(ctx context.Context) error {
	if s.refreshToken == "" {
		return fmt.Errorf("%w: no refresh token available", ErrAuthentication)
	}

	s.logger.InfoContext(ctx, "refreshing authentication token")
	token, err := s.client.RefreshToken(ctx, s.refreshToken)
	if err != nil {
		s.logger.ErrorContext(ctx, "token refresh failed", "error", err)
		return err
	}

	s.accessToken = token
	s.logger.InfoContext(ctx, "token refresh successful")
	return nil
}

// Authenticated reports whether a login has produced an access token.
func (s *Session) Authenticated() bool {
	return s.accessToken != ""
}

// Headers returns the authorization headers attached to every platform call.
func (s *Session) Headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + s.accessToken,
		"Content-Type":  "application/json",
	}
}

// Close releases transport resources held by the underlying client.
func (s *Session) Close() error {
	if s.client != nil {
		s.client.CloseIdleConnections()
	}
	s.logger.Info("session closed")
	return nil
}
