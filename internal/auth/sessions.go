package auth

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sessions wraps a Provider and announces every session change on the hub
type Sessions struct {
	provider Provider
	hub      *SessionHub
	logger   *zap.Logger
}

func NewSessions(provider Provider, hub *SessionHub, logger *zap.Logger) *Sessions {
	return &Sessions{provider: provider, hub: hub, logger: logger}
}

// Hub exposes the session-change stream
func (s *Sessions) Hub() *SessionHub {
	return s.hub
}

func (s *Sessions) SignUp(ctx context.Context, email, password string) (*Session, error) {
	session, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		s.logger.Warn("sign-up failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	s.announce(SessionSignedIn, &session.User)
	return session, nil
}

func (s *Sessions) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Warn("sign-in failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	s.logger.Info("user signed in", zap.String("user_id", session.User.UserID))
	s.announce(SessionSignedIn, &session.User)
	return session, nil
}

func (s *Sessions) SignOut(ctx context.Context, user *UserContext) error {
	if err := s.provider.SignOut(ctx, user); err != nil {
		s.logger.Error("sign-out failed", zap.String("user_id", user.UserID), zap.Error(err))
		return err
	}
	s.logger.Info("user signed out", zap.String("user_id", user.UserID))
	s.announce(SessionSignedOut, user)
	return nil
}

func (s *Sessions) Verify(ctx context.Context, token string) (*UserContext, error) {
	return s.provider.Verify(ctx, token)
}

func (s *Sessions) announce(kind SessionEventKind, user *UserContext) {
	s.hub.Publish(SessionEvent{
		Kind:      kind,
		UserID:    user.UserID,
		SessionID: user.SessionID,
		At:        time.Now().UTC(),
	})
}
