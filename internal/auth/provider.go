package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrRevokedToken       = errors.New("session has been signed out")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrWeakPassword       = errors.New("password is too weak")
)

// Session is the result of a successful sign-up or sign-in
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      UserContext
}

// UserRecord describes an account for administration
type UserRecord struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// Provider is the authentication collaborator
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, user *UserContext) error
	Verify(ctx context.Context, token string) (*UserContext, error)
}

// UserAdmin manages accounts outside of a user session
type UserAdmin interface {
	CreateUser(ctx context.Context, email, password string) (*UserRecord, error)
	ListUsers(ctx context.Context) ([]UserRecord, error)
}
