package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirebaseProvider authenticates against Firebase Authentication.
// Password sign-up and sign-in go through the Identity Toolkit API with the project's web
// API key; token verification, revocation and user listing use the Admin SDK.
type FirebaseProvider struct {
	admin   *fbauth.Client
	toolkit *identitytoolkit.Service
	logger  *zap.Logger
}

func NewFirebaseProvider(ctx context.Context, app *firebase.App, webAPIKey string, logger *zap.Logger) (*FirebaseProvider, error) {
	admin, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase auth client: %w", err)
	}

	if webAPIKey == "" {
		return nil, fmt.Errorf("firebase web API key is required for password sign-in")
	}
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Identity Toolkit service: %w", err)
	}

	return &FirebaseProvider{admin: admin, toolkit: toolkit, logger: logger}, nil
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	resp, err := p.toolkit.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    normalizeEmail(email),
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapToolkitError(err)
	}

	return firebaseSession(resp.IdToken, resp.LocalId, resp.Email, resp.DisplayName, resp.ExpiresIn), nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             normalizeEmail(email),
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapToolkitError(err)
	}

	return firebaseSession(resp.IdToken, resp.LocalId, resp.Email, resp.DisplayName, resp.ExpiresIn), nil
}

// SignOut revokes every refresh token of the user; ID tokens issued before are rejected by Verify
func (p *FirebaseProvider) SignOut(ctx context.Context, user *UserContext) error {
	if err := p.admin.RevokeRefreshTokens(ctx, user.UserID); err != nil {
		return fmt.Errorf("failed to revoke Firebase tokens: %w", err)
	}
	// revocation covers all of the user's sessions
	user.SessionID = ""
	return nil
}

func (p *FirebaseProvider) Verify(ctx context.Context, token string) (*UserContext, error) {
	tok, err := p.admin.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		switch {
		case fbauth.IsIDTokenRevoked(err):
			return nil, ErrRevokedToken
		case fbauth.IsIDTokenExpired(err):
			return nil, ErrExpiredToken
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	user := &UserContext{
		UserID:    tok.UID,
		ExpiresAt: time.Unix(tok.Expires, 0).UTC(),
	}
	if email, ok := tok.Claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		user.DisplayName = name
	}
	return user, nil
}

func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password string) (*UserRecord, error) {
	params := (&fbauth.UserToCreate{}).Email(normalizeEmail(email)).Password(password)
	u, err := p.admin.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create Firebase user: %w", err)
	}
	return firebaseRecord(u), nil
}

func (p *FirebaseProvider) ListUsers(ctx context.Context) ([]UserRecord, error) {
	var records []UserRecord
	it := p.admin.Users(ctx, "")
	for {
		u, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list Firebase users: %w", err)
		}
		records = append(records, *firebaseRecord(u.UserRecord))
	}
	return records, nil
}

func firebaseSession(idToken, uid, email, displayName string, expiresIn int64) *Session {
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	expiresAt := time.Now().UTC().Add(time.Duration(expiresIn) * time.Second)
	return &Session{
		Token:     idToken,
		ExpiresAt: expiresAt,
		User: UserContext{
			UserID:      uid,
			Email:       email,
			DisplayName: displayName,
			ExpiresAt:   expiresAt,
		},
	}
}

func firebaseRecord(u *fbauth.UserRecord) *UserRecord {
	record := &UserRecord{ID: u.UID, Email: u.Email, DisplayName: u.DisplayName}
	if u.UserMetadata != nil {
		record.CreatedAt = time.UnixMilli(u.UserMetadata.CreationTimestamp).UTC()
		if u.UserMetadata.LastLogInTimestamp > 0 {
			last := time.UnixMilli(u.UserMetadata.LastLogInTimestamp).UTC()
			record.LastLoginAt = &last
		}
	}
	return record
}

// mapToolkitError turns Identity Toolkit error codes into the package's sentinel errors
func mapToolkitError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("identity toolkit request failed: %w", err)
	}

	msg := apiErr.Message
	switch {
	case strings.HasPrefix(msg, "EMAIL_EXISTS"):
		return ErrEmailTaken
	case strings.HasPrefix(msg, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(msg, "INVALID_PASSWORD"),
		strings.HasPrefix(msg, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(msg, "USER_DISABLED"):
		return ErrInvalidCredentials
	case strings.HasPrefix(msg, "WEAK_PASSWORD"):
		return ErrWeakPassword
	default:
		return fmt.Errorf("identity toolkit request failed: %w", err)
	}
}
