package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julesapp/crm-api/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// LocalProvider keeps accounts in the SQL database and issues its own session tokens
type LocalProvider struct {
	db     *gorm.DB
	tokens *TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

func NewLocalProvider(db *gorm.DB, tokens *TokenIssuer, logger *zap.Logger) *LocalProvider {
	return &LocalProvider{
		db:     db,
		tokens: tokens,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	user, err := p.createUser(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return p.issue(user)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var user domain.User
	err := p.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := p.now()
	if err := p.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		p.logger.Warn("failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	return p.issue(&user)
}

// SignOut revokes the token of the current session until it would have expired anyway
func (p *LocalProvider) SignOut(ctx context.Context, user *UserContext) error {
	if user.SessionID == "" {
		return fmt.Errorf("%w: session has no id", ErrInvalidToken)
	}
	expiresAt := user.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = p.now().Add(p.tokens.ttl)
	}

	revoked := domain.RevokedSession{
		TokenID:   user.SessionID,
		UserID:    user.UserID,
		ExpiresAt: expiresAt,
	}
	if err := p.db.WithContext(ctx).Create(&revoked).Error; err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (p *LocalProvider) Verify(ctx context.Context, token string) (*UserContext, error) {
	user, err := p.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	var revoked int64
	err = p.db.WithContext(ctx).Model(&domain.RevokedSession{}).
		Where("token_id = ?", user.SessionID).
		Count(&revoked).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if revoked > 0 {
		return nil, ErrRevokedToken
	}

	return user, nil
}

func (p *LocalProvider) CreateUser(ctx context.Context, email, password string) (*UserRecord, error) {
	user, err := p.createUser(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return toUserRecord(user), nil
}

func (p *LocalProvider) ListUsers(ctx context.Context) ([]UserRecord, error) {
	var users []domain.User
	if err := p.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	records := make([]UserRecord, 0, len(users))
	for i := range users {
		records = append(records, *toUserRecord(&users[i]))
	}
	return records, nil
}

// PurgeExpiredRevocations drops revocations whose tokens have expired
func (p *LocalProvider) PurgeExpiredRevocations(ctx context.Context) (int64, error) {
	result := p.db.WithContext(ctx).Where("expires_at < ?", p.now()).Delete(&domain.RevokedSession{})
	return result.RowsAffected, result.Error
}

func (p *LocalProvider) createUser(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	var existing int64
	if err := p.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.SplitN(email, "@", 2)[0],
	}
	if err := p.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	p.logger.Info("user created", zap.String("user_id", user.ID), zap.String("email", email))
	return user, nil
}

func (p *LocalProvider) issue(user *domain.User) (*Session, error) {
	token, userCtx, err := p.tokens.Issue(user.ID, user.Email, p.now())
	if err != nil {
		return nil, err
	}
	userCtx.DisplayName = user.DisplayName
	return &Session{Token: token, ExpiresAt: userCtx.ExpiresAt, User: *userCtx}, nil
}

func toUserRecord(u *domain.User) *UserRecord {
	return &UserRecord{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
