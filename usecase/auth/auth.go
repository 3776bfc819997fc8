package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, secret string, tokenTTL time.Duration, logger *zap.Logger) *UseCase {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

func (uc *UseCase) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, "", domain.NewError(domain.ErrCodeInvalid, "name, email and password are required")
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := uc.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := uc.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := uc.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpdateProfile applies the same falsy-skip contract as task updates:
// empty incoming fields keep their stored values.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID, name, email, password string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if email = strings.TrimSpace(strings.ToLower(email)); email != "" {
		user.Email = email
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ValidateSession reports whether the session behind a token is still
// live, letting the auth middleware honor logout-driven revocation.
func (uc *UseCase) ValidateSession(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return false
	}
	return !session.IsExpired(time.Now())
}

func (uc *UseCase) issueToken(ctx context.Context, userID string) (string, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.tokenTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"sid":     session.ID,
		"exp":     session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(uc.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}
