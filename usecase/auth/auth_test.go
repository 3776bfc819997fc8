package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/middleware"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FilterExisting(_ context.Context, ids []string) ([]string, error) {
	var found []string
	for _, id := range ids {
		if _, ok := r.users[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func newTestUseCase() (*UseCase, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	return New(users, sessions, testSecret, time.Hour, nil), users, sessions
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues a verifiable token", func(t *testing.T) {
		uc, users, sessions := newTestUseCase()

		user, token, err := uc.Register(ctx, "Alice", "Alice@Example.COM", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)

		stored := users.users[user.ID]
		assert.NotEqual(t, "s3cret", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))

		claims, err := middleware.ParseToken(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		_, ok := sessions.sessions[claims.SessionID]
		assert.True(t, ok)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		uc, _, _ := newTestUseCase()
		_, _, err := uc.Register(ctx, "", "a@b.c", "pw")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		uc, _, _ := newTestUseCase()
		_, _, err := uc.Register(ctx, "Alice", "a@b.c", "pw")
		require.NoError(t, err)

		_, _, err = uc.Register(ctx, "Other Alice", "A@B.C", "pw2")
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCase()

	registered, _, err := uc.Register(ctx, "Alice", "a@b.c", "s3cret")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, token, err := uc.Login(ctx, "A@b.c", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)

		claims, err := middleware.ParseToken(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := uc.Login(ctx, "a@b.c", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email behaves like wrong password", func(t *testing.T) {
		_, _, err := uc.Login(ctx, "ghost@b.c", "s3cret")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestLogoutRevokesSession(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCase()

	_, token, err := uc.Register(ctx, "Alice", "a@b.c", "pw")
	require.NoError(t, err)
	claims, err := middleware.ParseToken(token, testSecret)
	require.NoError(t, err)

	assert.True(t, uc.ValidateSession(ctx, claims.SessionID))
	require.NoError(t, uc.Logout(ctx, claims.SessionID))
	assert.False(t, uc.ValidateSession(ctx, claims.SessionID))
}

func TestValidateSession(t *testing.T) {
	ctx := context.Background()
	uc, _, sessions := newTestUseCase()

	t.Run("empty id", func(t *testing.T) {
		assert.False(t, uc.ValidateSession(ctx, ""))
	})

	t.Run("expired session", func(t *testing.T) {
		sessions.sessions["old"] = &domain.Session{
			ID:        "old",
			UserID:    "alice",
			CreatedAt: time.Now().Add(-2 * time.Hour),
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		assert.False(t, uc.ValidateSession(ctx, "old"))
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newTestUseCase()

	registered, _, err := uc.Register(ctx, "Alice", "a@b.c", "pw")
	require.NoError(t, err)

	t.Run("empty fields keep stored values", func(t *testing.T) {
		updated, err := uc.UpdateProfile(ctx, registered.ID, "Alice B", "", "")
		require.NoError(t, err)
		assert.Equal(t, "Alice B", updated.Name)
		assert.Equal(t, "a@b.c", updated.Email)

		_, _, err = uc.Login(ctx, "a@b.c", "pw")
		assert.NoError(t, err)
	})

	t.Run("password change rehashes", func(t *testing.T) {
		before := users.users[registered.ID].PasswordHash
		_, err := uc.UpdateProfile(ctx, registered.ID, "", "", "newpw")
		require.NoError(t, err)
		assert.NotEqual(t, before, users.users[registered.ID].PasswordHash)

		_, _, err = uc.Login(ctx, "a@b.c", "newpw")
		assert.NoError(t, err)
	})
}
