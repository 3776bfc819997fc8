package redis

import (
	"context"
	"encoding/json"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

const sessionPrefix = "session:"

// sessionRepository stores sessions in Redis keyed by session id. The
// key TTL tracks the session expiry, so revocation by logout and
// expiry by silence both leave no residue.
type sessionRepository struct {
	client     *redislib.Client
	defaultTTL time.Duration
}

func NewSessionRepository(client *redislib.Client, ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionRepository{
		client:     client,
		defaultTTL: ttl,
	}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.client.Get(ctx, sessionPrefix+id).Bytes()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = r.defaultTTL
		session.ExpiresAt = time.Now().Add(ttl)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionPrefix+session.ID, payload, ttl).Err()
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionPrefix+id).Err()
}
