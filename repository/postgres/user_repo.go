package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
	SELECT id, name, email, password_hash, created_at, updated_at
	FROM users
	WHERE id = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT id, name, email, password_hash, created_at, updated_at
	FROM users
	WHERE email = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO users (id, name, email, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		// The usecase pre-checks the email, but a concurrent signup can
		// still land on the UNIQUE index first.
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE users
	SET name = $2,
		email = $3,
		password_hash = $4,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
	).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}

	return nil
}

func (r *userRepository) FilterExisting(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `SELECT id FROM users WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
