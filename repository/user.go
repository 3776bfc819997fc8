package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// FilterExisting returns the subset of ids that resolve to users.
	FilterExisting(ctx context.Context, ids []string) ([]string, error)
}
