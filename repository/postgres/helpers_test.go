package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"}

	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert user: %w", unique)))

	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestDiffNew(t *testing.T) {
	assert.Equal(t, []string{"carol"}, diffNew([]string{"bob"}, []string{"bob", "carol"}))
	assert.Nil(t, diffNew([]string{"bob"}, []string{"bob"}))
	assert.Equal(t, []string{"bob"}, diffNew(nil, []string{"bob"}))
	assert.Nil(t, diffNew([]string{"bob"}, nil))
}
