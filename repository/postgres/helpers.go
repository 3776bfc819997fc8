package postgres

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskhive/backend/domain"
)

// uniqueViolation is the Postgres error code for a UNIQUE constraint hit.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// visibleWhere is the three-predicate visibility filter: owner, legacy
// assignee, or shared member. Kept as an explicit OR until the
// assignee field is migrated away.
const visibleWhere = `(owner_id = $1 OR assignee_id = $1 OR $1 = ANY(shared_with))`

func marshalAttachments(atts []domain.Attachment) []byte {
	if len(atts) == 0 {
		return []byte("[]")
	}
	b, err := json.Marshal(atts)
	if err != nil {
		return []byte("[]")
	}
	return b
}

func unmarshalAttachments(raw []byte) []domain.Attachment {
	if len(raw) == 0 {
		return nil
	}
	var atts []domain.Attachment
	if err := json.Unmarshal(raw, &atts); err != nil {
		return nil
	}
	return atts
}

func nullTime(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

// diffNew returns the ids present in after but not in before.
func diffNew(before, after []string) []string {
	seen := make(map[string]struct{}, len(before))
	for _, id := range before {
		seen[id] = struct{}{}
	}
	var added []string
	for _, id := range after {
		if _, ok := seen[id]; !ok {
			added = append(added, id)
		}
	}
	return added
}
