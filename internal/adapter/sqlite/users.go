package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/allocq/internal/domain"
)

// Compile-time check: UserRepository implements domain.UserRepository.
var _ domain.UserRepository = (*UserRepository)(nil)

// UserRepository persists identities resolved by the auth front-door.
type UserRepository struct {
	db *sql.DB
}

// Upsert inserts the user or refreshes email/name for an existing id, so
// order rows always have a referent for their user_id foreign key.
func (r *UserRepository) Upsert(ctx context.Context, u domain.User) error {
	now := formatTime(time.Now().UTC())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   email = excluded.email,
		   name = excluded.name,
		   updated_at = excluded.updated_at`,
		u.ID, u.Email, u.Name, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}
