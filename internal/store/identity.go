package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GuestUserID is the user id used before anyone has registered.
const GuestUserID = "guest"

// Identity is the locally remembered user.
type Identity struct {
	UserID   string
	Username string
}

// Guest reports whether no registered user is stored.
func (i Identity) Guest() bool {
	return i.UserID == GuestUserID
}

// IdentityRepo persists the single signed-in identity.
type IdentityRepo interface {
	// Load returns the stored identity, or the guest identity if none is stored.
	Load(ctx context.Context) (Identity, error)

	// Save replaces the stored identity.
	Save(ctx context.Context, id Identity) error

	// Clear forgets the stored identity.
	Clear(ctx context.Context) error
}

type identityRepo struct {
	db *sql.DB
}

func (r *identityRepo) Load(ctx context.Context) (Identity, error) {
	var id Identity
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, username FROM identity WHERE id = 1`,
	).Scan(&id.UserID, &id.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{UserID: GuestUserID}, nil
	}
	if err != nil {
		return Identity{}, fmt.Errorf("load identity: %w", err)
	}
	if id.UserID == "" {
		id.UserID = GuestUserID
	}
	return id, nil
}

func (r *identityRepo) Save(ctx context.Context, id Identity) error {
	if id.UserID == "" {
		return errors.New("save identity: empty user id")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO identity (id, user_id, username, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id,
			username = excluded.username, updated_at = excluded.updated_at`,
		id.UserID, id.Username, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (r *identityRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM identity`); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
