package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/MrEthical07/goGate/identity"
)

const identityColumns = `id, email, password_hash, COALESCE(first_name, ''), COALESCE(last_name, ''), created_at, updated_at`

// IdentityDirectory implements identity.Directory on the users table.
type IdentityDirectory struct {
	pool poolIface
}

// NewIdentityDirectory creates a directory over pool.
func NewIdentityDirectory(pool poolIface) *IdentityDirectory {
	return &IdentityDirectory{pool: pool}
}

func scanIdentity(row pgx.Row) (identity.Identity, error) {
	var ident identity.Identity
	err := row.Scan(
		&ident.ID,
		&ident.Email,
		&ident.PasswordHash,
		&ident.FirstName,
		&ident.LastName,
		&ident.CreatedAt,
		&ident.UpdatedAt,
	)
	return ident, err
}

// FindByEmail returns exact matches, oldest first.
func (d *IdentityDirectory) FindByEmail(ctx context.Context, email string) ([]identity.Identity, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT `+identityColumns+` FROM users WHERE email = $1 ORDER BY created_at, id`,
		email,
	)
	if err != nil {
		return nil, oops.With("operation", "find identities by email").Wrap(err)
	}
	defer rows.Close()

	var out []identity.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, oops.With("operation", "scan identity row").Wrap(err)
		}
		out = append(out, ident)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate identities").Wrap(err)
	}

	return out, nil
}

// FindByID returns identity.ErrNotFound on a miss.
func (d *IdentityDirectory) FindByID(ctx context.Context, id string) (*identity.Identity, error) {
	ident, err := scanIdentity(d.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrNotFound
		}
		return nil, oops.With("operation", "find identity by id").With("user_id", id).Wrap(err)
	}
	return &ident, nil
}

// Count returns the number of identities.
func (d *IdentityDirectory) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := d.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, oops.With("operation", "count identities").Wrap(err)
	}
	return n, nil
}

// IdentityExists implements session.IdentityChecker.
func (d *IdentityDirectory) IdentityExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, oops.With("operation", "check identity").With("user_id", userID).Wrap(err)
	}
	return exists, nil
}

// Create inserts ident, assigning an ID and timestamps when missing.
func (d *IdentityDirectory) Create(ctx context.Context, ident identity.Identity) (identity.Identity, error) {
	if ident.Email == "" || ident.PasswordHash == "" {
		return identity.Identity{}, oops.Code("INVALID_IDENTITY").Errorf("email and password hash are required")
	}
	if ident.ID == "" {
		ident.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ident.CreatedAt.IsZero() {
		ident.CreatedAt = now
	}
	if ident.UpdatedAt.IsZero() {
		ident.UpdatedAt = ident.CreatedAt
	}

	_, err := d.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)`,
		ident.ID, ident.Email, ident.PasswordHash, ident.FirstName, ident.LastName, ident.CreatedAt, ident.UpdatedAt,
	)
	if err != nil {
		code := "IDENTITY_CREATE_FAILED"
		if pgErrorCode(err) == pgUniqueViolation {
			code = "IDENTITY_EXISTS"
		}
		return identity.Identity{}, oops.Code(code).With("operation", "create identity").With("email", ident.Email).Wrap(err)
	}
	return ident, nil
}
