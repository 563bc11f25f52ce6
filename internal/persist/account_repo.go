package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type AccountRow struct {
	ID           int
	Username     string
	PasswordHash string
	Fullname     string
	Location     string
	Email        string
	Computer     string
	HDID         string
	RegIP        string
	LastIP       string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

type AccountRepo struct {
	db *DB
}

func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Load returns the account row for a username, or nil when absent.
func (r *AccountRepo) Load(ctx context.Context, username string) (*AccountRow, error) {
	row := &AccountRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, username, password_hash, fullname, location, email,
		        computer, hdid, reg_ip, last_ip, created_at, last_login_at
		 FROM accounts WHERE username = $1`, username,
	).Scan(
		&row.ID, &row.Username, &row.PasswordHash, &row.Fullname, &row.Location,
		&row.Email, &row.Computer, &row.HDID, &row.RegIP, &row.LastIP,
		&row.CreatedAt, &row.LastLoginAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Exists reports whether the username is taken.
func (r *AccountRepo) Exists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM accounts WHERE username = $1`, username,
	).Scan(&n)
	return n > 0, err
}

// Create persists a new account. The password hash must already be an
// argon2id verifier.
func (r *AccountRepo) Create(ctx context.Context, row *AccountRow) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO accounts (username, password_hash, fullname, location, email,
		                       computer, hdid, reg_ip, last_ip)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 RETURNING id`,
		row.Username, row.PasswordHash, row.Fullname, row.Location, row.Email,
		row.Computer, row.HDID, row.RegIP,
	).Scan(&row.ID)
}

// UpdatePasswordHash replaces a verifier, used for the silent rehash of
// legacy sha256 rows after a successful login.
func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, accountID int, hash string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE accounts SET password_hash = $2 WHERE id = $1`,
		accountID, hash,
	)
	return err
}

// Touch records a successful login.
func (r *AccountRepo) Touch(ctx context.Context, accountID int, ip string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE accounts SET last_login_at = NOW(), last_ip = $2 WHERE id = $1`,
		accountID, ip,
	)
	return err
}
