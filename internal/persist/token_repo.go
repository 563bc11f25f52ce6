package persist

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type TokenRepo struct {
	db *DB
}

func NewTokenRepo(db *DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// Issue creates a fresh access token for an account.
func (r *TokenRepo) Issue(ctx context.Context, accountID int, ttl time.Duration) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO access_tokens (token, account_id, expires_at) VALUES ($1, $2, $3)`,
		token, accountID, time.Now().Add(ttl))
	if err != nil {
		return "", err
	}
	return token, nil
}

// AccountFor resolves a live token to its account id, or 0 when the token
// is unknown or expired.
func (r *TokenRepo) AccountFor(ctx context.Context, token string) (int, error) {
	var accountID int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT account_id FROM access_tokens WHERE token = $1 AND expires_at > NOW()`,
		token).Scan(&accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return accountID, err
}

// PruneExpired deletes dead tokens; called from the world tick.
func (r *TokenRepo) PruneExpired(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM access_tokens WHERE expires_at <= NOW()`)
	return err
}
