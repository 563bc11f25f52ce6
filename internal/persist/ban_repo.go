package persist

import (
	"context"
	"time"
)

type BanRepo struct {
	db *DB
}

func NewBanRepo(db *DB) *BanRepo {
	return &BanRepo{db: db}
}

// RemainingMinutes returns how long the IP stays banned: 0 when not banned,
// -1 for a permanent ban, otherwise the minutes left on the longest active
// ban.
func (r *BanRepo) RemainingMinutes(ctx context.Context, ip string) (int, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT expires_at FROM bans WHERE ip = $1 AND (expires_at IS NULL OR expires_at > NOW())`,
		ip)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	longest := 0
	for rows.Next() {
		var expires *time.Time
		if err := rows.Scan(&expires); err != nil {
			return 0, err
		}
		if expires == nil {
			return -1, nil
		}
		if m := int(time.Until(*expires).Minutes()) + 1; m > longest {
			longest = m
		}
	}
	return longest, rows.Err()
}

// Insert records a ban. A nil expiry is permanent.
func (r *BanRepo) Insert(ctx context.Context, ip, hdid string, accountID int, expires *time.Time) error {
	var acct any
	if accountID > 0 {
		acct = accountID
	}
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO bans (ip, account_id, hdid, expires_at) VALUES ($1, $2, $3, $4)`,
		ip, acct, hdid, expires)
	return err
}
