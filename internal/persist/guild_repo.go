package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type GuildRow struct {
	Tag         string
	Name        string
	Description string
	Bank        int
	Ranks       [9]string
	CreatedAt   time.Time
}

type GuildRepo struct {
	db *DB
}

func NewGuildRepo(db *DB) *GuildRepo {
	return &GuildRepo{db: db}
}

// Load returns the guild with the given tag, or nil.
func (r *GuildRepo) Load(ctx context.Context, tag string) (*GuildRow, error) {
	g := &GuildRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT tag, name, description, bank, created_at FROM guilds WHERE tag = UPPER($1)`,
		tag,
	).Scan(&g.Tag, &g.Name, &g.Description, &g.Bank, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT rank, title FROM guild_ranks WHERE guild_tag = $1 ORDER BY rank`, g.Tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rank int
		var title string
		if err := rows.Scan(&rank, &title); err != nil {
			return nil, err
		}
		if rank >= 1 && rank <= len(g.Ranks) {
			g.Ranks[rank-1] = title
		}
	}
	return g, rows.Err()
}

// TagOrNameTaken reports whether either identifier is in use.
func (r *GuildRepo) TagOrNameTaken(ctx context.Context, tag, name string) (bool, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM guilds WHERE tag = UPPER($1) OR LOWER(name) = LOWER($2)`,
		tag, name).Scan(&n)
	return n > 0, err
}

// Create persists a new guild with its default rank strings.
func (r *GuildRepo) Create(ctx context.Context, g *GuildRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO guilds (tag, name, description, bank) VALUES (UPPER($1), $2, $3, $4)
		 RETURNING tag, created_at`,
		g.Tag, g.Name, g.Description, g.Bank,
	).Scan(&g.Tag, &g.CreatedAt); err != nil {
		return err
	}
	for i, title := range g.Ranks {
		if title == "" {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO guild_ranks (guild_tag, rank, title) VALUES ($1, $2, $3)`,
			g.Tag, i+1, title); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpdateDescription rewrites the guild description.
func (r *GuildRepo) UpdateDescription(ctx context.Context, tag, description string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE guilds SET description = $2 WHERE tag = $1`, tag, description)
	return err
}

// AddBank deposits into the guild bank and returns the new balance.
func (r *GuildRepo) AddBank(ctx context.Context, tag string, amount int) (int, error) {
	var balance int
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE guilds SET bank = bank + $2 WHERE tag = $1 RETURNING bank`,
		tag, amount).Scan(&balance)
	return balance, err
}

// Delete disbands a guild; rank rows cascade. Member characters are cleared
// separately through CharacterRepo.SetGuild.
func (r *GuildRepo) Delete(ctx context.Context, tag string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM guilds WHERE tag = $1`, tag)
	return err
}

// MemberNames lists the names of every character wearing the tag.
func (r *GuildRepo) MemberNames(ctx context.Context, tag string) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT name FROM characters WHERE guild_tag = UPPER($1) ORDER BY guild_rank, name`, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
