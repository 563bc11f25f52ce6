package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type BoardPost struct {
	ID          int
	BoardID     int
	CharacterID int
	Author      string
	Subject     string
	Body        string
	CreatedAt   time.Time
}

type BoardRepo struct {
	db *DB
}

func NewBoardRepo(db *DB) *BoardRepo {
	return &BoardRepo{db: db}
}

// Posts returns the newest posts of a board, newest first.
func (r *BoardRepo) Posts(ctx context.Context, boardID, limit int) ([]*BoardPost, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT b.id, b.board_id, b.character_id, c.name, b.subject, b.body, b.created_at
		 FROM boards b JOIN characters c ON c.id = b.character_id
		 WHERE b.board_id = $1
		 ORDER BY b.created_at DESC, b.id DESC
		 LIMIT $2`, boardID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*BoardPost
	for rows.Next() {
		p := &BoardPost{}
		if err := rows.Scan(&p.ID, &p.BoardID, &p.CharacterID, &p.Author,
			&p.Subject, &p.Body, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns one post, or nil when absent.
func (r *BoardRepo) Get(ctx context.Context, postID int) (*BoardPost, error) {
	p := &BoardPost{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT b.id, b.board_id, b.character_id, c.name, b.subject, b.body, b.created_at
		 FROM boards b JOIN characters c ON c.id = b.character_id
		 WHERE b.id = $1`, postID,
	).Scan(&p.ID, &p.BoardID, &p.CharacterID, &p.Author, &p.Subject, &p.Body, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create persists a new post.
func (r *BoardRepo) Create(ctx context.Context, boardID, characterID int, subject, body string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO boards (board_id, character_id, subject, body) VALUES ($1,$2,$3,$4)`,
		boardID, characterID, subject, body)
	return err
}

// Delete removes a post; admins may delete posts they do not own, so the
// ownership check belongs to the caller.
func (r *BoardRepo) Delete(ctx context.Context, postID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, postID)
	return err
}
