package world

import (
	"context"
	"time"

	"github.com/eogo/server/internal/net/packet"
	"go.uber.org/zap"
)

const (
	boardPostLimit   = 20
	boardSubjectMax  = 32
	boardBodyMax     = 2048
	boardQueryBudget = 3 * time.Second
)

// OpenBoard lists a board's posts. The SQL roundtrip runs off the actor;
// the reply is posted back through the mailbox so state stays serialized.
func (m *Map) OpenBoard(playerID, x, y int) {
	c := m.characters[playerID]
	if c == nil || c.Trading {
		return
	}
	spec, ok := m.File.Spec(x, y)
	if !ok {
		return
	}
	boardNum := spec.Board()
	if boardNum < 0 || pathDistance(c.X, c.Y, x, y) > 1 {
		return
	}
	if m.deps.Boards == nil {
		return
	}
	boardID := m.ID*10 + boardNum
	c.BoardID = boardID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), boardQueryBudget)
		defer cancel()
		posts, err := m.deps.Boards.Posts(ctx, boardID, boardPostLimit)
		if err != nil {
			m.log.Warn("board listing failed", zap.Int("board", boardID), zap.Error(err))
			return
		}
		m.Do(func(mm *Map) {
			cc := mm.characters[playerID]
			if cc == nil || cc.BoardID != boardID {
				return
			}
			w := packet.NewWriter(packet.ActionOpen, packet.FamilyBoard).
				AddChar(boardNum).
				AddChar(len(posts))
			for _, p := range posts {
				w.AddShort(p.ID).
					AddByte(packet.Break).
					AddBreakString(p.Author).
					AddBreakString(p.Subject)
			}
			cc.Send(w.Bytes())
		})
	}()
}

// ReadBoardPost fetches one post's body.
func (m *Map) ReadBoardPost(playerID, postID int) {
	c := m.characters[playerID]
	if c == nil || c.BoardID == 0 || m.deps.Boards == nil {
		return
	}
	boardID := c.BoardID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), boardQueryBudget)
		defer cancel()
		post, err := m.deps.Boards.Get(ctx, postID)
		if err != nil {
			m.log.Warn("board read failed", zap.Int("post", postID), zap.Error(err))
			return
		}
		if post == nil || post.BoardID != boardID {
			return
		}
		m.Do(func(mm *Map) {
			cc := mm.characters[playerID]
			if cc == nil || cc.BoardID != boardID {
				return
			}
			cc.Send(packet.NewWriter(packet.ActionPlayer, packet.FamilyBoard).
				AddShort(post.ID).
				AddString(post.Body).
				Bytes())
		})
	}()
}

// CreateBoardPost writes a new post to the open board.
func (m *Map) CreateBoardPost(playerID int, subject, body string) {
	c := m.characters[playerID]
	if c == nil || c.BoardID == 0 || m.deps.Boards == nil {
		return
	}
	if subject == "" || body == "" {
		return
	}
	if len(subject) > boardSubjectMax {
		subject = subject[:boardSubjectMax]
	}
	if len(body) > boardBodyMax {
		body = body[:boardBodyMax]
	}
	boardID := c.BoardID
	charID := c.ID
	x, y := c.X, c.Y
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), boardQueryBudget)
		defer cancel()
		if err := m.deps.Boards.Create(ctx, boardID, charID, subject, body); err != nil {
			m.log.Warn("board post failed", zap.Int("board", boardID), zap.Error(err))
			return
		}
		m.Do(func(mm *Map) {
			// Refresh the listing for the author.
			mm.OpenBoard(playerID, x, y)
		})
	}()
}

// RemoveBoardPost deletes a post; admins only.
func (m *Map) RemoveBoardPost(playerID, postID int) {
	c := m.characters[playerID]
	if c == nil || c.BoardID == 0 || m.deps.Boards == nil {
		return
	}
	if c.AdminLevel < AdminGuardian {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), boardQueryBudget)
		defer cancel()
		if err := m.deps.Boards.Delete(ctx, postID); err != nil {
			m.log.Warn("board delete failed", zap.Int("post", postID), zap.Error(err))
		}
	}()
}
