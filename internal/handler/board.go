package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleBoardOpen lists an adjacent town board, newest posts first.
func HandleBoardOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	x := r.GetChar()
	y := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.OpenBoard(p.ID, x, y)
	})
}

// HandleBoardTake reads one post's body.
func HandleBoardTake(p *player.Player, r *packet.Reader, deps *Deps) {
	postID := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.ReadBoardPost(p.ID, postID)
	})
}

// HandleBoardCreate writes a post to the open board.
func HandleBoardCreate(p *player.Player, r *packet.Reader, deps *Deps) {
	subject := r.GetBreakString()
	body := r.GetEndString()
	onMap(p, func(m *world.Map) {
		m.CreateBoardPost(p.ID, subject, body)
	})
}

// HandleBoardRemove deletes a post; guardians and above only.
func HandleBoardRemove(p *player.Player, r *packet.Reader, deps *Deps) {
	postID := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.RemoveBoardPost(p.ID, postID)
	})
}
