package player

import (
	"go.uber.org/zap"
)

// Player implements world.Client. Send goes straight to the connection's
// outbound queue; everything that touches actor state is posted to the
// mailbox so map actors never block on a player.

func (p *Player) PlayerID() int { return p.ID }

func (p *Player) Send(body []byte) { p.Conn.Send(body) }

func (p *Player) RequestWarp(mapID, x, y int, local bool) {
	p.post(func(p *Player) {
		p.BeginWarp(mapID, x, y, local, 0)
	})
}

func (p *Player) CloseReason(reason string) {
	p.post(func(p *Player) {
		p.Log.Info("disconnected by server", zap.String("reason", reason))
		p.closeRequested = true
	})
}
