package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleCitizenOpen starts an innkeeper dialog.
func HandleCitizenOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	npcIndex := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.OpenInn(p.ID, npcIndex)
	})
}

// HandleCitizenReply answers the three citizenship questions.
func HandleCitizenReply(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetShort()
	answers := []string{
		r.GetBreakString(),
		r.GetBreakString(),
		r.GetBreakString(),
	}
	onMap(p, func(m *world.Map) {
		m.AnswerInn(p.ID, session, answers)
	})
}

// HandleCitizenRemove gives up citizenship at the home inn.
func HandleCitizenRemove(p *player.Player, r *packet.Reader, deps *Deps) {
	onMap(p, func(m *world.Map) {
		m.LeaveInn(p.ID)
	})
}

// HandleCitizenRequest quotes the cost of sleeping at the inn.
func HandleCitizenRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.QuoteSleep(p.ID, session)
	})
}

// HandleCitizenAccept pays the quote and sleeps.
func HandleCitizenAccept(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.Sleep(p.ID, session)
	})
}
