package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleQuestUse talks to a quest NPC: advances talk rules or offers new
// quests.
func HandleQuestUse(p *player.Player, r *packet.Reader, deps *Deps) {
	npcIndex := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.TalkToQuestNpc(p.ID, npcIndex)
	})
}

// HandleQuestAccept takes an offered quest.
func HandleQuestAccept(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetShort()
	_ = r.GetShort() // dialog id echo
	questID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.AcceptQuest(p.ID, session, questID)
	})
}

// HandleQuestList shows the quest log.
func HandleQuestList(p *player.Player, r *packet.Reader, deps *Deps) {
	onMap(p, func(m *world.Map) {
		m.QuestList(p.ID)
	})
}

// HandleBookRequest opens another player's quest book.
func HandleBookRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetShort() // target id; the log shown is always the requester's
	onMap(p, func(m *world.Map) {
		m.QuestList(p.ID)
	})
}
