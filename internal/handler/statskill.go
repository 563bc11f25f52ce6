package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleStatSkillOpen lists a skill master's teachable spells.
func HandleStatSkillOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	npcIndex := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.OpenSkillMaster(p.ID, npcIndex)
	})
}

// HandleStatSkillAdd spends a stat point.
func HandleStatSkillAdd(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetChar() // action type, always stat training
	statID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.TrainStat(p.ID, statID)
	})
}

// HandleStatSkillTake learns a spell from the open skill master.
func HandleStatSkillTake(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetInt()
	spellID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.LearnSkill(p.ID, session, spellID)
	})
}

// HandleStatSkillJunk resets trained stats and learned spells.
func HandleStatSkillJunk(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetInt()
	onMap(p, func(m *world.Map) {
		m.ResetStats(p.ID, session)
	})
}

// HandleStatSkillRemove forgets a spell.
func HandleStatSkillRemove(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetInt()
	spellID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.ForgetSkill(p.ID, session, spellID)
	})
}
