package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// arenaState tracks one arena map's launch timer and occupants.
type arenaState struct {
	cfg       *data.Arena
	ticks     int // countdown to the next launch
	occupants int
}

func newArenaState(cfg *data.Arena) *arenaState {
	return &arenaState{cfg: cfg, ticks: cfg.Rate}
}

// tickArena launches queued players standing on spawn tiles into the
// arena on the configured cadence.
func (m *Map) tickArena() {
	a := m.arena
	if a == nil {
		return
	}
	a.ticks--
	if a.ticks > 0 {
		return
	}
	a.ticks = a.cfg.Rate

	if a.occupants >= a.cfg.Block && a.cfg.Block > 0 {
		m.sendAll(packet.NewWriter(packet.ActionDrop, packet.FamilyArena).Bytes())
		return
	}

	launched := 0
	for _, sp := range a.cfg.Spawns {
		c := m.CharacterAt(sp.FromX, sp.FromY)
		if c == nil || c.ArenaPlayer || c.Trading {
			continue
		}
		if m.CharacterAt(sp.ToX, sp.ToY) != nil {
			continue
		}
		c.X, c.Y = sp.ToX, sp.ToY
		c.ArenaPlayer = true
		c.ArenaKills = 0
		a.occupants++
		launched++
		m.sendInRange(c.X, c.Y, 0, m.appearPacket(c))
		c.Send(packet.NewWriter(packet.ActionPlayer, packet.FamilyWarp).
			AddChar(c.X).
			AddChar(c.Y).
			Bytes())
	}
	if launched > 0 {
		m.sendAll(packet.NewWriter(packet.ActionUse, packet.FamilyArena).
			AddChar(launched).
			AddChar(a.occupants).
			Bytes())
	}
	// A lone fighter with nobody left to meet abandons the round.
	if a.occupants == 1 {
		for _, c := range m.characters {
			if c.ArenaPlayer {
				m.arenaEliminate(c, nil)
				m.sendAll(packet.NewWriter(packet.ActionSpec, packet.FamilyArena).Bytes())
				break
			}
		}
	}
}

// arenaEliminate removes a fighter from the round; winner is credited when
// the elimination came from a kill.
func (m *Map) arenaEliminate(loser, winner *Character) {
	if !loser.ArenaPlayer {
		return
	}
	loser.ArenaPlayer = false
	if m.arena != nil && m.arena.occupants > 0 {
		m.arena.occupants--
	}
	if winner != nil {
		winner.ArenaKills++
		m.sendAll(packet.NewWriter(packet.ActionAccept, packet.FamilyArena).
			AddShort(winner.PlayerID).
			AddInt(winner.ArenaKills).
			AddChar(int(winner.Direction)).
			AddBreakString(winner.Name).
			AddBreakString(loser.Name).
			Bytes())
	}
}

// arenaAttack resolves player-versus-player hits on arena maps. Returns
// whether the attack was handled here.
func (m *Map) arenaAttack(attacker *Character, dir Direction) bool {
	if m.arena == nil || !attacker.ArenaPlayer {
		return false
	}
	dx, dy := dir.Offset()
	victim := m.CharacterAt(attacker.X+dx, attacker.Y+dy)
	if victim == nil || !victim.ArenaPlayer {
		return true // swing at air inside the arena
	}
	damage := m.rollDamage(attacker.Stats.MinDam, attacker.Stats.MaxDam,
		attacker.Stats.Accuracy, victim.Stats.Evade)
	damage -= victim.Stats.Armor / 2
	if damage < 1 {
		damage = 1
	}
	if m.damageCharacter(victim, damage) {
		m.arenaEliminate(victim, attacker)
	} else {
		victim.Send(recoverPacket(victim))
		m.sendInRange(victim.X, victim.Y, 0, hpGroupPacket(victim))
	}
	return true
}
