package world

import (
	"github.com/eogo/server/internal/data"
)

// NPC is one live instance spawned from a map's spawn table. Owned by the
// map actor.
type NPC struct {
	Index      int // map-unique instance index
	ID         int // record id in the NPC table
	Record     *data.Npc
	SpawnIndex int // row in the map file's spawn table

	X, Y      int
	Direction Direction

	HP        int
	Alive     bool
	DeadSince int // map tick the NPC died on
	ActTicks  int // ticks until the next AI action

	// Opponents accumulates damage per attacker for xp share and drop
	// ownership. Keyed by player id.
	Opponents map[int]int
}

// Damage applies a hit from a player and returns whether the NPC died.
func (n *NPC) Damage(playerID, amount int) bool {
	if !n.Alive {
		return false
	}
	if n.Opponents == nil {
		n.Opponents = make(map[int]int)
	}
	n.Opponents[playerID] += amount
	n.HP -= amount
	if n.HP <= 0 {
		n.HP = 0
		n.Alive = false
		return true
	}
	return false
}

// TopOpponent returns the player id that dealt the most damage; drops are
// owned by that player. Zero when untouched.
func (n *NPC) TopOpponent() int {
	best, bestDam := 0, 0
	for pid, dam := range n.Opponents {
		if dam > bestDam || (dam == bestDam && pid < best) || best == 0 {
			best, bestDam = pid, dam
		}
	}
	return best
}

// TotalDamage sums the opponent ledger.
func (n *NPC) TotalDamage() int {
	total := 0
	for _, dam := range n.Opponents {
		total += dam
	}
	return total
}

// Respawn resets the NPC onto its spawn tile.
func (n *NPC) Respawn(x, y int, direction Direction) {
	n.X, n.Y = x, y
	n.Direction = direction
	n.HP = n.Record.HP
	n.Alive = true
	n.Opponents = nil
}
