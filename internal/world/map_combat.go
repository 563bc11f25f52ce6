package world

import (
	"math"
	"math/rand"

	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
	"go.uber.org/zap"
)

// expForLevel is the total experience needed to reach a level.
func expForLevel(level int) int64 {
	return int64(math.Round(math.Pow(float64(level), 3) * 133.1))
}

const maxLevel = 250

// spawnNpcs creates the map's NPC population from the spawn table. A row
// with amount n contributes n instances.
func (m *Map) spawnNpcs() {
	for rowIdx, row := range m.File.NpcSpawns {
		rec := m.deps.Npcs.Get(row.NpcID)
		if rec == nil {
			m.log.Warn("spawn references unknown npc", zap.Int("npc", row.NpcID))
			continue
		}
		count := row.Amount
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			m.nextNpcIndex++
			n := &NPC{
				Index:      m.nextNpcIndex,
				ID:         row.NpcID,
				Record:     rec,
				SpawnIndex: rowIdx,
			}
			m.placeNpcAt(n)
			m.npcs[n.Index] = n
		}
	}
}

// placeNpcAt puts an NPC on its spawn tile, or a nearby walkable tile for
// wander-type spawns when the exact tile is taken.
func (m *Map) placeNpcAt(n *NPC) {
	row := m.File.NpcSpawns[n.SpawnIndex]
	x, y := row.X, row.Y
	dir := Direction(rand.Intn(4))
	if row.SpawnType == 7 {
		// fixed spawn: exact coords, direction encoded in the time field
		dir = Direction(row.RespawnTime % 4)
	} else if !m.File.NpcWalkable(x, y) || m.NpcAt(x, y) != nil {
		for try := 0; try < 8; try++ {
			nx := x + rand.Intn(5) - 2
			ny := y + rand.Intn(5) - 2
			if m.File.NpcWalkable(nx, ny) && m.NpcAt(nx, ny) == nil {
				x, y = nx, ny
				break
			}
		}
	}
	n.Respawn(x, y, dir)
}

// Attack resolves a directional attack from a player.
func (m *Map) Attack(playerID int, dir Direction) {
	c := m.characters[playerID]
	if c == nil || c.SitState != Standing || c.Trading {
		return
	}
	c.Direction = dir
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, playerID, packet.NewWriter(packet.ActionPlayer, packet.FamilyAttack).
			AddShort(playerID).
			AddChar(int(dir)).
			Bytes())
	}
	if m.arenaAttack(c, dir) {
		return
	}
	dx, dy := dir.Offset()
	n := m.NpcAt(c.X+dx, c.Y+dy)
	if n == nil || !n.Record.Type.Fightable() {
		return
	}
	m.hitNpc(c, n, m.rollDamage(c.Stats.MinDam, c.Stats.MaxDam, c.Stats.Accuracy, n.Record.Evade))
}

// rollDamage rolls a hit amount; a roll losing entirely to evasion misses
// with zero.
func (m *Map) rollDamage(minDam, maxDam, accuracy, evade int) int {
	if maxDam < minDam {
		maxDam = minDam
	}
	hitChance := 80 + accuracy*2 - evade*2
	if hitChance < 20 {
		hitChance = 20
	}
	if hitChance > 100 {
		hitChance = 100
	}
	if rand.Intn(100) >= hitChance {
		return 0
	}
	return minDam + rand.Intn(maxDam-minDam+1)
}

// hitNpc applies damage from a player, handling death.
func (m *Map) hitNpc(c *Character, n *NPC, damage int) {
	if damage > n.HP {
		damage = n.HP
	}
	died := false
	if damage > 0 {
		died = n.Damage(c.PlayerID, damage)
	}
	if !died {
		percent := 0
		if n.Record.HP > 0 {
			percent = n.HP * 100 / n.Record.HP
		}
		m.sendInRange(n.X, n.Y, 0, packet.NewWriter(packet.ActionReply, packet.FamilyNPC).
			AddShort(c.PlayerID).
			AddChar(int(c.Direction)).
			AddShort(n.Index).
			AddThree(damage).
			AddShort(percent).
			Bytes())
		return
	}
	m.killNpc(c, n, damage)
}

// killNpc handles an NPC death: drop roll, xp share, death broadcast.
func (m *Map) killNpc(killer *Character, n *NPC, finalBlow int) {
	n.DeadSince = m.tick

	var drop *GroundItem
	if owner := n.TopOpponent(); owner != 0 {
		for _, d := range n.Record.Drops {
			if d.Rate <= 0 || rand.Float64() >= d.Rate {
				continue
			}
			amount := d.Min
			if d.Max > d.Min {
				amount += rand.Intn(d.Max - d.Min + 1)
			}
			if amount > 0 {
				drop = m.addGroundItem(d.ItemID, amount, n.X, n.Y, owner, m.deps.World().ProtectNpcDrop)
			}
			break
		}
	}

	death := packet.NewWriter(packet.ActionSpec, packet.FamilyNPC).
		AddShort(killer.PlayerID).
		AddChar(int(killer.Direction)).
		AddShort(n.Index).
		AddThree(finalBlow)
	if drop != nil {
		death.AddShort(drop.Index).
			AddShort(drop.ID).
			AddChar(drop.X).
			AddChar(drop.Y).
			AddInt(drop.Amount)
	}
	m.sendInRange(n.X, n.Y, 0, death.Bytes())

	// Experience splits by damage share across the opponent ledger.
	total := n.TotalDamage()
	if total > 0 {
		for pid, dam := range n.Opponents {
			c := m.characters[pid]
			if c == nil {
				continue
			}
			share := int64(n.Record.Exp) * int64(dam) / int64(total)
			if pid == killer.PlayerID && share == 0 {
				share = 1
			}
			if m.grantExp(c, share) {
				m.sendLevelUp(c)
			} else {
				c.Send(packet.NewWriter(packet.ActionTargetSelf, packet.FamilyRecover).
					AddInt(int(c.Exp)).
					AddShort(c.Karma).
					AddChar(0).
					Bytes())
			}
		}
	}
	if killer != nil {
		m.questNpcKilled(killer, n.ID)
		m.questCheckItems(killer)
	}
}

// grantExp adds experience and applies any level-ups. Returns whether the
// character leveled.
func (m *Map) grantExp(c *Character, amount int64) bool {
	if amount <= 0 {
		return false
	}
	c.Exp += amount
	leveled := false
	for c.Level < maxLevel && c.Exp >= expForLevel(c.Level+1) {
		c.Level++
		c.StatPoints += 3
		c.SkillPoints += 4
		leveled = true
	}
	if leveled {
		c.Recalculate(m.deps.Items, m.deps.Classes)
		c.HP = c.Stats.MaxHP
		c.TP = c.Stats.MaxTP
	}
	c.MarkDirty()
	return leveled
}

func (m *Map) sendLevelUp(c *Character) {
	c.Send(packet.NewWriter(packet.ActionTargetSelf, packet.FamilyRecover).
		AddInt(int(c.Exp)).
		AddShort(c.Karma).
		AddChar(c.Level).
		AddShort(c.StatPoints).
		AddShort(c.SkillPoints).
		AddShort(c.Stats.MaxHP).
		AddShort(c.Stats.MaxTP).
		AddShort(c.Stats.MaxSP).
		Bytes())
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, c.PlayerID, emotePacket(c.PlayerID, 1))
	}
}

// damageCharacter applies damage to a player from an NPC or hazard,
// handling death by warping home. Returns whether the character died.
func (m *Map) damageCharacter(c *Character, damage int) bool {
	if damage <= 0 {
		return false
	}
	c.HP -= damage
	if c.HP > 0 {
		c.MarkDirty()
		return false
	}
	c.HP = 0
	c.MarkDirty()
	w := m.deps.World()
	home := w.RescueMap
	x, y := w.RescueX, w.RescueY
	if inn := m.deps.Inns.ByName(c.Home); inn != nil {
		home, x, y = inn.SpawnMap, inn.SpawnX, inn.SpawnY
	}
	c.HP = c.Stats.MaxHP / 2
	if c.HP < 1 {
		c.HP = 1
	}
	if c.Client != nil {
		c.Client.RequestWarp(home, x, y, home == m.ID)
	}
	return true
}

// ── NPC AI ─────────────────────────────────────────────────────────

// tickNpcs runs respawns and, on the act cadence, wander/chase/attack.
func (m *Map) tickNpcs() {
	w := m.deps.World()
	act := w.NpcActRate > 0 && m.tick%w.NpcActRate == 0
	for _, n := range m.npcs {
		if !n.Alive {
			row := m.File.NpcSpawns[n.SpawnIndex]
			wait := row.RespawnTime
			if row.SpawnType == 7 || wait <= 0 {
				wait = w.NpcRespawnRate
			}
			if m.tick-n.DeadSince >= wait {
				m.placeNpcAt(n)
				m.sendInRange(n.X, n.Y, 0, packet.NewWriter(packet.ActionAgree, packet.FamilyAppear).
					AddChar(0).
					AddByte(packet.Break).
					AddBytes(npcMapInfo(n)).
					Bytes())
			}
			continue
		}
		if !act {
			continue
		}
		m.actNpc(n)
	}
}

// actNpc performs one AI step: aggressive NPCs chase and strike adjacent
// opponents; everything fightable wanders.
func (m *Map) actNpc(n *NPC) {
	if !n.Record.Type.Fightable() {
		return
	}
	var target *Character
	bestDist := m.deps.World().SeeDistance + 1
	hostile := n.Record.Type == data.NpcAggressive
	if hostile || len(n.Opponents) > 0 {
		for pid, c := range m.characters {
			if c.Hidden || c.HP <= 0 {
				continue
			}
			if !hostile {
				if _, fought := n.Opponents[pid]; !fought {
					continue
				}
			}
			d := pathDistance(n.X, n.Y, c.X, c.Y)
			if d < bestDist {
				bestDist, target = d, c
			}
		}
	}

	if target != nil && bestDist == 1 {
		n.Direction = directionFrom(n.X, n.Y, target.X, target.Y)
		damage := m.rollDamage(n.Record.MinDam, n.Record.MaxDam, n.Record.Accur, target.Stats.Evade)
		damage -= target.Stats.Armor / 2
		if damage < 0 {
			damage = 0
		}
		died := m.damageCharacter(target, damage)
		percent := 0
		if target.Stats.MaxHP > 0 {
			percent = target.HP * 100 / target.Stats.MaxHP
		}
		m.sendInRange(n.X, n.Y, 0, packet.NewWriter(packet.ActionPlayer, packet.FamilyNPC).
			AddShort(n.Index).
			AddChar(int(n.Direction)).
			AddShort(target.PlayerID).
			AddThree(damage).
			AddShort(percent).
			AddChar(boolChar(died)).
			Bytes())
		target.Send(recoverPacket(target))
		return
	}

	var dir Direction
	if target != nil {
		dir = directionToward(n.X, n.Y, target.X, target.Y)
	} else {
		if rand.Intn(4) != 0 {
			return // wander lazily
		}
		dir = Direction(rand.Intn(4))
	}
	m.walkNpc(n, dir)
}

// directionToward picks the axis with the larger gap.
func directionToward(x, y, tx, ty int) Direction {
	dx, dy := tx-x, ty-y
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return DirRight
		}
		return DirLeft
	}
	if dy > 0 {
		return DirDown
	}
	return DirUp
}

func (m *Map) walkNpc(n *NPC, dir Direction) {
	dx, dy := dir.Offset()
	tx, ty := n.X+dx, n.Y+dy
	if !m.File.NpcWalkable(tx, ty) || m.NpcAt(tx, ty) != nil || m.CharacterAt(tx, ty) != nil {
		n.Direction = dir
		return
	}
	n.X, n.Y = tx, ty
	n.Direction = dir
	m.sendInRange(tx, ty, 0, packet.NewWriter(packet.ActionPlayer, packet.FamilyNPC).
		AddChar(n.Index).
		AddChar(tx).
		AddChar(ty).
		AddChar(int(dir)).
		Bytes())
}

// ── Recovery ───────────────────────────────────────────────────────

// tickRecover heals every character a fraction of max hp/tp; sitting heals
// faster.
func (m *Map) tickRecover() {
	w := m.deps.World()
	for _, c := range m.characters {
		div := w.RecoverDivStand
		if c.SitState != Standing {
			div = w.RecoverDivSit
		}
		if div <= 0 {
			continue
		}
		hpGain := c.Stats.MaxHP/div + 1
		tpGain := c.Stats.MaxTP/div + 1
		changed := false
		if c.HP < c.Stats.MaxHP {
			c.HP += hpGain
			if c.HP > c.Stats.MaxHP {
				c.HP = c.Stats.MaxHP
			}
			changed = true
		}
		if c.TP < c.Stats.MaxTP {
			c.TP += tpGain
			if c.TP > c.Stats.MaxTP {
				c.TP = c.Stats.MaxTP
			}
			changed = true
		}
		if !changed {
			continue
		}
		c.Send(recoverPacket(c))
		if m.world != nil {
			m.world.NotifyPartyHP(c.PlayerID, c.HP, c.Stats.MaxHP)
		}
	}
}
