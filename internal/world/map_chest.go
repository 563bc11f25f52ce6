package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// spawnChests builds the map's chests from tile specs and item-spawn rows.
// Every Chest tile is a chest; spawn rows attach refill slots to the chest
// on their coordinate.
func (m *Map) spawnChests() {
	byCoord := map[[2]int]*Chest{}
	for _, t := range m.File.Tiles {
		if t.Spec != data.TileChest {
			continue
		}
		ch := &Chest{Index: len(m.chests), X: t.X, Y: t.Y}
		m.chests = append(m.chests, ch)
		byCoord[[2]int{t.X, t.Y}] = ch
	}
	for _, row := range m.File.ItemSpawns {
		ch := byCoord[[2]int{row.X, row.Y}]
		if ch == nil {
			continue
		}
		if row.KeyReq > 0 {
			ch.KeyReq = row.KeyReq
		}
		ch.Spawns = append(ch.Spawns, ChestSpawn{
			Slot:      row.Slot,
			ItemID:    row.ItemID,
			Amount:    row.Amount,
			TimeTicks: row.Time * 60,
		})
		ch.refill(&ch.Spawns[len(ch.Spawns)-1], m.deps.World().MaxChest)
	}
}

// refill stocks one spawn slot, merging onto an existing same-slot stack.
func (ch *Chest) refill(sp *ChestSpawn, maxStack int) {
	for i := range ch.Items {
		if ch.Items[i].Slot == sp.Slot {
			ch.Items[i].ID = sp.ItemID
			ch.Items[i].Amount += sp.Amount
			if ch.Items[i].Amount > maxStack {
				ch.Items[i].Amount = maxStack
			}
			return
		}
	}
	ch.Items = append(ch.Items, ChestItem{Slot: sp.Slot, ID: sp.ItemID, Amount: sp.Amount})
}

// slotAmount returns the stored amount for an item id, summed over slots.
func (ch *Chest) itemAmount(id int) int {
	total := 0
	for _, it := range ch.Items {
		if it.ID == id {
			total += it.Amount
		}
	}
	return total
}

// freeSlot returns an unoccupied slot number, or -1 when full.
func (ch *Chest) freeSlot(maxSlots int) int {
	for s := 0; s < maxSlots; s++ {
		used := false
		for _, it := range ch.Items {
			if it.Slot == s {
				used = true
				break
			}
		}
		if !used {
			return s
		}
	}
	return -1
}

// chestAt returns the chest on a coordinate, or nil.
func (m *Map) chestAt(x, y int) *Chest {
	for _, ch := range m.chests {
		if ch.X == x && ch.Y == y {
			return ch
		}
	}
	return nil
}

// OpenChest starts viewing a chest. The viewer's ChestIndex sticks until
// another dialog replaces it, so content changes can be pushed.
func (m *Map) OpenChest(playerID, x, y int) {
	c := m.characters[playerID]
	if c == nil || c.Trading {
		return
	}
	ch := m.chestAt(x, y)
	if ch == nil || pathDistance(c.X, c.Y, x, y) > 1 {
		return
	}
	if ch.KeyReq > 0 && c.ItemAmount(ch.KeyReq) == 0 {
		return
	}
	c.ChestIndex = ch.Index

	w := packet.NewWriter(packet.ActionOpen, packet.FamilyChest).
		AddChar(x).
		AddChar(y)
	chestContentsFragment(w, ch)
	c.Send(w.Bytes())
}

// ChestAdd moves an inventory stack into the open chest.
func (m *Map) ChestAdd(playerID, itemID, amount int) {
	c := m.characters[playerID]
	if c == nil || c.Trading || amount <= 0 {
		return
	}
	ch := m.viewedChest(c)
	if ch == nil {
		return
	}
	rec := m.deps.Items.Get(itemID)
	if rec == nil || rec.Special == data.SpecialLore {
		return
	}
	if have := c.ItemAmount(itemID); amount > have {
		amount = have
	}
	if amount == 0 {
		return
	}
	w := m.deps.World()

	merged := false
	for i := range ch.Items {
		if ch.Items[i].ID != itemID {
			continue
		}
		if ch.Items[i].Amount+amount > w.MaxChest {
			// Overfull stack: reject without mutating; the client shows a
			// "chest full" dialog on the zero-coded Spec.
			c.Send(packet.NewWriter(packet.ActionSpec, packet.FamilyChest).
				AddChar(0).
				Bytes())
			return
		}
		ch.Items[i].Amount += amount
		merged = true
		break
	}
	if !merged {
		slot := ch.freeSlot(w.MaxChestSlots)
		if slot < 0 {
			c.Send(packet.NewWriter(packet.ActionSpec, packet.FamilyChest).
				AddChar(0).
				Bytes())
			return
		}
		ch.Items = append(ch.Items, ChestItem{Slot: slot, ID: itemID, Amount: amount})
	}
	c.DelItem(itemID, amount)
	c.MarkDirty()

	reply := packet.NewWriter(packet.ActionReply, packet.FamilyChest).
		AddShort(itemID).
		AddInt(c.ItemAmount(itemID))
	m.weightFragment(reply, c)
	chestContentsFragment(reply, ch)
	c.Send(reply.Bytes())

	m.broadcastChest(ch, playerID)
}

// ChestTake empties one item id out of the open chest into inventory.
func (m *Map) ChestTake(playerID, itemID int) {
	c := m.characters[playerID]
	if c == nil || c.Trading {
		return
	}
	ch := m.viewedChest(c)
	if ch == nil {
		return
	}
	stored := ch.itemAmount(itemID)
	if stored == 0 {
		return
	}
	w := m.deps.World()
	take := c.CanHold(m.deps.Items, itemID, w.MaxItem)
	if take > stored {
		take = stored
	}
	if take == 0 {
		return
	}
	left := take
	for i := 0; i < len(ch.Items) && left > 0; {
		it := &ch.Items[i]
		if it.ID != itemID {
			i++
			continue
		}
		if it.Amount > left {
			it.Amount -= left
			left = 0
			i++
			continue
		}
		left -= it.Amount
		// Emptied slot: restart its spawn timer.
		for s := range ch.Spawns {
			if ch.Spawns[s].Slot == it.Slot {
				ch.Spawns[s].LastTaken = m.tick
			}
		}
		ch.Items = append(ch.Items[:i], ch.Items[i+1:]...)
	}
	c.AddItem(itemID, take, w.MaxItem)
	c.MarkDirty()

	reply := packet.NewWriter(packet.ActionGet, packet.FamilyChest).
		AddShort(itemID).
		AddThree(take)
	m.weightFragment(reply, c)
	chestContentsFragment(reply, ch)
	c.Send(reply.Bytes())

	m.broadcastChest(ch, playerID)
}

// viewedChest resolves the character's open chest, re-testing adjacency.
func (m *Map) viewedChest(c *Character) *Chest {
	if c.ChestIndex < 0 || c.ChestIndex >= len(m.chests) {
		return nil
	}
	ch := m.chests[c.ChestIndex]
	if pathDistance(c.X, c.Y, ch.X, ch.Y) > 1 {
		return nil
	}
	return ch
}

// broadcastChest pushes new contents to every other adjacent viewer.
func (m *Map) broadcastChest(ch *Chest, exceptID int) {
	var body []byte
	for pid, other := range m.characters {
		if pid == exceptID || other.ChestIndex != ch.Index {
			continue
		}
		if pathDistance(other.X, other.Y, ch.X, ch.Y) > 1 {
			continue
		}
		if body == nil {
			w := packet.NewWriter(packet.ActionAgree, packet.FamilyChest)
			chestContentsFragment(w, ch)
			body = w.Bytes()
		}
		other.Send(body)
	}
}

func chestContentsFragment(w *packet.Writer, ch *Chest) *packet.Writer {
	for _, it := range ch.Items {
		w.AddShort(it.ID).AddThree(it.Amount)
	}
	return w
}

// tickChests refills emptied spawn slots whose timers ran out.
func (m *Map) tickChests() {
	maxStack := m.deps.World().MaxChest
	for _, ch := range m.chests {
		changed := false
		for i := range ch.Spawns {
			sp := &ch.Spawns[i]
			if sp.TimeTicks <= 0 {
				continue
			}
			occupied := false
			for _, it := range ch.Items {
				if it.Slot == sp.Slot {
					occupied = true
					break
				}
			}
			if occupied {
				continue
			}
			if m.tick-sp.LastTaken < sp.TimeTicks {
				continue
			}
			ch.refill(sp, maxStack)
			sp.LastTaken = m.tick
			changed = true
		}
		if changed {
			m.broadcastChest(ch, 0)
		}
	}
}
