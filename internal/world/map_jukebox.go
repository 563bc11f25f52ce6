package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// jukeboxState is the playing track and the cooldown before another coin
// goes in.
type jukeboxState struct {
	player string // name of whoever paid
	track  int
	ticks  int
}

// OpenJukebox shows the jukebox dialog when standing next to the machine.
func (m *Map) OpenJukebox(playerID, x, y int) {
	c := m.characters[playerID]
	if c == nil || !m.jukeboxAdjacent(c, x, y) {
		return
	}
	w := packet.NewWriter(packet.ActionOpen, packet.FamilyJukebox).
		AddChar(x).
		AddChar(y)
	if m.jukebox.ticks > 0 {
		w.AddBreakString(m.jukebox.player)
	}
	c.Send(w.Bytes())
}

// PlayJukebox buys a track. Rejected while another purchase still plays.
func (m *Map) PlayJukebox(playerID, x, y, trackID int) {
	c := m.characters[playerID]
	if c == nil || c.Trading || !m.jukeboxAdjacent(c, x, y) {
		return
	}
	w := m.deps.World()
	if m.jukebox.ticks > 0 {
		return
	}
	if trackID < 1 || trackID > w.MaxTrackID {
		return
	}
	if c.ItemAmount(GoldItemID) < w.JukeboxCost {
		return
	}
	c.DelItem(GoldItemID, w.JukeboxCost)
	c.MarkDirty()
	m.jukebox = jukeboxState{player: c.Name, track: trackID, ticks: w.JukeboxTicks}

	c.Send(packet.NewWriter(packet.ActionAgree, packet.FamilyJukebox).
		AddInt(c.ItemAmount(GoldItemID)).
		Bytes())
	m.sendAll(packet.NewWriter(packet.ActionUse, packet.FamilyJukebox).
		AddShort(trackID).
		Bytes())
}

// PlayInstrument broadcasts a bard note from an equipped instrument.
func (m *Map) PlayInstrument(playerID, note int) {
	c := m.characters[playerID]
	if c == nil || c.Hidden {
		return
	}
	instrument := 0
	if rec := m.deps.Items.Get(c.Paperdoll[SlotWeapon]); rec != nil {
		instrument = rec.DollGraphic
	}
	if instrument == 0 {
		return
	}
	m.sendInRange(c.X, c.Y, playerID, packet.NewWriter(packet.ActionPlayer, packet.FamilyMusic).
		AddShort(playerID).
		AddChar(int(c.Direction)).
		AddChar(instrument).
		AddChar(note).
		Bytes())
}

func (m *Map) tickJukebox() {
	if m.jukebox.ticks > 0 {
		m.jukebox.ticks--
	}
}

func (m *Map) jukeboxAdjacent(c *Character, x, y int) bool {
	if pathDistance(c.X, c.Y, x, y) > 1 {
		return false
	}
	spec, ok := m.File.Spec(x, y)
	return ok && spec == data.TileJukebox
}
