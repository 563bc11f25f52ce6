package world

import (
	"github.com/eogo/server/internal/net/packet"
)

// EnterWorld installs a freshly selected character and sends the full
// world-entry reply: news, weight, inventory, spells and everything visible
// from the spawn tile.
func (m *Map) EnterWorld(c *Character, news []string) {
	m.Enter(c, 0)

	w := packet.NewWriter(packet.ActionReply, packet.FamilyWelcome)
	w.AddShort(welcomeEnterGame)
	w.AddByte(packet.Break)

	// Nine news lines; the first is the message of the day.
	for i := 0; i < 9; i++ {
		if i < len(news) {
			w.AddBreakString(news[i])
		} else {
			w.AddBreakString("")
		}
	}

	m.weightFragment(w, c)
	for _, it := range c.Items {
		w.AddShort(it.ID)
		w.AddInt(it.Amount)
	}
	w.AddByte(packet.Break)
	for _, s := range c.Spells {
		w.AddShort(s.SpellID)
		w.AddShort(s.Level)
	}
	w.AddByte(packet.Break)

	m.appendSurroundings(w, c)
	c.Send(w.Bytes())
}

// EnterWarp installs a character arriving via warp and sends the warp
// completion reply with the destination's visible state.
func (m *Map) EnterWarp(c *Character, warpAnim int) {
	m.Enter(c, warpAnim)

	w := packet.NewWriter(packet.ActionAgree, packet.FamilyWarp)
	w.AddChar(2) // map switched
	w.AddShort(m.ID)
	w.AddChar(warpAnim)
	m.appendSurroundings(w, c)
	c.Send(w.Bytes())
}

// appendSurroundings writes the characters, npcs and items visible to c,
// in the shared count+Break layout.
func (m *Map) appendSurroundings(w *packet.Writer, c *Character) {
	chars := m.charactersInRange(c.X, c.Y, -1)
	w.AddChar(len(chars))
	w.AddByte(packet.Break)
	for _, other := range chars {
		w.AddBytes(m.characterMapInfo(other))
	}
	for _, n := range m.npcsInRange(c.X, c.Y) {
		w.AddBytes(npcMapInfo(n))
	}
	w.AddByte(packet.Break)
	for _, it := range m.itemsInRange(c.X, c.Y) {
		w.AddBytes(itemMapInfo(it))
	}
}

const welcomeEnterGame = 3
