package world

import (
	"github.com/eogo/server/internal/net/packet"
)

// Wire fragments shared by several map operations. Each returns a headerless
// block for embedding into a reply or broadcast.

// characterMapInfo is the full appearance block sent when a character
// becomes visible: on map enter, range refresh and player-list replies.
func (m *Map) characterMapInfo(c *Character) []byte {
	w := packet.NewRawWriter().
		AddBreakString(c.Name).
		AddShort(c.PlayerID).
		AddShort(c.MapID).
		AddShort(c.X).
		AddShort(c.Y).
		AddChar(int(c.Direction)).
		AddChar(6). // class icon block length, fixed by the client
		AddString(padGuildTag(c.GuildTag)).
		AddChar(c.Level).
		AddChar(c.Gender).
		AddChar(c.HairStyle).
		AddChar(c.HairColor).
		AddChar(c.Race).
		AddShort(c.Stats.MaxHP).
		AddShort(c.HP).
		AddShort(c.Stats.MaxTP).
		AddShort(c.TP)
	for _, slot := range avatarSlots {
		w.AddShort(m.dollGraphic(c.Paperdoll[slot]))
	}
	w.AddChar(int(c.SitState)).
		AddChar(boolChar(c.Hidden)).
		AddByte(packet.Break)
	return w.Bytes()
}

// avatarSlots are the paperdoll slots visible on the walking avatar, in
// wire order.
var avatarSlots = [...]int{SlotBoots, SlotArmor, SlotHat, SlotShield, SlotWeapon}

// dollGraphic maps an equipped item id to its avatar graphic id.
func (m *Map) dollGraphic(itemID int) int {
	if itemID == 0 {
		return 0
	}
	if rec := m.deps.Items.Get(itemID); rec != nil {
		return rec.DollGraphic
	}
	return 0
}

// npcMapInfo is the visibility block for one NPC.
func npcMapInfo(n *NPC) []byte {
	return packet.NewRawWriter().
		AddChar(n.Index).
		AddShort(n.ID).
		AddChar(n.X).
		AddChar(n.Y).
		AddChar(int(n.Direction)).
		Bytes()
}

// itemMapInfo is the visibility block for one ground item.
func itemMapInfo(it *GroundItem) []byte {
	return packet.NewRawWriter().
		AddShort(it.Index).
		AddShort(it.ID).
		AddChar(it.X).
		AddChar(it.Y).
		AddThree(it.Amount).
		Bytes()
}

// itemAddPacket announces a new ground item to observers.
func itemAddPacket(it *GroundItem) []byte {
	return packet.NewWriter(packet.ActionAdd, packet.FamilyItem).
		AddShort(it.ID).
		AddShort(it.Index).
		AddThree(it.Amount).
		AddChar(it.X).
		AddChar(it.Y).
		Bytes()
}

// itemRemovePacket erases a ground item for observers.
func itemRemovePacket(index int) []byte {
	return packet.NewWriter(packet.ActionRemove, packet.FamilyItem).
		AddShort(index).
		Bytes()
}

// avatarChangePacket announces a visible equipment change. slotKind tells
// the client which avatar layer changed.
func (m *Map) avatarChangePacket(c *Character) []byte {
	w := packet.NewWriter(packet.ActionAgree, packet.FamilyAvatar).
		AddShort(c.PlayerID).
		AddChar(1) // change kind: equipment
	for _, slot := range avatarSlots {
		w.AddShort(m.dollGraphic(c.Paperdoll[slot]))
	}
	return w.Bytes()
}

// recoverPacket carries the character's own hp/tp after healing or damage.
func recoverPacket(c *Character) []byte {
	return packet.NewWriter(packet.ActionPlayer, packet.FamilyRecover).
		AddShort(c.HP).
		AddShort(c.TP).
		AddShort(0). // sp, unused by this server
		Bytes()
}

// hpGroupPacket tells party members and observers a character's hp bar.
func hpGroupPacket(c *Character) []byte {
	percent := 0
	if c.Stats.MaxHP > 0 {
		percent = c.HP * 100 / c.Stats.MaxHP
	}
	return packet.NewWriter(packet.ActionAgree, packet.FamilyRecover).
		AddShort(c.PlayerID).
		AddChar(percent).
		Bytes()
}

// weightFragment appends current/max carry weight, the trailer of many
// inventory-touching replies.
func (m *Map) weightFragment(w *packet.Writer, c *Character) *packet.Writer {
	return w.AddChar(c.Weight(m.deps.Items) / 10).
		AddChar(c.Stats.MaxWeight / 10)
}

// inventoryFragment appends the full inventory listing.
func inventoryFragment(w *packet.Writer, c *Character) *packet.Writer {
	for _, it := range c.Items {
		w.AddShort(it.ID).AddInt(it.Amount)
	}
	return w
}

// emotePacket broadcasts an emote for a player.
func emotePacket(playerID, emote int) []byte {
	return packet.NewWriter(packet.ActionPlayer, packet.FamilyEmote).
		AddShort(playerID).
		AddChar(emote).
		Bytes()
}

// EmoteTrade is broadcast for both parties on a completed trade.
const EmoteTrade = 14

func boolChar(b bool) int {
	if b {
		return 1
	}
	return 0
}

func padGuildTag(tag string) string {
	for len(tag) < 3 {
		tag += " "
	}
	return tag[:3]
}
