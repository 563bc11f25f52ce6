package world

import (
	"github.com/eogo/server/internal/net/packet"
)

// LocalChat broadcasts a public message to everyone in range of the
// speaker. Mutes are enforced by the registry before the message reaches
// the map.
func (m *Map) LocalChat(playerID int, message string) {
	c := m.characters[playerID]
	if c == nil || message == "" {
		return
	}
	m.sendInRange(c.X, c.Y, playerID, packet.NewWriter(packet.ActionPlayer, packet.FamilyTalk).
		AddShort(playerID).
		AddString(message).
		Bytes())
}

// Emote broadcasts an emote animation.
func (m *Map) Emote(playerID, emote int) {
	c := m.characters[playerID]
	if c == nil || emote < 1 || emote > 15 {
		return
	}
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, playerID, emotePacket(playerID, emote))
	}
}

// ReadSign sends a sign's text to a reader standing next to it.
func (m *Map) ReadSign(playerID, x, y int) {
	c := m.characters[playerID]
	if c == nil || pathDistance(c.X, c.Y, x, y) > 1 {
		return
	}
	sign := m.File.SignAt(x, y)
	if sign == nil {
		return
	}
	c.Send(packet.NewWriter(packet.ActionAgree, packet.FamilyMessage).
		AddBreakString(sign.Title).
		AddString(sign.Body).
		Bytes())
}
