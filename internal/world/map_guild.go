package world

import (
	"strings"

	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// Guild reply codes.
const (
	GuildReplyBusy        = 1
	GuildReplyNotApproved = 2
	GuildReplyAlreadyIn   = 3
	GuildReplyNoCandidate = 4
	GuildReplyExists      = 5
	GuildReplyCreated     = 6
	GuildReplyNoGold      = 7
	GuildReplyAccepted    = 8
	GuildReplyLeft        = 9
)

func guildReply(code int) []byte {
	return packet.NewWriter(packet.ActionReply, packet.FamilyGuild).
		AddShort(code).
		Bytes()
}

// OpenGuild starts a guild-master dialog.
func (m *Map) OpenGuild(playerID, npcIndex int) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || c.Trading || n == nil || n.Record.Type != data.NpcGuild {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	c.SessionID = newSessionID()
	c.InteractNpcIndex = npcIndex

	c.Send(packet.NewWriter(packet.ActionOpen, packet.FamilyGuild).
		AddThree(c.SessionID).
		Bytes())
}

// validGuildTag is three ASCII letters.
func validGuildTag(tag string) bool {
	if len(tag) != 3 {
		return false
	}
	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return false
		}
	}
	return true
}

// CreateGuild founds a guild. The founder roster was gathered on the
// creator's connection; every founder must still be online and guildless.
// Persistence runs off the actor; gold is only taken once the row exists.
func (m *Map) CreateGuild(playerID, sessionID int, tag, name, description string, founderIDs []int) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcGuild {
		return
	}
	if c.GuildTag != "" {
		c.Send(guildReply(GuildReplyAlreadyIn))
		return
	}
	tag = strings.ToUpper(tag)
	if !validGuildTag(tag) || name == "" {
		c.Send(guildReply(GuildReplyNotApproved))
		return
	}
	w := m.deps.World()
	if len(founderIDs)+1 < w.GuildMinPlayers {
		c.Send(guildReply(GuildReplyNoCandidate))
		return
	}
	if c.ItemAmount(GoldItemID) < w.GuildCreateCost {
		c.Send(guildReply(GuildReplyNoGold))
		return
	}
	if m.world == nil {
		return
	}
	c.DelItem(GoldItemID, w.GuildCreateCost)
	c.MarkDirty()
	m.world.FoundGuild(playerID, tag, name, description, founderIDs, w.GuildCreateCost)
}

// refundGuildCost returns the creation fee after a failed founding.
func (m *Map) refundGuildCost(playerID, cost, replyCode int) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	c.AddItem(GoldItemID, cost, m.deps.World().MaxItem)
	c.MarkDirty()
	c.Send(guildReply(replyCode))
}

// setGuild applies membership fields to a resident character and announces
// the tag change to observers.
func (m *Map) setGuild(playerID int, tag, rankString string, rank int) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	c.GuildTag = tag
	c.GuildRank = rank
	c.GuildRankString = rankString
	c.MarkDirty()
	if tag == "" {
		c.Send(guildReply(GuildReplyLeft))
	} else {
		c.Send(packet.NewWriter(packet.ActionAgree, packet.FamilyGuild).
			AddBreakString(tag).
			AddBreakString(rankString).
			Bytes())
	}
}

// AnnounceGuildCreate tells nearby players a guild is being founded so
// they can accept co-founding.
func (m *Map) AnnounceGuildCreate(playerID int, guildName string) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	m.sendInRange(c.X, c.Y, playerID, packet.NewWriter(packet.ActionRequest, packet.FamilyGuild).
		AddShort(playerID).
		AddString(guildName).
		Bytes())
}

// GuildInfo returns the resident character's tag and rank, for permission
// checks done outside the actor.
func (m *Map) GuildInfo(playerID int) (tag string, rank int) {
	c := m.characters[playerID]
	if c == nil {
		return "", 0
	}
	return c.GuildTag, c.GuildRank
}

// GuildDeposit moves inventory gold into the guild bank.
func (m *Map) GuildDeposit(playerID, sessionID, amount int) {
	c := m.characters[playerID]
	if c == nil || amount <= 0 || !consumeSession(c, sessionID) {
		return
	}
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcGuild {
		return
	}
	if c.GuildTag == "" {
		return
	}
	w := m.deps.World()
	if amount < w.GuildBankMinimum {
		return
	}
	if have := c.ItemAmount(GoldItemID); amount > have {
		amount = have
	}
	if amount == 0 || m.world == nil {
		return
	}
	c.DelItem(GoldItemID, amount)
	c.MarkDirty()
	m.world.GuildBankDeposit(playerID, c.GuildTag, amount)
}

// LeaveGuild removes the resident character from its guild.
func (m *Map) LeaveGuild(playerID int) {
	c := m.characters[playerID]
	if c == nil || c.GuildTag == "" {
		return
	}
	tag := c.GuildTag
	m.setGuild(playerID, "", "", 0)
	if m.world != nil {
		m.world.GuildMemberLeft(playerID, c.Name, tag)
	}
}
