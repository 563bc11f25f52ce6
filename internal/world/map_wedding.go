package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// weddingPhase walks the ceremony forward on map ticks once both partners
// said their vows.
type weddingPhase int

const (
	weddingRequested weddingPhase = iota
	weddingAccepted
	weddingVows
	weddingComplete
)

// weddingState is the one ceremony a priest map can host at a time.
type weddingState struct {
	phase     weddingPhase
	npcIndex  int
	partnerA  int // player ids
	partnerB  int
	agreedA   bool
	agreedB   bool
	stepTicks int
}

// OpenPriest starts a priest dialog. The priest refuses characters already
// married or without a fiance.
func (m *Map) OpenPriest(playerID, npcIndex int) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || c.Trading || n == nil || n.Record.Type != data.NpcPriest {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	c.SessionID = newSessionID()
	c.InteractNpcIndex = npcIndex

	c.Send(packet.NewWriter(packet.ActionOpen, packet.FamilyPriest).
		AddInt(c.SessionID).
		Bytes())
}

// RequestWedding asks the priest to marry the requester to a named partner
// who must be present, in range, and engaged to the requester.
func (m *Map) RequestWedding(playerID, sessionID int, partnerName string) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcPriest {
		return
	}
	if m.wedding != nil && m.wedding.phase != weddingComplete {
		c.Send(priestReply(priestBusy))
		return
	}
	if c.Partner != "" {
		c.Send(priestReply(priestAlreadyMarried))
		return
	}
	p := m.CharacterByName(partnerName)
	if p == nil || !p.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		c.Send(priestReply(priestPartnerMissing))
		return
	}
	if !equalFold(c.Fiance, p.Name) || !equalFold(p.Fiance, c.Name) {
		c.Send(priestReply(priestNotEngaged))
		return
	}
	m.wedding = &weddingState{
		phase:    weddingRequested,
		npcIndex: c.InteractNpcIndex,
		partnerA: c.PlayerID,
		partnerB: p.PlayerID,
	}
	p.Send(packet.NewWriter(packet.ActionRequest, packet.FamilyPriest).
		AddShort(c.PlayerID).
		AddBreakString(c.Name).
		Bytes())
}

// AcceptWedding is the partner's consent; the ceremony begins.
func (m *Map) AcceptWedding(playerID int) {
	wd := m.wedding
	if wd == nil || wd.phase != weddingRequested || playerID != wd.partnerB {
		return
	}
	wd.phase = weddingAccepted
	wd.stepTicks = 4
	for _, pid := range [...]int{wd.partnerA, wd.partnerB} {
		if c := m.characters[pid]; c != nil {
			c.Send(packet.NewWriter(packet.ActionReply, packet.FamilyPriest).
				AddChar(priestCeremonyStart).
				Bytes())
		}
	}
}

// SayVows records one partner's "I do"; both trigger the vow phase.
func (m *Map) SayVows(playerID int) {
	wd := m.wedding
	if wd == nil || wd.phase != weddingAccepted {
		return
	}
	switch playerID {
	case wd.partnerA:
		wd.agreedA = true
	case wd.partnerB:
		wd.agreedB = true
	default:
		return
	}
	if wd.agreedA && wd.agreedB {
		wd.phase = weddingVows
		wd.stepTicks = 4
	}
}

// tickWedding paces the ceremony broadcasts and finishes the marriage.
func (m *Map) tickWedding() {
	wd := m.wedding
	if wd == nil || wd.phase == weddingComplete {
		return
	}
	a := m.characters[wd.partnerA]
	b := m.characters[wd.partnerB]
	if a == nil || b == nil {
		// A partner left mid-ceremony; the wedding is off.
		m.wedding = nil
		return
	}
	if wd.stepTicks > 0 {
		wd.stepTicks--
		return
	}
	switch wd.phase {
	case weddingAccepted:
		// Waiting on vows; nudge the pair.
		n := m.Npc(wd.npcIndex)
		if n != nil {
			m.sendInRange(n.X, n.Y, 0, packet.NewWriter(packet.ActionMsg, packet.FamilyPriest).
				AddBreakString(m.deps.Lang.Get("wedding_vow_prompt")).
				Bytes())
		}
		wd.stepTicks = 10
	case weddingVows:
		a.Partner, b.Partner = b.Name, a.Name
		a.Fiance, b.Fiance = "", ""
		a.MarkDirty()
		b.MarkDirty()
		wd.phase = weddingComplete
		done := packet.NewWriter(packet.ActionUse, packet.FamilyPriest).
			AddShort(a.PlayerID).
			AddShort(b.PlayerID).
			Bytes()
		m.sendAll(done)
		m.sendAll(emotePacket(a.PlayerID, EmoteTrade))
		m.sendAll(emotePacket(b.PlayerID, EmoteTrade))
		m.wedding = nil
	}
}

// Priest reply codes understood by the client dialog.
const (
	priestNotEngaged     = 1
	priestAlreadyMarried = 2
	priestPartnerMissing = 3
	priestBusy           = 4
	priestCeremonyStart  = 5
)

func priestReply(code int) []byte {
	return packet.NewWriter(packet.ActionReply, packet.FamilyPriest).
		AddChar(code).
		Bytes()
}

// Engage records a mutual engagement through the Law NPC. Each partner
// calls once; when both have named each other they are engaged.
func (m *Map) Engage(playerID, npcIndex int, partnerName string) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || n == nil || n.Record.Type != data.NpcLaw {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	if c.Partner != "" {
		return
	}
	c.Fiance = partnerName
	c.MarkDirty()
	c.Send(packet.NewWriter(packet.ActionReply, packet.FamilyMarriage).
		AddChar(1).
		AddBreakString(partnerName).
		Bytes())
}

// Divorce ends a marriage through the Law NPC for a gold fee.
func (m *Map) Divorce(playerID, npcIndex int) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || n == nil || n.Record.Type != data.NpcLaw {
		return
	}
	if c.Partner == "" {
		return
	}
	exName := c.Partner
	c.Partner = ""
	c.Fiance = ""
	c.MarkDirty()
	// The absent ex-partner's row updates on its next load through the
	// registry; a resident ex updates immediately.
	if ex := m.CharacterByName(exName); ex != nil {
		ex.Partner = ""
		ex.MarkDirty()
	} else if m.world != nil {
		m.world.DivorceOffline(exName)
	}
	c.Send(packet.NewWriter(packet.ActionRemove, packet.FamilyMarriage).
		AddChar(1).
		Bytes())
}
