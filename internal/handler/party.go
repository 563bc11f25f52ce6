package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
)

// Party request types.
const (
	partyTypeJoin   = 0 // ask a party's leader to let you in
	partyTypeInvite = 1 // invite an unpartied player to yours
)

// HandlePartyRequest forwards a join request or invitation to its target.
func HandlePartyRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	reqType := r.GetChar()
	targetID := r.GetShort()

	target, ok := deps.World.Entry(targetID)
	if !ok || target.Client == nil || targetID == p.ID {
		return
	}
	entry, ok := deps.World.Entry(p.ID)
	if !ok {
		return
	}
	target.Client.Send(packet.NewWriter(packet.ActionRequest, packet.FamilyParty).
		AddChar(reqType).
		AddShort(p.ID).
		AddString(entry.Name).
		Bytes())
}

// HandlePartyAccept completes the handshake started by HandlePartyRequest.
func HandlePartyAccept(p *player.Player, r *packet.Reader, deps *Deps) {
	reqType := r.GetChar()
	otherID := r.GetShort()

	switch reqType {
	case partyTypeInvite:
		// The other player invited us into their (possibly new) party.
		if deps.World.Parties.Of(otherID) != nil {
			deps.World.PartyJoin(otherID, p.ID)
		} else {
			deps.World.PartyForm(otherID, p.ID)
		}
	case partyTypeJoin:
		// We asked to join; the leader accepted and echoes our request.
		if deps.World.Parties.Of(p.ID) != nil {
			deps.World.PartyJoin(p.ID, otherID)
		} else {
			deps.World.PartyForm(p.ID, otherID)
		}
	}
}

// HandlePartyRemove leaves the party, or kicks when the leader names
// someone else.
func HandlePartyRemove(p *player.Player, r *packet.Reader, deps *Deps) {
	targetID := r.GetShort()
	if targetID == p.ID || targetID == 0 {
		deps.World.PartyLeave(p.ID)
		return
	}
	deps.World.PartyKick(p.ID, targetID)
}

// HandlePartyTake resends the roster.
func HandlePartyTake(p *player.Player, r *packet.Reader, deps *Deps) {
	deps.World.RefreshParty(p.ID)
}
