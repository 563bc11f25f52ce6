package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
)

// HandlePlayersRequest answers the online-player listing.
func HandlePlayersRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	names := deps.World.OnlineNames()
	w := packet.NewWriter(packet.ActionReply, packet.FamilyPlayers).
		AddShort(len(names)).
		AddByte(packet.Break)
	for _, name := range names {
		w.AddBreakString(name)
	}
	p.Conn.Send(w.Bytes())
}

// HandlePlayersAccept locates a player by name. The reply action encodes
// the outcome: Ping for offline, Pong for same map, Net3 for elsewhere.
func HandlePlayersAccept(p *player.Player, r *packet.Reader, deps *Deps) {
	name := r.GetBreakString()
	if name == "" {
		return
	}
	action := packet.ActionPing
	if e, ok := deps.World.FindByName(name); ok {
		if e.MapID == p.MapID {
			action = packet.ActionPong
		} else {
			action = packet.ActionNet3
		}
	}
	p.Conn.Send(packet.NewWriter(action, packet.FamilyPlayers).
		AddBreakString(name).
		Bytes())
}
