package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleAdminInteractTell is a help request from any player, relayed to
// every online guardian.
func HandleAdminInteractTell(p *player.Player, r *packet.Reader, deps *Deps) {
	message := clampChat(r.GetEndString())
	if message == "" {
		return
	}
	entry, ok := deps.World.Entry(p.ID)
	if !ok || deps.World.Muted(entry.Name) {
		return
	}
	deps.World.ReportToAdmins(entry.Name, "", message)
}

// HandleAdminInteractReport reports another player by name.
func HandleAdminInteractReport(p *player.Player, r *packet.Reader, deps *Deps) {
	target := r.GetBreakString()
	message := clampChat(r.GetEndString())
	if target == "" || message == "" {
		return
	}
	entry, ok := deps.World.Entry(p.ID)
	if !ok || deps.World.Muted(entry.Name) {
		return
	}
	deps.World.ReportToAdmins(entry.Name, target, message)
}

// HandleAdminInteractList returns the full online roster, guardians only.
func HandleAdminInteractList(p *player.Player, r *packet.Reader, deps *Deps) {
	entry, ok := deps.World.Entry(p.ID)
	if !ok || entry.Admin < world.AdminGuardian {
		return
	}
	names := deps.World.OnlineNames()
	w := packet.NewWriter(packet.ActionList, packet.FamilyAdminInteract).
		AddShort(len(names)).
		AddByte(packet.Break)
	for _, name := range names {
		w.AddBreakString(name)
	}
	p.Conn.Send(w.Bytes())
}

// HandleAdminInteractKick kicks a player by name, guardians only.
func HandleAdminInteractKick(p *player.Player, r *packet.Reader, deps *Deps) {
	name := r.GetBreakString()
	entry, ok := deps.World.Entry(p.ID)
	if !ok || entry.Admin < world.AdminGuardian || name == "" {
		return
	}
	deps.World.Kick(name, "kicked by "+entry.Name)
}
