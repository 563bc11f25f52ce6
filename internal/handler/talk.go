package handler

import (
	"strings"

	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

const maxChatLength = 128

// HandleTalkReport is public local chat, heard by everyone in range.
func HandleTalkReport(p *player.Player, r *packet.Reader, deps *Deps) {
	message := clampChat(r.GetEndString())
	if message == "" {
		return
	}
	entry, ok := deps.World.Entry(p.ID)
	if !ok {
		return
	}
	if strings.HasPrefix(message, "#") && handleCaptchaAnswer(p, deps, message) {
		return
	}
	if strings.HasPrefix(message, "$") && entry.Admin >= world.AdminGuardian {
		handleAdminCommand(p, deps, entry, message)
		return
	}
	if deps.World.Muted(entry.Name) {
		return
	}
	onMap(p, func(m *world.Map) {
		m.LocalChat(p.ID, message)
	})
}

// HandleTalkMsg is global chat.
func HandleTalkMsg(p *player.Player, r *packet.Reader, deps *Deps) {
	message := clampChat(r.GetEndString())
	if message == "" {
		return
	}
	entry, ok := deps.World.Entry(p.ID)
	if !ok {
		return
	}
	deps.World.GlobalChat(p.ID, entry.Name, message)
}

// HandleTalkTell is a private cross-map message.
func HandleTalkTell(p *player.Player, r *packet.Reader, deps *Deps) {
	toName := r.GetBreakString()
	message := clampChat(r.GetEndString())
	if toName == "" || message == "" {
		return
	}
	entry, ok := deps.World.Entry(p.ID)
	if !ok {
		return
	}
	deps.World.Tell(p.ID, entry.Name, toName, message)
}

// HandleTalkOpen is party chat.
func HandleTalkOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	message := clampChat(r.GetEndString())
	if message == "" {
		return
	}
	entry, ok := deps.World.Entry(p.ID)
	if !ok || deps.World.Muted(entry.Name) {
		return
	}
	members := deps.World.PartyMemberIDs(p.ID)
	if members == nil {
		return
	}
	body := packet.NewWriter(packet.ActionOpen, packet.FamilyTalk).
		AddShort(p.ID).
		AddString(message).
		Bytes()
	for _, id := range members {
		if id == p.ID {
			continue
		}
		if e, ok := deps.World.Entry(id); ok && e.Client != nil {
			e.Client.Send(body)
		}
	}
}

// HandleTalkAnnounce is a server-wide announcement, admins only.
func HandleTalkAnnounce(p *player.Player, r *packet.Reader, deps *Deps) {
	message := clampChat(r.GetEndString())
	entry, ok := deps.World.Entry(p.ID)
	if !ok || entry.Admin < world.AdminGuardian || message == "" {
		return
	}
	deps.World.Announce(entry.Name, message)
}

// HandleTalkAdmin is the admin channel.
func HandleTalkAdmin(p *player.Player, r *packet.Reader, deps *Deps) {
	message := clampChat(r.GetEndString())
	entry, ok := deps.World.Entry(p.ID)
	if !ok || entry.Admin < world.AdminGuardian || message == "" {
		return
	}
	deps.World.AdminChat(p.ID, entry.Name, message)
}

func clampChat(s string) string {
	if len(s) > maxChatLength {
		return s[:maxChatLength]
	}
	return s
}
