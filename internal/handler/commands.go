package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// handleAdminCommand interprets a $-prefixed chat line from a guardian or
// above. Unknown commands are dropped silently.
func handleAdminCommand(p *player.Player, deps *Deps, entry world.PlayerEntry, line string) {
	fields := strings.Fields(strings.TrimPrefix(line, "$"))
	if len(fields) == 0 {
		return
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "kick":
		if len(args) >= 1 {
			deps.World.Kick(args[0], "kicked by "+entry.Name)
		}
	case "jail":
		if len(args) >= 1 {
			deps.World.Jail(args[0])
		}
	case "free":
		if len(args) >= 1 {
			deps.World.Free(args[0])
		}
	case "ban":
		if len(args) >= 1 {
			minutes := 0
			if len(args) >= 2 {
				minutes, _ = strconv.Atoi(args[1])
			}
			ip := ""
			if target, ok := deps.World.FindByName(args[0]); ok {
				if tp, ok := target.Client.(*player.Player); ok {
					ip = tp.Conn.IP
				}
			}
			deps.World.Ban(args[0], ip, minutes, p.AccountID)
		}
	case "mute":
		if len(args) >= 1 {
			minutes := 5
			if len(args) >= 2 {
				if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
					minutes = n
				}
			}
			deps.World.Mute(args[0], time.Duration(minutes)*time.Minute)
		}
	case "hide":
		onMap(p, func(m *world.Map) {
			m.ToggleHidden(p.ID)
		})
	case "captcha":
		if len(args) >= 2 {
			reward, err := strconv.Atoi(args[1])
			if err != nil || reward < 0 {
				return
			}
			target, ok := deps.World.FindByName(args[0])
			if !ok {
				return
			}
			if tp, ok := target.Client.(*player.Player); ok {
				tp.SendCaptcha(reward)
			}
		}
	}
}

// handleCaptchaAnswer consumes a #-prefixed chat line while a challenge is
// pending. Returns false when no challenge is outstanding so the line falls
// through to normal chat.
func handleCaptchaAnswer(p *player.Player, deps *Deps, line string) bool {
	if p.Captcha.Challenge == "" {
		return false
	}
	reward, ok := p.VerifyCaptcha(strings.TrimPrefix(line, "#"))
	if ok && reward > 0 {
		onMap(p, func(m *world.Map) {
			m.GrantExp(p.ID, reward)
		})
	}
	return true
}
