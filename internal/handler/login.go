package handler

import (
	"context"
	"strings"

	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/persist"
	"github.com/eogo/server/internal/player"
	"go.uber.org/zap"
)

// Login reply codes.
const (
	loginWrongUser = 1
	loginWrongPass = 2
	loginOK        = 3
	loginBanned    = 4
	loginLoggedIn  = 5
	loginBusy      = 6
)

// HandleLoginRequest authenticates an account and answers with the
// character list. Unknown usernames burn a decoy hash so timing does not
// reveal which half of the credentials was wrong.
func HandleLoginRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	username := strings.ToLower(strings.TrimSpace(r.GetBreakString()))
	password := r.GetBreakString()

	if username == "" || password == "" {
		sendLoginReply(p, loginWrongUser)
		return
	}
	if deps.World.PlayerCount() > deps.Config.Server.MaxPlayers {
		sendLoginReply(p, loginBusy)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Database.QueryTimeout)
	defer cancel()

	acct, err := deps.AccountRepo.Load(ctx, username)
	if err != nil {
		deps.Log.Warn("account load failed", zap.Error(err))
		sendLoginReply(p, loginBusy)
		return
	}
	if acct == nil {
		persist.DecoyVerify(password)
		sendLoginReply(p, loginWrongUser)
		return
	}

	ok, legacy := persist.VerifyPassword(acct.PasswordHash, username, password, deps.Config.Account.PasswordSalt)
	if !ok {
		sendLoginReply(p, loginWrongPass)
		return
	}
	if legacy {
		if rehashed, err := persist.HashPassword(password); err == nil {
			if err := deps.AccountRepo.UpdatePasswordHash(ctx, acct.ID, rehashed); err != nil {
				deps.Log.Warn("password rehash failed", zap.Error(err))
			}
		}
	}

	if !deps.World.SetLoggedIn(p.ID, acct.ID) {
		sendLoginReply(p, loginLoggedIn)
		return
	}
	p.AccountID = acct.ID
	p.AccountName = acct.Username
	p.SetState(packet.StateLoggedIn)

	if err := deps.AccountRepo.Touch(ctx, acct.ID, p.Conn.IP); err != nil {
		deps.Log.Warn("account touch failed", zap.Error(err))
	}

	chars, err := deps.CharRepo.ListByAccount(ctx, acct.ID)
	if err != nil {
		deps.Log.Warn("character list failed", zap.Error(err))
	}

	reply := packet.NewWriter(packet.ActionReply, packet.FamilyLogin).
		AddShort(loginOK)
	appendCharacterList(reply, chars, deps)
	p.Send(reply.Bytes())

	p.Log.Info("account logged in", zap.String("account", acct.Username))
}

func sendLoginReply(p *player.Player, code int) {
	p.Send(packet.NewWriter(packet.ActionReply, packet.FamilyLogin).
		AddShort(code).
		Bytes())
}

// appendCharacterList writes the character-select roster shared by the
// login reply and the character create/delete replies.
func appendCharacterList(w *packet.Writer, chars []*persist.CharacterRow, deps *Deps) {
	w.AddChar(len(chars)).
		AddChar(0).
		AddByte(packet.Break)
	for _, c := range chars {
		w.AddBreakString(c.Name).
			AddInt(c.ID).
			AddChar(c.Level).
			AddChar(c.Gender).
			AddChar(c.HairStyle).
			AddChar(c.HairColor).
			AddChar(c.Race).
			AddChar(c.AdminLevel)
		for _, slot := range []int{0, 4, 6, 7, 8} { // boots armor hat shield weapon
			id := 0
			for _, d := range c.Paperdoll {
				if d.Slot == slot {
					id = d.ItemID
					break
				}
			}
			graphic := 0
			if rec := deps.Items.Get(id); rec != nil {
				graphic = rec.DollGraphic
			}
			w.AddShort(graphic)
		}
		w.AddByte(packet.Break)
	}
}
