package handler

import (
	"context"

	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/persist"
	"github.com/eogo/server/internal/player"
	"go.uber.org/zap"
)

// Account reply codes.
const (
	accountExists    = 1
	accountNotFound  = 2
	accountCreated   = 3
	accountBadName   = 4
	accountChangeOK  = 6
	accountContinue  = 1000
)

// HandleAccountRequest validates a prospective username and issues the
// nonce the follow-up Account.Create must echo.
func HandleAccountRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	username := r.GetBreakString()

	if !validAccountName(username, deps.Config.Account.MinNameLength) {
		sendAccountReply(p, accountBadName)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Database.QueryTimeout)
	defer cancel()
	exists, err := deps.AccountRepo.Exists(ctx, username)
	if err != nil {
		deps.Log.Warn("account exists check failed", zap.Error(err))
		sendAccountReply(p, accountBadName)
		return
	}
	if exists {
		sendAccountReply(p, accountExists)
		return
	}

	p.Send(packet.NewWriter(packet.ActionReply, packet.FamilyAccount).
		AddShort(accountContinue).
		AddShort(p.NewSessionID()).
		AddBreakString("OK").
		Bytes())
}

// HandleAccountCreate persists a new account with an argon2id verifier.
func HandleAccountCreate(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetShort()
	_ = r.GetByte() // layout padding before the string block
	username := r.GetBreakString()
	password := r.GetBreakString()
	fullname := r.GetBreakString()
	location := r.GetBreakString()
	email := r.GetBreakString()
	computer := r.GetBreakString()
	hdid := r.GetBreakString()

	if !p.ConsumeSessionID(session) {
		p.Log.Info("account create with stale session")
		p.Conn.Close()
		return
	}
	if !validAccountName(username, deps.Config.Account.MinNameLength) || len(password) < 6 {
		sendAccountReply(p, accountBadName)
		return
	}

	hash, err := persist.HashPassword(password)
	if err != nil {
		deps.Log.Error("password hash failed", zap.Error(err))
		sendAccountReply(p, accountBadName)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Database.QueryTimeout)
	defer cancel()

	exists, err := deps.AccountRepo.Exists(ctx, username)
	if err == nil && exists {
		sendAccountReply(p, accountExists)
		return
	}

	row := &persist.AccountRow{
		Username:     username,
		PasswordHash: hash,
		Fullname:     fullname,
		Location:     location,
		Email:        email,
		Computer:     computer,
		HDID:         hdid,
		RegIP:        p.Conn.IP,
	}
	if err := deps.AccountRepo.Create(ctx, row); err != nil {
		deps.Log.Warn("account create failed", zap.Error(err))
		sendAccountReply(p, accountExists)
		return
	}

	sendAccountReply(p, accountCreated)
	p.Log.Info("account created", zap.String("account", username))
}

func sendAccountReply(p *player.Player, code int) {
	p.Send(packet.NewWriter(packet.ActionReply, packet.FamilyAccount).
		AddShort(code).
		AddBreakString("NO").
		Bytes())
}

// validAccountName allows lowercase ASCII letters and digits, starting with
// a letter.
func validAccountName(name string, minLen int) bool {
	if len(name) < minLen || len(name) > 16 {
		return false
	}
	if name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}
