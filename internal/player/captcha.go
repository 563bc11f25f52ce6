package player

import (
	"math/rand"

	"github.com/eogo/server/internal/net/packet"
)

const captchaMaxAttempts = 3

var captchaLetters = []byte("abcdefghjkmnpqrstuvwxyz23456789")

// IssueCaptcha generates a challenge word and remembers the promised
// reward. Re-issuing replaces any outstanding challenge.
func (p *Player) IssueCaptcha(rewardExp int) string {
	b := make([]byte, 4)
	for i := range b {
		b[i] = captchaLetters[rand.Intn(len(captchaLetters))]
	}
	p.Captcha = CaptchaState{
		Challenge: string(b),
		RewardExp: rewardExp,
	}
	return p.Captcha.Challenge
}

// SendCaptcha posts a fresh challenge onto the player actor and announces
// it over the server chat channel. Safe to call from any goroutine.
func (p *Player) SendCaptcha(rewardExp int) {
	p.post(func(p *Player) {
		word := p.IssueCaptcha(rewardExp)
		p.Conn.Send(packet.NewWriter(packet.ActionServer, packet.FamilyTalk).
			AddString("Anti-bot check: answer #" + word + " in chat to continue playing").
			Bytes())
	})
}

// VerifyCaptcha checks an answer against the outstanding challenge. A
// correct answer consumes the state and returns the reward; exhausting the
// attempt budget also clears it.
func (p *Player) VerifyCaptcha(answer string) (rewardExp int, ok bool) {
	if p.Captcha.Challenge == "" {
		return 0, false
	}
	if answer == p.Captcha.Challenge {
		reward := p.Captcha.RewardExp
		p.Captcha = CaptchaState{}
		return reward, true
	}
	p.Captcha.Attempts++
	if p.Captcha.Attempts >= captchaMaxAttempts {
		p.Captcha = CaptchaState{}
	}
	return 0, false
}
