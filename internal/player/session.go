package player

import "math/rand"

// NewSessionID issues the one-shot nonce for the next login-screen dialog
// step (account request/create, character take/remove).
func (p *Player) NewSessionID() int {
	p.SessionID = rand.Intn(64000-10) + 10
	return p.SessionID
}

// ConsumeSessionID clears the nonce and reports whether the echo matched.
func (p *Player) ConsumeSessionID(id int) bool {
	want := p.SessionID
	p.SessionID = 0
	return want != 0 && id == want
}
