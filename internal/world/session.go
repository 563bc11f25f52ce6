package world

import (
	"math/rand"
)

// newSessionID issues a dialog nonce. Never zero, so a cleared SessionID
// can never match a reply.
func newSessionID() int {
	return rand.Intn(64000-10) + 10
}

// consumeSession validates a reply's nonce against the one-shot issued
// nonce, clearing it either way so replays always miss.
func consumeSession(c *Character, sessionID int) bool {
	issued := c.SessionID
	c.SessionID = 0
	return issued != 0 && issued == sessionID
}
