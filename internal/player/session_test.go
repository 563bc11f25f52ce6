package player

import "testing"

func TestSessionIDConsumeMatches(t *testing.T) {
	p := &Player{}
	id := p.NewSessionID()
	if id < 10 || id >= 64000 {
		t.Fatalf("session id out of range: %d", id)
	}
	if !p.ConsumeSessionID(id) {
		t.Fatal("matching echo rejected")
	}
	// The nonce is single-use.
	if p.ConsumeSessionID(id) {
		t.Fatal("consumed nonce accepted again")
	}
}

func TestSessionIDConsumeMismatch(t *testing.T) {
	p := &Player{}
	id := p.NewSessionID()
	if p.ConsumeSessionID(id + 1) {
		t.Fatal("wrong echo accepted")
	}
	// A mismatch still burns the nonce.
	if p.ConsumeSessionID(id) {
		t.Fatal("nonce survived a mismatched echo")
	}
}

func TestSessionIDZeroNeverMatches(t *testing.T) {
	p := &Player{}
	if p.ConsumeSessionID(0) {
		t.Fatal("unset nonce matched zero")
	}
}
