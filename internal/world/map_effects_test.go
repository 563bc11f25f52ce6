package world

import "testing"

func TestRecoverSittingHealsFaster(t *testing.T) {
	w, m := newTestMap(t)
	stander, _ := putChar(w, m, 1, 5, 5)
	sitter, _ := putChar(w, m, 2, 5, 6)
	stander.HP, sitter.HP = 1, 1
	sitter.SitState = SitFloor

	m.tickRecover()

	cfg := m.deps.World()
	wantStand := 1 + stander.Stats.MaxHP/cfg.RecoverDivStand + 1
	if wantStand > stander.Stats.MaxHP {
		wantStand = stander.Stats.MaxHP
	}
	wantSit := 1 + sitter.Stats.MaxHP/cfg.RecoverDivSit + 1
	if wantSit > sitter.Stats.MaxHP {
		wantSit = sitter.Stats.MaxHP
	}
	if stander.HP != wantStand {
		t.Fatalf("standing hp = %d, want %d", stander.HP, wantStand)
	}
	if sitter.HP != wantSit {
		t.Fatalf("sitting hp = %d, want %d", sitter.HP, wantSit)
	}
	if wantSit < wantStand {
		t.Fatal("sitting healed less than standing")
	}
}

func TestRecoverCapsAtMax(t *testing.T) {
	w, m := newTestMap(t)
	c, client := putChar(w, m, 1, 5, 5)
	c.HP = c.Stats.MaxHP
	c.TP = c.Stats.MaxTP
	client.sent = nil

	m.tickRecover()
	if c.HP != c.Stats.MaxHP || c.TP != c.Stats.MaxTP {
		t.Fatalf("hp=%d tp=%d", c.HP, c.TP)
	}
	if len(client.sent) != 0 {
		t.Fatal("recover packet sent with nothing to heal")
	}
}
