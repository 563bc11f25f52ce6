package world

import "testing"

func TestJukeboxChargesAndCoolsDown(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 0, 7) // next to the jukebox at (0,8)
	cfg := m.deps.World()
	c.AddItem(GoldItemID, cfg.JukeboxCost*3, cfg.MaxItem)

	m.PlayJukebox(1, 0, 8, 3)
	if m.jukebox.track != 3 || m.jukebox.ticks != cfg.JukeboxTicks {
		t.Fatalf("jukebox = %+v", m.jukebox)
	}
	if got := c.ItemAmount(GoldItemID); got != cfg.JukeboxCost*2 {
		t.Fatalf("gold = %d", got)
	}

	// A second purchase is rejected until the cooldown runs out.
	m.PlayJukebox(1, 0, 8, 5)
	if m.jukebox.track != 3 || c.ItemAmount(GoldItemID) != cfg.JukeboxCost*2 {
		t.Fatal("coin accepted while a track plays")
	}

	for i := 0; i < cfg.JukeboxTicks; i++ {
		m.tickJukebox()
	}
	m.PlayJukebox(1, 0, 8, 5)
	if m.jukebox.track != 5 {
		t.Fatal("jukebox refused a coin after cooldown")
	}
}

func TestJukeboxRejectsBadTrackAndPoverty(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 0, 7)
	cfg := m.deps.World()

	m.PlayJukebox(1, 0, 8, 1) // no gold
	if m.jukebox.ticks != 0 {
		t.Fatal("played for free")
	}

	c.AddItem(GoldItemID, cfg.JukeboxCost, cfg.MaxItem)
	m.PlayJukebox(1, 0, 8, cfg.MaxTrackID+1)
	if m.jukebox.ticks != 0 {
		t.Fatal("out-of-range track accepted")
	}
}

func TestPlayInstrumentNeedsInstrument(t *testing.T) {
	w, m := newTestMap(t)
	putChar(w, m, 1, 5, 5)
	_, listener := putChar(w, m, 2, 5, 6)
	listener.sent = nil

	m.PlayInstrument(1, 10) // bare hands
	if len(listener.sent) != 0 {
		t.Fatal("note played without an instrument")
	}
}
