package player

// AddGuildFounder records a player who accepted the co-founding
// invitation. Callable from any goroutine; the roster mutates on the
// actor.
func (p *Player) AddGuildFounder(playerID int) {
	p.post(func(p *Player) {
		if p.GuildCreate.Name == "" {
			return
		}
		for _, id := range p.GuildCreate.Members {
			if id == playerID {
				return
			}
		}
		p.GuildCreate.Members = append(p.GuildCreate.Members, playerID)
	})
}
