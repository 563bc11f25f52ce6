package world

import (
	"sync"
)

// Party is a leader and members, by player id. The leader is also listed in
// Members.
type Party struct {
	Leader  int
	Members []int
}

// Contains reports membership.
func (p *Party) Contains(playerID int) bool {
	for _, id := range p.Members {
		if id == playerID {
			return true
		}
	}
	return false
}

// PartyList is the process-wide party store. Map actors read it
// synchronously (group heals, hp shares), so it is mutex-guarded rather
// than owned by the registry loop.
type PartyList struct {
	mu      sync.RWMutex
	parties []*Party
}

func NewPartyList() *PartyList {
	return &PartyList{}
}

// Of returns the party containing a player, or nil. The returned slice is a
// copy.
func (l *PartyList) Of(playerID int) *Party {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.parties {
		if p.Contains(playerID) {
			cp := &Party{Leader: p.Leader, Members: append([]int(nil), p.Members...)}
			return cp
		}
	}
	return nil
}

// MemberIDs returns the ids of the player's party, or nil when unpartied.
func (l *PartyList) MemberIDs(playerID int) []int {
	p := l.Of(playerID)
	if p == nil {
		return nil
	}
	return p.Members
}

// Form creates a party of leader and first member. Fails when either is
// already partied.
func (l *PartyList) Form(leader, member int) *Party {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.parties {
		if p.Contains(leader) || p.Contains(member) {
			return nil
		}
	}
	p := &Party{Leader: leader, Members: []int{leader, member}}
	l.parties = append(l.parties, p)
	return &Party{Leader: p.Leader, Members: append([]int(nil), p.Members...)}
}

// Join adds a member to the leader's party under the size cap.
func (l *PartyList) Join(leader, member, maxSize int) *Party {
	l.mu.Lock()
	defer l.mu.Unlock()
	var target *Party
	for _, p := range l.parties {
		if p.Contains(member) {
			return nil
		}
		if p.Leader == leader {
			target = p
		}
	}
	if target == nil || (maxSize > 0 && len(target.Members) >= maxSize) {
		return nil
	}
	target.Members = append(target.Members, member)
	return &Party{Leader: target.Leader, Members: append([]int(nil), target.Members...)}
}

// Leave removes a player. A party that drops below two members disbands;
// a departing leader hands the party to the next member. Returns the
// remaining members (nil when disbanded or unpartied) and whether the
// player was partied.
func (l *PartyList) Leave(playerID int) ([]int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.parties {
		if !p.Contains(playerID) {
			continue
		}
		members := p.Members[:0]
		for _, id := range p.Members {
			if id != playerID {
				members = append(members, id)
			}
		}
		p.Members = members
		if len(p.Members) < 2 {
			l.parties = append(l.parties[:i], l.parties[i+1:]...)
			if len(p.Members) == 1 {
				return append([]int(nil), p.Members...), true
			}
			return nil, true
		}
		if p.Leader == playerID {
			p.Leader = p.Members[0]
		}
		return append([]int(nil), p.Members...), true
	}
	return nil, false
}
