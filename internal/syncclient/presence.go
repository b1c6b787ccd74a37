package syncclient

import (
	"sort"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/dto"
)

// Collaborator is the last known state of a remote participant.
type Collaborator struct {
	UserID    string
	Name      string
	At        domain.Point
	HasCursor bool
}

// Presence tracks the roster and cursors of the current room. Cursors of
// users missing from the latest roster are dropped.
type Presence struct {
	roster []dto.Participant
	users  map[string]Collaborator
}

func NewPresence() *Presence {
	return &Presence{users: make(map[string]Collaborator)}
}

func (p *Presence) Reset() {
	p.roster = nil
	p.users = make(map[string]Collaborator)
}

// SetRoster replaces the participant list wholesale.
func (p *Presence) SetRoster(users []dto.Participant) {
	p.roster = append([]dto.Participant(nil), users...)
	next := make(map[string]Collaborator, len(users))
	for _, u := range users {
		c := p.users[u.UserID]
		c.UserID, c.Name = u.UserID, u.Name
		next[u.UserID] = c
	}
	p.users = next
}

func (p *Presence) MoveCursor(userID, name string, at domain.Point) {
	c := p.users[userID]
	c.UserID = userID
	if name != "" {
		c.Name = name
	}
	c.At, c.HasCursor = at, true
	p.users[userID] = c
}

func (p *Presence) Roster() []dto.Participant {
	return append([]dto.Participant(nil), p.roster...)
}

// Cursors returns collaborators with a known position, ordered by user id.
func (p *Presence) Cursors() []Collaborator {
	out := make([]Collaborator, 0, len(p.users))
	for _, c := range p.users {
		if c.HasCursor {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
