package session

import "github.com/dmitrijs2005/authsession/internal/client/models"

// State is what the rest of the process knows about the session.
// CurrentUser is only ever set while IsAuthenticated is true.
type State struct {
	IsAuthenticated bool
	CurrentUser     *models.Profile
}

// Equal compares by value, including the profile fields.
func (s State) Equal(o State) bool {
	if s.IsAuthenticated != o.IsAuthenticated {
		return false
	}
	if s.CurrentUser == nil || o.CurrentUser == nil {
		return s.CurrentUser == o.CurrentUser
	}
	return *s.CurrentUser == *o.CurrentUser
}

func cleared() State {
	return State{}
}

func authenticated(p *models.Profile) State {
	if p == nil {
		return State{IsAuthenticated: true}
	}
	cp := *p
	return State{IsAuthenticated: true, CurrentUser: &cp}
}
