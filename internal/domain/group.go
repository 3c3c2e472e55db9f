package domain

import "time"

// Group is a set of users who share expenses. All balances inside a group
// are computed in the group's single currency.
type Group struct {
	ID        string
	Name      string
	Currency  string
	CreatedBy string
	Members   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates group fields.
func (g *Group) Validate() error {
	if err := ValidateGroupName(g.Name); err != nil {
		return err
	}

	if err := ValidateCurrency(g.Currency); err != nil {
		return err
	}

	return distinct(g.Members)
}

// HasMember reports whether userID is a member of the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// HasMembers reports whether every given user is a member of the group.
func (g *Group) HasMembers(userIDs []string) bool {
	for _, id := range userIDs {
		if !g.HasMember(id) {
			return false
		}
	}
	return true
}
