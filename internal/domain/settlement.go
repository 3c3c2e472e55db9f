package domain

import (
	"fmt"
	"time"
)

// Settlement records money that actually changed hands outside the app:
// FromUserID paid ToUserID. Distinct from a Transfer, which is only a
// suggestion produced by the planner.
type Settlement struct {
	ID         string
	GroupID    string
	FromUserID string
	ToUserID   string
	Amount     Money
	Note       string
	RecordedAt time.Time
}

// Validate validates settlement fields.
func (s *Settlement) Validate() error {
	if s.FromUserID == s.ToUserID {
		return fmt.Errorf("%w: %s", ErrSameUser, s.FromUserID)
	}

	if s.Amount.Amount <= 0 {
		return fmt.Errorf("%w: settlement amount is %d", ErrInvalidAmount, s.Amount.Amount)
	}

	return nil
}

// Transfer is a planner-suggested payment instruction. It carries no
// identity and is never persisted.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     Money
}
