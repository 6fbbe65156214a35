package participant

import (
	"github.com/google/uuid"

	"market_sim/internal/domain"
)

// Scripted replays a prepared sequence of moves, one per round. It is
// the deterministic test double behind most engine and driver tests:
// push the moves up front, then tick the simulation and watch the book.
type Scripted struct {
	moves []move
}

type move struct {
	offer    *domain.Offer
	cancelID uuid.UUID
}

func NewScripted() *Scripted {
	return &Scripted{}
}

// PushOffer queues a new order for a future round.
func (s *Scripted) PushOffer(o *domain.Offer) {
	s.moves = append(s.moves, move{offer: o})
}

// PushCancel queues a cancellation for a future round.
func (s *Scripted) PushCancel(id uuid.UUID) {
	s.moves = append(s.moves, move{cancelID: id})
}

// Pending returns the number of queued moves.
func (s *Scripted) Pending() int {
	return len(s.moves)
}

func (s *Scripted) Decide(t *Trader, view domain.MarketView) []domain.Request {
	if len(s.moves) == 0 {
		return nil
	}
	m := s.moves[0]
	s.moves = s.moves[1:]

	if m.offer != nil {
		return []domain.Request{t.place(m.offer)}
	}
	delete(t.outstanding, m.cancelID)
	return []domain.Request{domain.Cancel(m.cancelID)}
}
