package participant

import (
	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
)

// RandomWalker quotes noise around the last trade price: every round it
// picks a random side, prices at a gaussian around the reference price
// plus a mean-reverting drift, replaces all of its previous quotes and
// rests the new one.
type RandomWalker struct {
	drift float64
}

func NewRandomWalker() *RandomWalker {
	return &RandomWalker{drift: 0.5}
}

func (s *RandomWalker) Decide(t *Trader, view domain.MarketView) []domain.Request {
	dir := domain.Buy
	if t.rng.Intn(2) == 1 {
		dir = domain.Sell
	}

	last := view.LastPrice.InexactFloat64()

	// Nudge quotes back toward the middle of the band.
	if last > 125 {
		s.drift = -0.5
	} else if last < 75 {
		s.drift = 0.5
	}

	price := decimal.NewFromFloat(t.rng.NormFloat64()*2 + last + s.drift).Round(1)
	if price.IsNegative() {
		price = decimal.Zero
	}
	qty := int64(t.rng.NormFloat64()*6 + 20)
	if qty < 1 {
		qty = 1
	}

	offer := domain.NewOffer(t.id, dir, qty, price)

	// New quote first, then cancel everything it replaces.
	cancels := t.cancelOutstanding()
	reqs := make([]domain.Request, 0, len(cancels)+1)
	reqs = append(reqs, t.place(offer))
	reqs = append(reqs, cancels...)
	return reqs
}
