package participant

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
)

// Strategy decides what a trader does each round, given its own ledger
// and the market context. Implementations keep their own state; they
// build requests through the trader so outstanding-order bookkeeping
// stays consistent.
type Strategy interface {
	Decide(t *Trader, view domain.MarketView) []domain.Request
}

// Trader owns one participant's ledger: money, stock position and the
// set of outstanding order ids. It satisfies the engine's Participant
// contract; what it actually does each round is delegated to its
// Strategy.
type Trader struct {
	id          string
	money       decimal.Decimal
	stock       int64
	outstanding map[uuid.UUID]*domain.Offer
	strategy    Strategy
	rng         *rand.Rand
}

// NewTrader creates a trader with the given starting balances. rng
// drives any randomness in the strategy; pass a seeded source for
// reproducible runs.
func NewTrader(id string, money decimal.Decimal, stock int64, strat Strategy, rng *rand.Rand) *Trader {
	return &Trader{
		id:          id,
		money:       money,
		stock:       stock,
		outstanding: make(map[uuid.UUID]*domain.Offer),
		strategy:    strat,
		rng:         rng,
	}
}

func (t *Trader) ID() string             { return t.id }
func (t *Trader) Money() decimal.Decimal { return t.money }
func (t *Trader) Stock() int64           { return t.stock }

// Outstanding returns the number of orders the trader still tracks as live.
func (t *Trader) Outstanding() int { return len(t.outstanding) }

// Decide delegates to the strategy. A trader without one sits out.
func (t *Trader) Decide(view domain.MarketView) []domain.Request {
	if t.strategy == nil {
		return nil
	}
	return t.strategy.Decide(t, view)
}

// DealDone settles one leg of a trade against this trader's ledger:
// BUY pays qty*price (rounded to cents) and receives stock, SELL is the
// inverse. The offer's remaining quantity is decremented and it stops
// being tracked once fully filled. An offer the trader does not track
// as outstanding is rejected without any mutation.
func (t *Trader) DealDone(offer *domain.Offer, dir domain.Direction, qty int64, price decimal.Decimal) bool {
	if _, ok := t.outstanding[offer.ID]; !ok {
		return false
	}

	offer.Qty -= qty

	money := price.Mul(decimal.NewFromInt(qty)).Round(2)
	switch dir {
	case domain.Buy:
		t.stock += qty
		t.money = t.money.Sub(money)
	case domain.Sell:
		t.stock -= qty
		t.money = t.money.Add(money)
	default:
		return false
	}

	if offer.Qty == 0 {
		delete(t.outstanding, offer.ID)
	}
	return true
}

// ForgetOutstanding drops all outstanding bookkeeping without emitting
// cancels. Pairs with the engine's CancelAll on a full reset.
func (t *Trader) ForgetOutstanding() {
	clear(t.outstanding)
}

// place tracks a freshly created offer and wraps it as a request.
func (t *Trader) place(o *domain.Offer) domain.Request {
	t.outstanding[o.ID] = o
	return domain.NewOrder(o)
}

// cancelOutstanding emits a cancel for every tracked order and clears
// the set. The trader stops tracking immediately; the engine purges the
// stale queue entries lazily.
func (t *Trader) cancelOutstanding() []domain.Request {
	if len(t.outstanding) == 0 {
		return nil
	}
	reqs := make([]domain.Request, 0, len(t.outstanding))
	for id := range t.outstanding {
		reqs = append(reqs, domain.Cancel(id))
	}
	clear(t.outstanding)
	return reqs
}
