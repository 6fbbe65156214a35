package participant

import (
	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
)

// TrendFollower compares a short and a long window over the reference
// price and chases the stronger side, adding risk slowly and shedding
// it fast. With no signal it pulls all of its resting orders.
type TrendFollower struct {
	short window
	long  window
}

func NewTrendFollower() *TrendFollower {
	return &TrendFollower{
		short: window{cap: 5},
		long:  window{cap: 10},
	}
}

const (
	trendMaxLong  = 3000
	trendMaxShort = -1000
)

func (s *TrendFollower) Decide(t *Trader, view domain.MarketView) []domain.Request {
	last := view.LastPrice
	s.short.push(last)
	s.long.push(last)

	if !s.short.full() || !s.long.full() {
		return nil
	}

	shortSum := s.short.sum()
	halfLongSum := s.long.sum().Div(two)

	var dir domain.Direction
	var qty int64
	switch {
	case shortSum.GreaterThan(halfLongSum):
		// Gain risk slow, release risk fast
		if t.stock > 0 {
			qty = 1000
		} else {
			qty = 3000
		}
		dir = domain.Buy
	case shortSum.LessThan(halfLongSum):
		if t.stock > 0 {
			qty = 3000
		} else {
			qty = 1000
		}
		dir = domain.Sell
	}

	// Position limits.
	if dir == domain.Buy && t.stock > trendMaxLong {
		dir = 0
	}
	if dir == domain.Sell && t.stock < trendMaxShort {
		dir = 0
	}

	if dir == 0 {
		return t.cancelOutstanding()
	}

	offer := domain.NewOffer(t.id, dir, qty, last)
	cancels := t.cancelOutstanding()
	reqs := make([]domain.Request, 0, len(cancels)+1)
	reqs = append(reqs, t.place(offer))
	reqs = append(reqs, cancels...)
	return reqs
}

var two = decimal.NewFromInt(2)

// window is a fixed-size ring over recent prices with a running sum.
type window struct {
	cap    int
	prices []decimal.Decimal
	head   int
	total  decimal.Decimal
}

func (w *window) push(p decimal.Decimal) {
	if w.prices == nil {
		w.prices = make([]decimal.Decimal, 0, w.cap)
	}
	if len(w.prices) < w.cap {
		w.prices = append(w.prices, p)
		w.total = w.total.Add(p)
		return
	}
	w.total = w.total.Sub(w.prices[w.head]).Add(p)
	w.prices[w.head] = p
	w.head = (w.head + 1) % w.cap
}

func (w *window) full() bool {
	return len(w.prices) == w.cap
}

func (w *window) sum() decimal.Decimal {
	return w.total
}
