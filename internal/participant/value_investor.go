package participant

import (
	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
)

var (
	valueBuyBelow  = decimal.NewFromInt(80)
	valueSellAbove = decimal.NewFromInt(120)
)

// ValueInvestor trades in size only at the edges of its fair-value
// band: buys when the reference price drops below 80, sells above 120,
// and otherwise leaves its resting orders alone.
type ValueInvestor struct {
	lot int64
}

func NewValueInvestor() *ValueInvestor {
	return &ValueInvestor{lot: 500}
}

func (s *ValueInvestor) Decide(t *Trader, view domain.MarketView) []domain.Request {
	last := view.LastPrice
	lot := decimal.NewFromInt(s.lot)

	var offer *domain.Offer
	if last.LessThan(valueBuyBelow) && t.money.GreaterThan(last.Mul(lot)) {
		offer = domain.NewOffer(t.id, domain.Buy, s.lot, last)
	}
	if last.GreaterThan(valueSellAbove) && t.stock > s.lot {
		offer = domain.NewOffer(t.id, domain.Sell, s.lot, last)
	}
	if offer == nil {
		return nil
	}

	cancels := t.cancelOutstanding()
	reqs := make([]domain.Request, 0, len(cancels)+1)
	reqs = append(reqs, t.place(offer))
	reqs = append(reqs, cancels...)
	return reqs
}
