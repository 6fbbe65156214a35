package domain

import "github.com/shopspring/decimal"

// MarketView is the slice of engine state a strategy is allowed to see
// when deciding: the last trade price and the current round number.
// Strategies never get a reference to the book itself.
type MarketView struct {
	LastPrice decimal.Decimal
	Tick      int64
}
