package infra

import "sync/atomic"

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	ordersSubmitted atomic.Uint64
	ordersCancelled atomic.Uint64
	tradesExecuted  atomic.Uint64
	sharesTraded    atomic.Int64
	noTradeRounds   atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordOrderSubmitted counts a new order accepted onto the book.
func (m *Metrics) RecordOrderSubmitted() {
	m.ordersSubmitted.Add(1)
}

// RecordOrderCancelled counts a live order removed by cancellation.
func (m *Metrics) RecordOrderCancelled() {
	m.ordersCancelled.Add(1)
}

// RecordTrade counts one executed trade of qty shares.
func (m *Metrics) RecordTrade(qty int64) {
	m.tradesExecuted.Add(1)
	m.sharesTraded.Add(qty)
}

// RecordNoTradeRound counts a round whose clearing pass produced nothing.
func (m *Metrics) RecordNoTradeRound() {
	m.noTradeRounds.Add(1)
}

// Snapshot returns current counter values for the end-of-run report.
func (m *Metrics) Snapshot() (submitted, cancelled, trades uint64, shares int64, noTrade uint64) {
	return m.ordersSubmitted.Load(),
		m.ordersCancelled.Load(),
		m.tradesExecuted.Load(),
		m.sharesTraded.Load(),
		m.noTradeRounds.Load()
}

// Reset zeroes all counters. Intended for tests.
func (m *Metrics) Reset() {
	m.ordersSubmitted.Store(0)
	m.ordersCancelled.Store(0)
	m.tradesExecuted.Store(0)
	m.sharesTraded.Store(0)
	m.noTradeRounds.Store(0)
}
