package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
)

// priceLevel is one rung of the book: all resting order ids at a single
// price, in submission order. The slice may contain tombstones — ids of
// orders that were cancelled or filled out from under it — which are
// dropped lazily by purgeStale before the level is read.
type priceLevel struct {
	price decimal.Decimal
	queue []uuid.UUID
}

// sideBook indexes the resting orders of one direction by price.
// It stores ids only; the engine's active index is the single source of
// truth for whether an order is still live.
type sideBook struct {
	dir    domain.Direction
	levels map[string]*priceLevel // keyed by price.String()
}

func newSideBook(dir domain.Direction) *sideBook {
	return &sideBook{dir: dir, levels: make(map[string]*priceLevel)}
}

// insert appends id to the FIFO queue for price, creating the level if
// absent. Insertion order defines time priority.
func (b *sideBook) insert(id uuid.UUID, price decimal.Decimal) {
	key := price.String()
	lv, ok := b.levels[key]
	if !ok {
		lv = &priceLevel{price: price}
		b.levels[key] = lv
	}
	lv.queue = append(lv.queue, id)
}

// better reports whether price a beats price b on this side:
// higher wins for BUY, lower wins for SELL.
func (b *sideBook) better(a, other decimal.Decimal) bool {
	if b.dir == domain.Buy {
		return a.GreaterThan(other)
	}
	return a.LessThan(other)
}

// purgeStale drops leading ids that are no longer in the active index.
// Cancellation never rewrites queues eagerly, so this must run before a
// queue head is read.
func purgeStale(lv *priceLevel, active map[uuid.UUID]*domain.Offer) {
	i := 0
	for i < len(lv.queue) {
		if _, ok := active[lv.queue[i]]; ok {
			break
		}
		i++
	}
	lv.queue = lv.queue[i:]
}

// best returns the best-priced level with a live head order, or nil when
// the side is empty. Levels discovered fully drained along the way are
// deleted; this is the only place empty levels are reclaimed.
func (b *sideBook) best(active map[uuid.UUID]*domain.Offer) *priceLevel {
	for {
		var top *priceLevel
		for _, lv := range b.levels {
			if top == nil || b.better(lv.price, top.price) {
				top = lv
			}
		}
		if top == nil {
			return nil
		}
		purgeStale(top, active)
		if len(top.queue) > 0 {
			return top
		}
		delete(b.levels, top.price.String())
	}
}

// popHead removes the head id of lv after a full fill.
func (b *sideBook) popHead(lv *priceLevel) {
	lv.queue = lv.queue[1:]
}

func (b *sideBook) reset() {
	b.levels = make(map[string]*priceLevel)
}
