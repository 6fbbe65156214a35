package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
	"market_sim/internal/infra"
)

// Participant is the contract the engine needs from a trader: produce
// request intents for a round, and settle both legs of a match. The
// engine does not care about strategy internals.
type Participant interface {
	ID() string
	Decide(view domain.MarketView) []domain.Request
	DealDone(offer *domain.Offer, dir domain.Direction, qty int64, price decimal.Decimal) bool
	Money() decimal.Decimal
	Stock() int64
}

// TradeRecorder receives every executed trade. Implementations must
// persist the trade before returning; a recorder failure aborts the
// clearing pass.
type TradeRecorder interface {
	Record(t *domain.Trade) error
}

var two = decimal.NewFromInt(2)

// Engine is the single-threaded continuous double-auction core: an
// active-order index, one price-indexed book per direction, and the
// crossing loop. It must only be driven from one goroutine; submissions
// and clearing run to completion without suspension points.
type Engine struct {
	participants map[string]Participant
	active       map[uuid.UUID]*domain.Offer
	buys         *sideBook
	sells        *sideBook

	lastPrice decimal.Decimal
	tick      int64
	tradeSeq  uint64

	recorder TradeRecorder
}

// New creates an engine. initialPrice seeds the reference price handed
// to strategies before any trade has printed. recorder may be nil.
func New(initialPrice decimal.Decimal, recorder TradeRecorder) *Engine {
	return &Engine{
		participants: make(map[string]Participant),
		active:       make(map[uuid.UUID]*domain.Offer),
		buys:         newSideBook(domain.Buy),
		sells:        newSideBook(domain.Sell),
		lastPrice:    initialPrice,
		recorder:     recorder,
	}
}

// AddParticipant registers p under its id. Duplicate ids are rejected.
func (e *Engine) AddParticipant(p Participant) error {
	if _, ok := e.participants[p.ID()]; ok {
		return fmt.Errorf("add participant %q: %w", p.ID(), domain.ErrDuplicateParticipant)
	}
	e.participants[p.ID()] = p
	return nil
}

// LastPrice returns the price of the most recent trade (or the seed
// price before any trade).
func (e *Engine) LastPrice() decimal.Decimal {
	return e.lastPrice
}

// View returns the market context handed to strategies.
func (e *Engine) View() domain.MarketView {
	return domain.MarketView{LastPrice: e.lastPrice, Tick: e.tick}
}

// SetTick records the driver's current round number, stamped onto trades.
func (e *Engine) SetTick(tick int64) {
	e.tick = tick
}

// ActiveOrders returns the number of live orders on the book.
func (e *Engine) ActiveOrders() int {
	return len(e.active)
}

// TradeSeq returns the number of trades executed so far.
func (e *Engine) TradeSeq() uint64 {
	return e.tradeSeq
}

// Submit applies one request. New orders are validated and become
// active immediately; cancels drop the id from the active index and
// leave the stale queue entry for lazy purge. Cancelling an id that was
// never submitted is a no-op.
func (e *Engine) Submit(req domain.Request) error {
	switch req.Kind {
	case domain.RequestNew:
		o := req.Offer
		if !o.Direction.Valid() {
			return &domain.RequestError{Op: "submit", ID: o.ID, Err: domain.ErrInvalidDirection}
		}
		if o.Qty <= 0 {
			return &domain.RequestError{Op: "submit", ID: o.ID, Err: domain.ErrInvalidQuantity}
		}
		if o.Price.IsNegative() {
			return &domain.RequestError{Op: "submit", ID: o.ID, Err: domain.ErrInvalidPrice}
		}
		if _, ok := e.active[o.ID]; ok {
			return &domain.RequestError{Op: "submit", ID: o.ID, Err: domain.ErrDuplicateOrder}
		}
		e.active[o.ID] = o
		e.book(o.Direction).insert(o.ID, o.Price)
		infra.GlobalMetrics.RecordOrderSubmitted()
		return nil
	case domain.RequestCancel:
		if _, ok := e.active[req.CancelID]; ok {
			delete(e.active, req.CancelID)
			infra.GlobalMetrics.RecordOrderCancelled()
		}
		return nil
	default:
		return &domain.RequestError{Op: "submit", Err: domain.ErrUnknownRequest}
	}
}

// SubmitBatch applies requests in the given order, stopping at the
// first failure.
func (e *Engine) SubmitBatch(reqs []domain.Request) error {
	for _, req := range reqs {
		if err := e.Submit(req); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) book(dir domain.Direction) *sideBook {
	if dir == domain.Buy {
		return e.buys
	}
	return e.sells
}

// Clear repeatedly matches the best crossing BUY/SELL pair until no
// pair crosses at any price, re-probing for the next-best level as
// sides drain. It reports whether any trade executed. With nothing on
// the book it is a no-op returning false.
func (e *Engine) Clear() (bool, error) {
	traded := false
	for {
		buyLv := e.buys.best(e.active)
		sellLv := e.sells.best(e.active)
		if buyLv == nil || sellLv == nil {
			return traded, nil
		}

		buy := e.active[buyLv.queue[0]]
		sell := e.active[sellLv.queue[0]]
		if buy.Price.LessThan(sell.Price) {
			// Best pair does not cross; nothing deeper can either.
			return traded, nil
		}

		if err := e.matchPair(buy, sell); err != nil {
			return traded, err
		}
		traded = true

		if buy.Qty == 0 {
			delete(e.active, buy.ID)
			e.buys.popHead(buyLv)
		}
		if sell.Qty == 0 {
			delete(e.active, sell.ID)
			e.sells.popHead(sellLv)
		}
	}
}

// matchPair executes one trade between a confirmed crossing pair:
// derives the trade price, settles both legs, advances the reference
// price and hands the trade to the recorder.
//
// Pricing: equal limits trade at that price; otherwise the price
// improvement is split evenly, midpoint rounded to one decimal place.
// The one-decimal rounding mirrors the original design; no tick size
// was ever stated for it.
func (e *Engine) matchPair(buy, sell *domain.Offer) error {
	var price decimal.Decimal
	switch {
	case buy.Price.Equal(sell.Price):
		price = buy.Price
	case buy.Price.GreaterThan(sell.Price):
		price = buy.Price.Add(sell.Price).Div(two).Round(1)
	default:
		// Clear only gets here with a confirmed cross.
		panic(fmt.Sprintf("MATCH_WITHOUT_CROSS: buy %s < sell %s", buy.Price, sell.Price))
	}

	qty := min(buy.Qty, sell.Qty)

	buyer, ok := e.participants[buy.ParticipantID]
	if !ok {
		panic(fmt.Sprintf("UNKNOWN_BUYER: %s", buy.ParticipantID))
	}
	seller, ok := e.participants[sell.ParticipantID]
	if !ok {
		panic(fmt.Sprintf("UNKNOWN_SELLER: %s", sell.ParticipantID))
	}

	// The engine only settles offers it just matched, so a rejected
	// settlement means the index and a ledger disagree. Halt.
	if !buyer.DealDone(buy, domain.Buy, qty, price) {
		panic(fmt.Sprintf("SETTLEMENT_REJECTED: buyer %s offer %s", buyer.ID(), buy.ID))
	}
	if !seller.DealDone(sell, domain.Sell, qty, price) {
		panic(fmt.Sprintf("SETTLEMENT_REJECTED: seller %s offer %s", seller.ID(), sell.ID))
	}
	if buy.Qty < 0 || sell.Qty < 0 {
		panic(fmt.Sprintf("NEGATIVE_QTY_AFTER_FILL: buy=%d sell=%d", buy.Qty, sell.Qty))
	}

	e.lastPrice = price
	e.tradeSeq++
	infra.GlobalMetrics.RecordTrade(qty)

	t := &domain.Trade{
		Seq:         e.tradeSeq,
		Tick:        e.tick,
		BuyOrderID:  buy.ID.String(),
		SellOrderID: sell.ID.String(),
		BuyerID:     buyer.ID(),
		BuyerMoney:  buyer.Money(),
		BuyerStock:  buyer.Stock(),
		SellerID:    seller.ID(),
		SellerMoney: seller.Money(),
		SellerStock: seller.Stock(),
		Qty:         qty,
		Price:       price,
	}
	if e.recorder != nil {
		if err := e.recorder.Record(t); err != nil {
			return fmt.Errorf("record trade %d: %w", t.Seq, err)
		}
	}

	slog.Debug("trade executed",
		slog.Uint64("seq", t.Seq),
		slog.String("buyer", t.BuyerID),
		slog.String("seller", t.SellerID),
		slog.Int64("qty", qty),
		slog.String("price", price.StringFixed(1)))
	return nil
}

// CancelAll wipes the active index and both books. No settlement, no
// notification: callers owning outstanding-order bookkeeping must clear
// it themselves alongside this call.
func (e *Engine) CancelAll() {
	e.active = make(map[uuid.UUID]*domain.Offer)
	e.buys.reset()
	e.sells.reset()
}

// TotalMoney sums money across all registered participants. Invariant
// under any sequence of rounds and clears.
func (e *Engine) TotalMoney() decimal.Decimal {
	total := decimal.Zero
	for _, p := range e.participants {
		total = total.Add(p.Money())
	}
	return total
}

// TotalStock sums stock across all registered participants.
func (e *Engine) TotalStock() int64 {
	var total int64
	for _, p := range e.participants {
		total += p.Stock()
	}
	return total
}

// Dump renders the live book for debugging. Not a stability contract.
func (e *Engine) Dump() string {
	var sb strings.Builder
	sb.WriteString("===== BOOK =====\n")
	e.dumpSide(&sb, e.buys)
	e.dumpSide(&sb, e.sells)
	sb.WriteString(fmt.Sprintf("last price: %s, active orders: %d\n",
		e.lastPrice.StringFixed(1), len(e.active)))
	return sb.String()
}

func (e *Engine) dumpSide(sb *strings.Builder, b *sideBook) {
	sb.WriteString(b.dir.String() + "\n")
	levels := make([]*priceLevel, 0, len(b.levels))
	for _, lv := range b.levels {
		levels = append(levels, lv)
	}
	sort.Slice(levels, func(i, j int) bool {
		return b.better(levels[i].price, levels[j].price)
	})
	for _, lv := range levels {
		sb.WriteString("    " + lv.price.StringFixed(1) + "\n")
		for _, id := range lv.queue {
			if o, ok := e.active[id]; ok {
				sb.WriteString(fmt.Sprintf("        %s %d\n", o.ParticipantID, o.Qty))
			} else {
				sb.WriteString(fmt.Sprintf("        %s deleted\n", id))
			}
		}
	}
}
