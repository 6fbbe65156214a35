package participant_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
	"market_sim/internal/participant"
)

func view(lastPrice string, tick int64) domain.MarketView {
	return domain.MarketView{LastPrice: price(lastPrice), Tick: tick}
}

func TestRandomWalkerQuotesEveryRound(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := participant.NewTrader("rand_1", price("0"), 0, participant.NewRandomWalker(), rng)

	for tick := int64(1); tick <= 50; tick++ {
		reqs := tr.Decide(view("100", tick))
		if len(reqs) == 0 {
			t.Fatalf("tick %d: walker returned no requests", tick)
		}

		// Exactly one new quote per round; everything else cancels the
		// previous round's quote.
		var news, cancels int
		for _, r := range reqs {
			switch r.Kind {
			case domain.RequestNew:
				news++
				o := r.Offer
				if !o.Direction.Valid() {
					t.Fatalf("tick %d: invalid direction", tick)
				}
				if o.Qty < 1 {
					t.Fatalf("tick %d: qty %d", tick, o.Qty)
				}
				if o.Price.IsNegative() {
					t.Fatalf("tick %d: negative price %s", tick, o.Price)
				}
				if o.Price.Exponent() < -1 {
					t.Fatalf("tick %d: price %s is finer than one decimal", tick, o.Price)
				}
			case domain.RequestCancel:
				cancels++
			}
		}
		if news != 1 {
			t.Fatalf("tick %d: %d new quotes, want 1", tick, news)
		}
		if tick > 1 && cancels != 1 {
			t.Fatalf("tick %d: %d cancels, want previous quote pulled", tick, cancels)
		}
		if tr.Outstanding() != 1 {
			t.Fatalf("tick %d: %d outstanding, want 1", tick, tr.Outstanding())
		}
	}
}

func TestRandomWalkerDeterministicForSeed(t *testing.T) {
	run := func() []domain.Request {
		rng := rand.New(rand.NewSource(7))
		tr := participant.NewTrader("rand_1", price("0"), 0, participant.NewRandomWalker(), rng)
		return tr.Decide(view("100", 1))
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	ofA, ofB := a[0].Offer, b[0].Offer
	if ofA.Direction != ofB.Direction || ofA.Qty != ofB.Qty || !ofA.Price.Equal(ofB.Price) {
		t.Errorf("same seed produced %v vs %v", ofA, ofB)
	}
}

func TestValueInvestorBand(t *testing.T) {
	newInvestor := func(money string, stock int64) *participant.Trader {
		return participant.NewTrader("val_1", price(money), stock,
			participant.NewValueInvestor(), nil)
	}

	// Inside the band: no action, resting orders untouched.
	tr := newInvestor("1000000000", 2000)
	if reqs := tr.Decide(view("100", 1)); len(reqs) != 0 {
		t.Errorf("inside band decided %+v", reqs)
	}

	// Cheap: buys a 500 lot at the reference price.
	reqs := tr.Decide(view("79.9", 2))
	if len(reqs) != 1 || reqs[0].Offer.Direction != domain.Buy {
		t.Fatalf("below band decided %+v", reqs)
	}
	if reqs[0].Offer.Qty != 500 || !reqs[0].Offer.Price.Equal(price("79.9")) {
		t.Errorf("buy = %d @ %s, want 500 @ 79.9", reqs[0].Offer.Qty, reqs[0].Offer.Price)
	}

	// Cheap but broke: sits out.
	broke := newInvestor("100", 2000)
	if reqs := broke.Decide(view("79.9", 1)); len(reqs) != 0 {
		t.Errorf("broke investor decided %+v", reqs)
	}

	// Expensive: sells a 500 lot if it holds more than that.
	rich := newInvestor("0", 501)
	reqs = rich.Decide(view("120.1", 1))
	if len(reqs) != 1 || reqs[0].Offer.Direction != domain.Sell {
		t.Fatalf("above band decided %+v", reqs)
	}

	// Expensive without inventory: sits out.
	empty := newInvestor("0", 500)
	if reqs := empty.Decide(view("120.1", 1)); len(reqs) != 0 {
		t.Errorf("inventory-less investor decided %+v", reqs)
	}
}

func priceFromInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func TestTrendFollowerWarmup(t *testing.T) {
	tr := participant.NewTrader("trend_1", price("1000000"), 2000,
		participant.NewTrendFollower(), nil)

	// Needs ten observations before it trades at all.
	for tick := int64(1); tick <= 9; tick++ {
		v := view(price("100").Add(priceFromInt(tick)).String(), tick)
		if reqs := tr.Decide(v); len(reqs) != 0 {
			t.Fatalf("tick %d: traded during warmup: %+v", tick, reqs)
		}
	}
	v := view("110", 10)
	if reqs := tr.Decide(v); len(reqs) == 0 {
		t.Fatal("no decision once both windows are full")
	}
}

func TestTrendFollowerChasesRise(t *testing.T) {
	tr := participant.NewTrader("trend_1", price("1000000"), 2000,
		participant.NewTrendFollower(), nil)

	var reqs []domain.Request
	for tick := int64(1); tick <= 10; tick++ {
		reqs = tr.Decide(view(priceFromInt(100+tick).String(), tick))
	}

	// Rising path: short sum 540 beats half the long sum 527.5, so the
	// follower leans long; with inventory already on it buys the
	// smaller clip at the reference price.
	if len(reqs) != 1 || reqs[0].Kind != domain.RequestNew {
		t.Fatalf("decided %+v", reqs)
	}
	o := reqs[0].Offer
	if o.Direction != domain.Buy || o.Qty != 1000 {
		t.Errorf("offer = %s %d, want BUY 1000", o.Direction, o.Qty)
	}
	if !o.Price.Equal(price("110")) {
		t.Errorf("offer price = %s, want the last reference price 110", o.Price)
	}
}

func TestTrendFollowerFlatHistoryIsSilent(t *testing.T) {
	tr := participant.NewTrader("trend_1", price("1000000"), 2000,
		participant.NewTrendFollower(), nil)

	// Flat history: short sum equals half the long sum exactly, no
	// signal either way, nothing outstanding to pull.
	var reqs []domain.Request
	for tick := int64(1); tick <= 10; tick++ {
		reqs = tr.Decide(view("100", tick))
	}
	if len(reqs) != 0 {
		t.Errorf("flat history decided %+v", reqs)
	}
}

func TestTrendFollowerPositionLimit(t *testing.T) {
	// Already past the long cap: the buy signal is suppressed and all
	// resting orders get pulled.
	tr := participant.NewTrader("trend_1", price("1000000"), 3001,
		participant.NewTrendFollower(), nil)

	var reqs []domain.Request
	for tick := int64(1); tick <= 10; tick++ {
		reqs = tr.Decide(view(priceFromInt(100+tick).String(), tick))
	}
	if len(reqs) != 0 {
		t.Fatalf("capped follower still acted: %+v", reqs)
	}
}
