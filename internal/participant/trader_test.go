package participant_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
	"market_sim/internal/participant"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// placeThrough scripts one offer and runs a Decide round so the trader
// tracks it as outstanding, the way the driver would.
func placeThrough(t *testing.T, tr *participant.Trader, sc *participant.Scripted, o *domain.Offer) {
	t.Helper()
	sc.PushOffer(o)
	reqs := tr.Decide(domain.MarketView{LastPrice: price("100")})
	if len(reqs) != 1 || reqs[0].Kind != domain.RequestNew {
		t.Fatalf("scripted decide returned %+v", reqs)
	}
}

func TestDealDoneBuy(t *testing.T) {
	sc := participant.NewScripted()
	tr := participant.NewTrader("p", price("1000000"), 2000, sc, nil)

	o := domain.NewOffer("p", domain.Buy, 10, price("100.6"))
	placeThrough(t, tr, sc, o)

	if !tr.DealDone(o, domain.Buy, 10, price("100.6")) {
		t.Fatal("settlement of a tracked offer was rejected")
	}

	// 10 * 100.6 = 1006 paid, 10 shares received.
	if !tr.Money().Equal(price("998994")) {
		t.Errorf("money = %s, want 998994", tr.Money())
	}
	if tr.Stock() != 2010 {
		t.Errorf("stock = %d, want 2010", tr.Stock())
	}
	if o.Qty != 0 {
		t.Errorf("offer qty = %d, want 0", o.Qty)
	}
	if tr.Outstanding() != 0 {
		t.Error("fully filled offer still tracked")
	}
}

func TestDealDoneSellPartial(t *testing.T) {
	sc := participant.NewScripted()
	tr := participant.NewTrader("p", price("1000000"), 2000, sc, nil)

	o := domain.NewOffer("p", domain.Sell, 12, price("100"))
	placeThrough(t, tr, sc, o)

	if !tr.DealDone(o, domain.Sell, 8, price("100")) {
		t.Fatal("settlement rejected")
	}

	if !tr.Money().Equal(price("1000800")) {
		t.Errorf("money = %s, want 1000800", tr.Money())
	}
	if tr.Stock() != 1992 {
		t.Errorf("stock = %d, want 1992", tr.Stock())
	}
	// Partially filled: still outstanding with the remainder.
	if o.Qty != 4 {
		t.Errorf("offer qty = %d, want 4", o.Qty)
	}
	if tr.Outstanding() != 1 {
		t.Error("partially filled offer no longer tracked")
	}
}

func TestDealDoneRejectsUntrackedOffer(t *testing.T) {
	tr := participant.NewTrader("p", price("1000000"), 2000, nil, nil)

	o := domain.NewOffer("p", domain.Buy, 10, price("100"))
	if tr.DealDone(o, domain.Buy, 10, price("100")) {
		t.Fatal("settlement of an untracked offer was accepted")
	}

	// No mutation on rejection.
	if !tr.Money().Equal(price("1000000")) {
		t.Errorf("money mutated to %s", tr.Money())
	}
	if tr.Stock() != 2000 {
		t.Errorf("stock mutated to %d", tr.Stock())
	}
	if o.Qty != 10 {
		t.Errorf("offer qty mutated to %d", o.Qty)
	}
}

func TestDecideWithoutStrategy(t *testing.T) {
	tr := participant.NewTrader("p", price("0"), 0, nil, nil)
	if reqs := tr.Decide(domain.MarketView{}); reqs != nil {
		t.Errorf("strategyless trader decided %+v", reqs)
	}
}

func TestScriptedCancelStopsTracking(t *testing.T) {
	sc := participant.NewScripted()
	tr := participant.NewTrader("p", price("0"), 0, sc, nil)

	o := domain.NewOffer("p", domain.Sell, 5, price("100"))
	placeThrough(t, tr, sc, o)
	if tr.Outstanding() != 1 {
		t.Fatal("offer not tracked after placement")
	}

	sc.PushCancel(o.ID)
	reqs := tr.Decide(domain.MarketView{})
	if len(reqs) != 1 || reqs[0].Kind != domain.RequestCancel || reqs[0].CancelID != o.ID {
		t.Fatalf("cancel round returned %+v", reqs)
	}
	if tr.Outstanding() != 0 {
		t.Error("cancelled offer still tracked")
	}

	// Settling the cancelled offer must now be rejected.
	if tr.DealDone(o, domain.Sell, 5, price("100")) {
		t.Error("settlement accepted after cancel")
	}
}
