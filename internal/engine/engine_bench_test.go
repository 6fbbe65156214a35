package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"market_sim/internal/domain"
	"market_sim/internal/engine"
	"market_sim/internal/participant"
)

// BenchmarkClear measures one clearing pass over a fully crossed book:
// 100 bids against 100 asks at the same price, all filling.
func BenchmarkClear(b *testing.B) {
	const depth = 100
	p := decimal.NewFromInt(100)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		e := engine.New(p, nil)
		buySc := participant.NewScripted()
		sellSc := participant.NewScripted()
		buyer := participant.NewTrader("buyer", decimal.NewFromInt(100_000_000), 0, buySc, nil)
		seller := participant.NewTrader("seller", decimal.Zero, depth*10, sellSc, nil)
		if err := e.AddParticipant(buyer); err != nil {
			b.Fatal(err)
		}
		if err := e.AddParticipant(seller); err != nil {
			b.Fatal(err)
		}
		view := e.View()
		for j := 0; j < depth; j++ {
			buySc.PushOffer(domain.NewOffer("buyer", domain.Buy, 10, p))
			if err := e.SubmitBatch(buyer.Decide(view)); err != nil {
				b.Fatal(err)
			}
			sellSc.PushOffer(domain.NewOffer("seller", domain.Sell, 10, p))
			if err := e.SubmitBatch(seller.Decide(view)); err != nil {
				b.Fatal(err)
			}
		}
		b.StartTimer()

		traded, err := e.Clear()
		if err != nil {
			b.Fatal(err)
		}
		if !traded {
			b.Fatal("crossed book did not trade")
		}
	}
}

// BenchmarkSubmit measures resting-order insertion across many levels.
func BenchmarkSubmit(b *testing.B) {
	e := engine.New(decimal.NewFromInt(100), nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := decimal.New(int64(950+i%100), -1)
		o := domain.NewOffer("p", domain.Buy, 10, p)
		if err := e.Submit(domain.NewOrder(o)); err != nil {
			b.Fatal(err)
		}
	}
}
