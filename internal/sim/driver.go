package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/shopspring/decimal"

	"market_sim/internal/engine"
	"market_sim/internal/infra"
)

// Driver runs the simulation round loop: each tick it visits every
// participant in a fresh random order, submits their request batches as
// it goes, then runs one clearing pass to exhaustion. Randomness comes
// only from the injected source, so a seed fully determines a run.
type Driver struct {
	engine       *engine.Engine
	participants []engine.Participant
	rng          *rand.Rand
	tick         int64
}

// Stats summarizes a finished run.
type Stats struct {
	Ticks        int64
	Trades       uint64
	NoTradeTicks int64
	FinalPrice   decimal.Decimal
	TotalMoney   decimal.Decimal
	TotalStock   int64
	ActiveOrders int
	Participants int
}

func New(e *engine.Engine, rng *rand.Rand) *Driver {
	return &Driver{engine: e, rng: rng}
}

// Register adds a participant to both the engine and the round rotation.
func (d *Driver) Register(p engine.Participant) error {
	if err := d.engine.AddParticipant(p); err != nil {
		return err
	}
	d.participants = append(d.participants, p)
	return nil
}

// Tick runs one full round and reports whether any trade executed.
// Participants are visited in a fresh random permutation so no one is
// structurally advantaged by registration order. Each batch is
// submitted as soon as it is decided — later participants see the new
// resting orders' effect on nothing (the view only carries the last
// trade price, which cannot move until Clear runs at the end).
func (d *Driver) Tick() (bool, error) {
	d.tick++
	d.engine.SetTick(d.tick)
	view := d.engine.View()

	for _, i := range d.rng.Perm(len(d.participants)) {
		p := d.participants[i]
		reqs := p.Decide(view)
		if len(reqs) == 0 {
			continue
		}
		if err := d.engine.SubmitBatch(reqs); err != nil {
			return false, fmt.Errorf("tick %d, participant %s: %w", d.tick, p.ID(), err)
		}
	}

	traded, err := d.engine.Clear()
	if err != nil {
		return traded, fmt.Errorf("tick %d: %w", d.tick, err)
	}
	if !traded {
		infra.GlobalMetrics.RecordNoTradeRound()
	}
	return traded, nil
}

// Run executes ticks rounds (or until ctx is cancelled) and returns the
// run summary.
func (d *Driver) Run(ctx context.Context, ticks int) (Stats, error) {
	var noTrade int64
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			slog.Warn("simulation interrupted", slog.Int64("tick", d.tick))
			return d.stats(noTrade), ctx.Err()
		default:
		}

		traded, err := d.Tick()
		if err != nil {
			return d.stats(noTrade), err
		}
		if !traded {
			noTrade++
		}
	}
	return d.stats(noTrade), nil
}

func (d *Driver) stats(noTrade int64) Stats {
	return Stats{
		Ticks:        d.tick,
		Trades:       d.engine.TradeSeq(),
		NoTradeTicks: noTrade,
		FinalPrice:   d.engine.LastPrice(),
		TotalMoney:   d.engine.TotalMoney(),
		TotalStock:   d.engine.TotalStock(),
		ActiveOrders: d.engine.ActiveOrders(),
		Participants: len(d.participants),
	}
}
