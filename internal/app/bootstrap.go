package app

import (
	"fmt"
	"log/slog"
	"math/rand"

	"market_sim/internal/domain"
	"market_sim/internal/engine"
	"market_sim/internal/infra"
	"market_sim/internal/infra/storage"
	"market_sim/internal/participant"
	"market_sim/internal/sim"
)

// Bootstrap orchestrates the application startup sequence: config,
// logger, trade sinks, engine, roster.
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	DealLog *infra.DealLog
	Engine  *engine.Engine
	Driver  *sim.Driver
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// teeRecorder fans each executed trade out to every sink; the first
// failure aborts the trade's clearing pass.
type teeRecorder []engine.TradeRecorder

func (r teeRecorder) Record(t *domain.Trade) error {
	for _, sink := range r {
		if err := sink.Record(t); err != nil {
			return err
		}
	}
	return nil
}

// Initialize wires the whole simulation from the config file at path.
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("Bootstrapping market simulator...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Trade sinks: TSV deal log + SQLite store
	dealLog, err := infra.NewDealLog(cfg.DealLog.Dir)
	if err != nil {
		return err
	}
	b.DealLog = dealLog
	slog.Info("Deal log opened", slog.String("path", dealLog.Path()))

	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("Trade database initialized")

	// 4. Engine + driver, seeded for reproducibility
	b.Engine = engine.New(cfg.InitialPrice(), teeRecorder{dealLog, store})
	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	b.Driver = sim.New(b.Engine, rng)

	// 5. Roster
	if err := b.registerRoster(rng); err != nil {
		return err
	}

	return nil
}

// registerRoster builds the configured participant population. All
// traders share the driver's random source so one seed pins the run.
func (b *Bootstrap) registerRoster(rng *rand.Rand) error {
	p := b.Config.Participants

	for i := 1; i <= p.RandomWalkers.Count; i++ {
		t := participant.NewTrader(fmt.Sprintf("rand_%d", i),
			p.RandomWalkers.StartingMoney(), p.RandomWalkers.Stock,
			participant.NewRandomWalker(), rng)
		if err := b.Driver.Register(t); err != nil {
			return err
		}
	}
	for i := 1; i <= p.ValueInvestors.Count; i++ {
		t := participant.NewTrader(fmt.Sprintf("val_%d", i),
			p.ValueInvestors.StartingMoney(), p.ValueInvestors.Stock,
			participant.NewValueInvestor(), rng)
		if err := b.Driver.Register(t); err != nil {
			return err
		}
	}
	for i := 1; i <= p.TrendFollowers.Count; i++ {
		t := participant.NewTrader(fmt.Sprintf("trend_%d", i),
			p.TrendFollowers.StartingMoney(), p.TrendFollowers.Stock,
			participant.NewTrendFollower(), rng)
		if err := b.Driver.Register(t); err != nil {
			return err
		}
	}

	slog.Info("Roster registered",
		slog.Int("random_walkers", p.RandomWalkers.Count),
		slog.Int("value_investors", p.ValueInvestors.Count),
		slog.Int("trend_followers", p.TrendFollowers.Count))
	return nil
}

// Close releases run resources. The deal log close also repoints the
// deal.log symlink at this run's file.
func (b *Bootstrap) Close() {
	if b.DealLog != nil {
		if err := b.DealLog.Close(); err != nil {
			slog.Error("Failed to close deal log", slog.Any("error", err))
		}
	}
}
