package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"market_sim/internal/app"
	"market_sim/internal/infra"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	ticks := flag.Int("ticks", 0, "override configured tick count")
	seed := flag.Int64("seed", 0, "override configured random seed")
	flag.Parse()

	// 1. System Bootstrapping
	if *seed != 0 {
		os.Setenv("MARKET_SIM_SEED", fmt.Sprint(*seed))
	}
	if *ticks != 0 {
		os.Setenv("MARKET_SIM_TICKS", fmt.Sprint(*ticks))
	}

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Close()

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := bootstrap.Config
	moneyBefore := bootstrap.Engine.TotalMoney()
	stockBefore := bootstrap.Engine.TotalStock()

	slog.Info("Simulation starting",
		slog.Int("ticks", cfg.Simulation.Ticks),
		slog.Int64("seed", cfg.Simulation.Seed),
		slog.String("initial_price", cfg.Simulation.InitialPrice))

	// 3. Run the round loop
	stats, err := bootstrap.Driver.Run(ctx, cfg.Simulation.Ticks)
	if err != nil && ctx.Err() == nil {
		slog.Error("Simulation failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 4. Conservation check + report
	moneyAfter := bootstrap.Engine.TotalMoney()
	stockAfter := bootstrap.Engine.TotalStock()
	if !moneyBefore.Equal(moneyAfter) || stockBefore != stockAfter {
		slog.Error("CONSERVATION_BROKEN",
			slog.String("money_before", moneyBefore.String()),
			slog.String("money_after", moneyAfter.String()),
			slog.Int64("stock_before", stockBefore),
			slog.Int64("stock_after", stockAfter))
		os.Exit(1)
	}

	submitted, cancelled, trades, shares, noTrade := infra.GlobalMetrics.Snapshot()
	slog.Info("Simulation finished",
		slog.Int64("ticks", stats.Ticks),
		slog.Uint64("orders_submitted", submitted),
		slog.Uint64("orders_cancelled", cancelled),
		slog.Uint64("trades", trades),
		slog.Int64("shares_traded", shares),
		slog.Uint64("no_trade_ticks", noTrade),
		slog.String("final_price", stats.FinalPrice.StringFixed(1)),
		slog.String("total_money", stats.TotalMoney.StringFixed(2)),
		slog.Int64("total_stock", stats.TotalStock))

	fmt.Printf("ticks=%d trades=%d no_trade_ticks=%d final_price=%s\n",
		stats.Ticks, stats.Trades, stats.NoTradeTicks, stats.FinalPrice.StringFixed(1))
	fmt.Printf("total_money=%s total_stock=%d (conserved)\n",
		stats.TotalMoney.StringFixed(2), stats.TotalStock)
	fmt.Printf("deal log: %s\n", bootstrap.DealLog.Path())
}
