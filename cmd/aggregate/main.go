package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zd0907-arc/market-live-terminal/app"
	"github.com/zd0907-arc/market-live-terminal/internal/bootstrap"
	"github.com/zd0907-arc/market-live-terminal/internal/config"
	"github.com/zd0907-arc/market-live-terminal/internal/domain/aggregation"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// env is what every subcommand needs, opened lazily so --help works offline.
type env struct {
	usecase aggregation.Usecase
	logger  *logger.Logger
	stores  *app.Stores
}

func open(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := app.NewLogger(cfg.App)
	if err != nil {
		return nil, err
	}
	stores, err := app.Connect(ctx, *cfg, log)
	if err != nil {
		return nil, err
	}

	b := (&bootstrap.Bootstrap{}).Init(bootstrap.BoostrapConfig{
		Config:  *cfg,
		QuestDB: stores.QuestDB,
		Redis:   stores.Redis,
		Logger:  log,
	})
	return &env{usecase: b.Usecase.AggregationUsecase, logger: log, stores: stores}, nil
}

func (e *env) close(ctx context.Context) {
	e.stores.Close(ctx)
	_ = e.logger.Sync()
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aggregate",
		Short:         "Aggregate stored trade ticks into minute, session and daily flow bars",
		SilenceUsage: true,
	}
	root.AddCommand(runCmd(), finalizeCmd(), backfillCmd())
	return root
}

func runCmd() *cobra.Command {
	var symbol, date string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Aggregate one symbol for one trading date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := time.Parse(util.DateLayout, date); err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close(cmd.Context())

			res, err := e.usecase.Run(cmd.Context(), symbol, date)
			if err != nil {
				return err
			}
			if res.Empty {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: no ticks\n", symbol, date)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d minute bars, %d flow bars, net inflow %.2f\n",
				symbol, date, len(res.Minutes), len(res.Flows), res.Daily.NetInflow)
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "instrument, e.g. sh600519")
	cmd.Flags().StringVar(&date, "date", time.Now().In(util.Exchange).Format(util.DateLayout), "trading date YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("symbol")
	return cmd
}

func finalizeCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Aggregate every watchlist symbol for one trading date",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close(cmd.Context())

			report, err := e.usecase.Finalize(cmd.Context(), date)
			printReport(cmd, report)
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", time.Now().In(util.Exchange).Format(util.DateLayout), "trading date YYYY-MM-DD")
	return cmd
}

func backfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Re-aggregate every stored symbol and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close(cmd.Context())

			report, err := e.usecase.Backfill(cmd.Context())
			printReport(cmd, report)
			return err
		},
	}
}

func printReport(cmd *cobra.Command, report *aggregation.Report) {
	if report == nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "runs=%d empty=%d failed=%d\n", report.Runs, report.Empty, len(report.Failed))
	for _, f := range report.Failed {
		fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s\n", f)
	}
}
