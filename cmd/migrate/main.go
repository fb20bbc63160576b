package main

import (
	"context"
	"flag"
	"log"

	"github.com/zd0907-arc/market-live-terminal/app"
	"github.com/zd0907-arc/market-live-terminal/internal/config"
	"github.com/zd0907-arc/market-live-terminal/migrations"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/migration"
	"github.com/zd0907-arc/market-live-terminal/pkg/questdb"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all, down requires > 0)")
	)
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := app.NewLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize QuestDB client
	client, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Fatalf("Failed to initialize QuestDB client: %v", err)
	}
	defer client.Close()

	runner := migration.NewRunner(client, migrations.FS, zlog.Named("migrate"))

	var count int
	switch *direction {
	case "up":
		count, err = runner.Up(ctx, *steps)
	case "down":
		count, err = runner.Down(ctx, *steps)
	default:
		log.Fatalf("Invalid direction %q, use up or down", *direction)
	}
	if err != nil {
		zlog.Error(err, logger.NewField("applied", count))
		log.Fatalf("Migration %s failed", *direction)
	}

	zlog.Info("Migrations completed", logger.NewField("direction", *direction), logger.NewField("count", count))
}
