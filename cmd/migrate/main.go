package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/app/pipeline"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/questdb/migrations"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/config"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/migration"
)

func main() {
	os.Exit(run())
}

func run() int {
	down := flag.Bool("down", false, "roll migrations back instead of applying them")
	steps := flag.Int("steps", 0, "number of migrations to apply (0 applies all) or roll back")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	l, err := pipeline.NewLogger(cfg.App)
	if err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer l.Sync()

	ctx := pipeline.Context(context.Background(), pipeline.Migrate, "")

	p, err := pipeline.New(ctx, *cfg, pipeline.Migrate, l)
	if err != nil {
		l.ErrorContext(ctx, errors.TracerFromError(err))
		return 1
	}
	defer p.Close(ctx)

	runner := migration.NewRunner(p.QuestDB(), migrations.Files, l)

	var ids []string
	if *down {
		ids, err = runner.MigrateDown(ctx, *steps)
	} else {
		ids, err = runner.MigrateUp(ctx, *steps)
	}
	if err != nil {
		l.ErrorContext(ctx, errors.TracerFromError(err))
		return 1
	}

	if len(ids) == 0 {
		fmt.Println("No migrations to run")
	}
	l.InfoContext(ctx, "Migrations completed successfully", logger.NewField("migrations", ids), logger.NewField("down", *down))
	return 0
}
