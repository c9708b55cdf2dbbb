package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/app/pipeline"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/config"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	version, err := pipeline.ParseVersion(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage: materialize [0|1]: %v\n", err)
		return 1
	}

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

	ctx := pipeline.Context(context.Background(), pipeline.Materialize, version)

	p, err := pipeline.New(ctx, *cfg, pipeline.Materialize, l)
	if err != nil {
		l.ErrorContext(ctx, errors.TracerFromError(err))
		return 1
	}
	defer p.Close(ctx)

	summary, err := p.Bootstrap.Usecase.FeatureUsecase.Materialize(ctx, version)
	if errors.ErrorCodeEquals(err, string(errors.GeneralNotFoundError)) {
		fmt.Println(err.Error())
		return 0
	}
	if err != nil {
		l.ErrorContext(ctx, errors.TracerFromError(err))
		return 1
	}

	l.InfoContext(ctx, "materialization finished",
		logger.NewField("view", summary.View),
		logger.NewField("rows_per_stock", summary.RowsPerStock),
	)
	return 0
}
