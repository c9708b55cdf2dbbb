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
		fmt.Fprintf(os.Stderr, "usage: preprocess [0|1]: %v\n", err)
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

	ctx := pipeline.Context(context.Background(), pipeline.Preprocess, version)

	p, err := pipeline.New(ctx, *cfg, pipeline.Preprocess, l)
	if err != nil {
		l.ErrorContext(ctx, errors.TracerFromError(err))
		return 1
	}
	defer p.Close(ctx)

	summary, err := p.Bootstrap.Usecase.DatasetUsecase.Preprocess(ctx, version)
	if errors.ErrorCodeEquals(err, string(errors.DatasetNoDataError)) {
		// already logged, nothing to write
		return 0
	}
	if err != nil {
		l.ErrorContext(ctx, errors.TracerFromError(err))
		return 1
	}

	l.InfoContext(ctx, "preprocessing finished",
		logger.NewField("path", summary.OutputPath),
		logger.NewField("rows", summary.TotalRows),
		logger.NewField("missing", summary.Missing),
	)
	return 0
}
