// Package dataset builds the processed dataset of a version from raw instrument files.
package dataset

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/dataset"
	datasetv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/dataset/v1"
	eventv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/event/v1"
	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/usecase/feature"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/usecase/resample"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/session"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/util"
)

// Usecase turns the raw files of a version into one processed dataset.
type Usecase struct {
	tickReader        tickv1.TickReader
	datasetRepository featurev1.DatasetRepository
	publisher         eventv1.Publisher
	session           session.Session
	dataDir           string
	logger            logger.Interface
	now               func() time.Time
}

// NewUsecase creates a new dataset usecase reading raw files below dataDir.
func NewUsecase(
	tickReader tickv1.TickReader,
	datasetRepository featurev1.DatasetRepository,
	publisher eventv1.Publisher,
	s session.Session,
	dataDir string,
	log logger.Interface,
) *Usecase {
	return &Usecase{
		tickReader:        tickReader,
		datasetRepository: datasetRepository,
		publisher:         publisher,
		session:           s,
		dataDir:           dataDir,
		logger:            log,
		now:               time.Now,
	}
}

// Ensure Usecase implements dataset.Usecase interface
var _ dataset.Usecase = (*Usecase)(nil)

// Preprocess resamples every instrument of the version, builds its features and
// writes the concatenation in manifest order. Missing files are skipped; when
// none exists nothing is written and a dataset_no_data error is returned.
func (u *Usecase) Preprocess(ctx context.Context, version string) (*datasetv1.Summary, error) {
	manifest, err := datasetv1.GetManifest(version)
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.DatasetInvalidVersionError), "version")
	}

	summary := &datasetv1.Summary{Version: version}
	var rows []featurev1.Row

	for _, file := range manifest.Files {
		path := filepath.Join(u.dataDir, file)
		stock := datasetv1.StockFromPath(path)

		ticks, err := u.tickReader.Read(ctx, path)
		if stderrors.Is(err, fs.ErrNotExist) {
			u.logger.WarnContext(ctx, fmt.Sprintf("File %s not found, skipping", path),
				logger.NewField("stock", stock),
				logger.NewField("path", path),
			)
			summary.Missing = append(summary.Missing, path)
			continue
		}
		if err != nil {
			return nil, errors.TracerFromError(err)
		}

		series := resample.Resample(ticks, u.session)
		built := feature.Tag(feature.Build(series), stock)
		rows = append(rows, built...)

		summary.Instruments = append(summary.Instruments, datasetv1.InstrumentSummary{
			Stock:   stock,
			Path:    path,
			Ticks:   len(ticks),
			Minutes: len(series),
			Rows:    len(built),
		})
		u.logger.InfoContext(ctx, "instrument processed",
			logger.NewField("stock", stock),
			logger.NewField("ticks", len(ticks)),
			logger.NewField("minutes", len(series)),
			logger.NewField("rows", len(built)),
		)
	}

	if len(summary.Instruments) == 0 {
		err := errors.TracerFromError(errors.NewErrorDetails(
			fmt.Sprintf("no data found for version %s", version),
			string(errors.DatasetNoDataError),
			"version",
		))
		u.logger.ErrorContext(ctx, err, logger.NewField("missing", summary.Missing))
		return nil, err
	}

	if err := u.datasetRepository.Write(ctx, version, rows); err != nil {
		return nil, errors.TracerFromError(err)
	}
	summary.OutputPath = u.datasetRepository.Path(version)
	summary.TotalRows = len(rows)

	u.logger.InfoContext(ctx, fmt.Sprintf("Processed data saved to %s", summary.OutputPath),
		logger.NewField("rows", summary.TotalRows),
		logger.NewField("instruments", len(summary.Instruments)),
	)

	u.publish(ctx, summary)
	return summary, nil
}

// publish announces the dataset. A failure is logged and does not undo the written dataset.
func (u *Usecase) publish(ctx context.Context, summary *datasetv1.Summary) {
	stocks := make([]string, 0, len(summary.Instruments))
	for _, inst := range summary.Instruments {
		stocks = append(stocks, inst.Stock)
	}

	event := eventv1.Event{
		Type:       eventv1.DatasetPublished,
		Version:    summary.Version,
		RequestID:  util.GetRequestID(ctx),
		OccurredAt: u.now().UTC(),
		Attributes: map[string]any{
			"path":    summary.OutputPath,
			"rows":    summary.TotalRows,
			"stocks":  stocks,
			"missing": summary.Missing,
		},
	}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.logger.WarnContext(ctx, "failed to publish dataset event", logger.NewField("error", err.Error()))
	}
}
