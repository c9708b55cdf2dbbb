// Package materialize loads a processed dataset into the offline and online feature stores.
package materialize

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	datasetv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/dataset/v1"
	eventv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/event/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature"
	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/util"
)

// Options selects the stores a materialization writes to.
type Options struct {
	OfflineEnabled bool
	OnlineEnabled  bool
	// OnlineTTL overrides the view TTL when positive.
	OnlineTTL time.Duration
}

// Usecase materializes feature views.
type Usecase struct {
	datasetRepository featurev1.DatasetRepository
	offlineStore      featurev1.OfflineStore
	onlineStore       featurev1.OnlineStore
	publisher         eventv1.Publisher
	options           Options
	logger            logger.Interface
	now               func() time.Time
}

// NewUsecase creates a new materialize usecase. A store may be nil when its option is disabled.
func NewUsecase(
	datasetRepository featurev1.DatasetRepository,
	offlineStore featurev1.OfflineStore,
	onlineStore featurev1.OnlineStore,
	publisher eventv1.Publisher,
	options Options,
	log logger.Interface,
) *Usecase {
	return &Usecase{
		datasetRepository: datasetRepository,
		offlineStore:      offlineStore,
		onlineStore:       onlineStore,
		publisher:         publisher,
		options:           options,
		logger:            log,
		now:               time.Now,
	}
}

// Ensure Usecase implements feature.Usecase interface
var _ feature.Usecase = (*Usecase)(nil)

// Materialize pushes the processed dataset of version into the stock feature view.
func (u *Usecase) Materialize(ctx context.Context, version string) (*featurev1.MaterializeSummary, error) {
	if !datasetv1.IsValidVersion(version) {
		return nil, errors.NewErrorDetails(fmt.Sprintf("unknown dataset version %q", version), string(errors.DatasetInvalidVersionError), "version")
	}

	view, err := featurev1.GetView(featurev1.ViewName(version))
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	rows, err := u.datasetRepository.Read(ctx, view.Source.Version)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("Data file %s not found. Run preprocessing first.", u.datasetRepository.Path(view.Source.Version)),
			string(errors.GeneralNotFoundError),
			"dataset",
		)
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	summary := &featurev1.MaterializeSummary{
		View:         view.Name,
		Rows:         len(rows),
		RowsPerStock: make(map[string]int64),
	}
	for _, row := range rows {
		summary.RowsPerStock[row.Stock]++
	}

	if u.options.OfflineEnabled {
		if err := u.materializeOffline(ctx, view, rows, summary); err != nil {
			return nil, err
		}
	}

	if u.options.OnlineEnabled && view.Online {
		if err := u.materializeOnline(ctx, view, rows, summary); err != nil {
			return nil, err
		}
	}

	u.logger.InfoContext(ctx, "feature view materialized",
		logger.NewField("view", summary.View),
		logger.NewField("rows", summary.Rows),
		logger.NewField("offline_rows", summary.OfflineRows),
		logger.NewField("online_keys", summary.OnlineKeys),
	)

	u.publish(ctx, version, summary)
	return summary, nil
}

func (u *Usecase) materializeOffline(ctx context.Context, view featurev1.FeatureView, rows []featurev1.Row, summary *featurev1.MaterializeSummary) error {
	n, err := u.offlineStore.StoreBatch(ctx, view, rows)
	if err != nil {
		return errors.TracerFromError(errors.NewErrorDetails(
			fmt.Sprintf("failed to store offline features of %s: %v", view.Name, err),
			string(errors.FeatureStoreError),
			"offline",
		))
	}
	summary.OfflineRows = n

	// the table may lag behind the commit, so a stale count is only reported
	counts, err := u.offlineStore.CountByStock(ctx, view)
	if err != nil {
		u.logger.WarnContext(ctx, "failed to count offline features", logger.NewField("error", err.Error()))
		return nil
	}
	u.logger.DebugContext(ctx, "offline features visible", logger.NewField("counts", counts))
	return nil
}

func (u *Usecase) materializeOnline(ctx context.Context, view featurev1.FeatureView, rows []featurev1.Row, summary *featurev1.MaterializeSummary) error {
	ttl := view.TTL
	if u.options.OnlineTTL > 0 {
		ttl = u.options.OnlineTTL
	}

	latest := Latest(rows)
	stocks := make([]string, 0, len(latest))
	for stock := range latest {
		stocks = append(stocks, stock)
	}
	sort.Strings(stocks)

	for _, stock := range stocks {
		if err := u.onlineStore.Put(ctx, view, latest[stock], ttl); err != nil {
			return errors.TracerFromError(errors.NewErrorDetails(
				fmt.Sprintf("failed to store online features of %s: %v", stock, err),
				string(errors.FeatureStoreError),
				"online",
			))
		}
		summary.OnlineKeys++
	}
	return nil
}

// Latest returns the row with the greatest timestamp of every stock. On equal
// timestamps the later row wins.
func Latest(rows []featurev1.Row) map[string]featurev1.Row {
	latest := make(map[string]featurev1.Row)
	for _, row := range rows {
		current, ok := latest[row.Stock]
		if !ok || !row.Timestamp.Before(current.Timestamp) {
			latest[row.Stock] = row
		}
	}
	return latest
}

func (u *Usecase) publish(ctx context.Context, version string, summary *featurev1.MaterializeSummary) {
	event := eventv1.Event{
		Type:       eventv1.FeaturesMaterialized,
		Version:    version,
		RequestID:  util.GetRequestID(ctx),
		OccurredAt: u.now().UTC(),
		Attributes: map[string]any{
			"view":         summary.View,
			"rows":         summary.Rows,
			"offline_rows": summary.OfflineRows,
			"online_keys":  summary.OnlineKeys,
		},
	}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.logger.WarnContext(ctx, "failed to publish materialization event", logger.NewField("error", err.Error()))
	}
}
