package feature

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/questdb"
)

// DefaultBatchSize is the number of rows sent per COPY.
const DefaultBatchSize = 5000

// columns are the table columns in COPY order.
var columns = []string{
	featurev1.ColumnTimestamp,
	featurev1.ColumnStock,
	featurev1.ColumnOpen,
	featurev1.ColumnHigh,
	featurev1.ColumnLow,
	featurev1.ColumnClose,
	featurev1.ColumnVolume,
	featurev1.ColumnRollingAvg10,
	featurev1.ColumnVolumeSum10,
	featurev1.ColumnTarget,
}

// Repository is the QuestDB offline store. Every feature view lives in a table of the same name.
type Repository struct {
	client    questdb.QuestDBClient
	logger    logger.Interface
	batchSize int
}

// NewRepository creates a new offline feature repository.
func NewRepository(client questdb.QuestDBClient, log logger.Interface, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Repository{
		client:    client,
		logger:    log,
		batchSize: batchSize,
	}
}

// Ensure Repository implements OfflineStore interface
var _ featurev1.OfflineStore = (*Repository)(nil)

// StoreBatch replaces the content of the view table with rows in a single transaction.
func (r *Repository) StoreBatch(ctx context.Context, view featurev1.FeatureView, rows []featurev1.Row) (int64, error) {
	table := pgx.Identifier{view.Name}
	var written int64

	err := questdb.WithTx(ctx, r.client, func(ctx context.Context) error {
		if err := r.client.Exec(ctx, "TRUNCATE TABLE "+table.Sanitize()); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", view.Name, err)
		}

		for start := 0; start < len(rows); start += r.batchSize {
			end := min(start+r.batchSize, len(rows))
			batch := rows[start:end]

			n, err := r.client.CopyFrom(ctx, table, columns, pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
				return toValues(batch[i]), nil
			}))
			if err != nil {
				return fmt.Errorf("failed to copy rows %d-%d: %w", start, end, err)
			}
			written += n
		}
		return nil
	})
	if err != nil {
		tracer := errors.NewTracer("offline_store_error").Wrap(err)
		r.logger.ErrorContext(ctx, tracer, logger.NewField("view", view.Name))
		return 0, tracer
	}

	r.logger.InfoContext(ctx, "offline features stored",
		logger.NewField("view", view.Name),
		logger.NewField("rows", written),
	)
	return written, nil
}

// CountByStock returns the number of stored rows of every stock in the view table.
func (r *Repository) CountByStock(ctx context.Context, view featurev1.FeatureView) (map[string]int64, error) {
	query := fmt.Sprintf("SELECT stock, count(*) FROM %s GROUP BY stock ORDER BY stock", pgx.Identifier{view.Name}.Sanitize())

	rows, err := r.client.Query(ctx, query)
	if err != nil {
		return nil, errors.NewTracer("offline_store_error").Wrap(err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			stock string
			count int64
		)
		if err := rows.Scan(&stock, &count); err != nil {
			return nil, errors.NewTracer("offline_store_error").Wrap(err)
		}
		counts[stock] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewTracer("offline_store_error").Wrap(err)
	}
	return counts, nil
}

// toValues maps a row to COPY values. NaN becomes NULL.
func toValues(row featurev1.Row) []any {
	return []any{
		row.Timestamp,
		row.Stock,
		nullable(row.Open),
		nullable(row.High),
		nullable(row.Low),
		nullable(row.Close),
		nullable(row.Volume),
		nullable(row.RollingAvg10),
		nullable(row.VolumeSum10),
		int64(row.Target),
	}
}

func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
