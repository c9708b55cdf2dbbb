//go:build integration

package feature

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/questdb/migrations"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/migration"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/questdb"
)

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()

	tc, err := questdb.NewTestContainer(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tc.Close(context.Background()) })

	log, err := logger.NewLogger()
	require.NoError(t, err)

	applied, err := migration.NewRunner(tc.Client, migrations.Files, log).MigrateUp(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	repo := NewRepository(tc.Client, log, 2)
	view := featurev1.StockFeaturesV0

	n, err := repo.StoreBatch(ctx, view, testRows(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	// WAL tables apply commits asynchronously
	require.Eventually(t, func() bool {
		counts, err := repo.CountByStock(ctx, view)
		return err == nil && counts["AARTIIND"] == 5
	}, 30*time.Second, 500*time.Millisecond)
}
