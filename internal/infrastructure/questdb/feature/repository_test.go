package feature

import (
	"context"
	stderrors "errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
	logger_mock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger/mock"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/questdb/mock"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return nil
}

func testRows(n int) []featurev1.Row {
	base := time.Date(2015, 2, 2, 9, 15, 0, 0, time.UTC)
	rows := make([]featurev1.Row, n)
	for i := range rows {
		rows[i] = featurev1.Row{
			Tick:         tickv1.Tick{Timestamp: base.Add(time.Duration(i) * time.Minute), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
			RollingAvg10: 1.5,
			VolumeSum10:  100,
			Target:       i % 2,
			Stock:        "AARTIIND",
		}
	}
	return rows
}

func drain(src pgx.CopyFromSource) (int64, error) {
	var n int64
	for src.Next() {
		if _, err := src.Values(); err != nil {
			return n, err
		}
		n++
	}
	return n, src.Err()
}

func TestRepository_StoreBatch(t *testing.T) {
	view := featurev1.StockFeaturesV0
	truncate := `TRUNCATE TABLE "stock_features_v0"`

	testCases := []struct {
		name     string
		rows     []featurev1.Row
		mockFn   func(client *mock.MockQuestDBClient, log *logger_mock.MockInterface)
		assertFn func(t *testing.T, tx *fakeTx, n int64, err error)
	}{
		{
			name: "copy in batches",
			rows: testRows(5),
			mockFn: func(client *mock.MockQuestDBClient, log *logger_mock.MockInterface) {
				client.EXPECT().Exec(gomock.Any(), truncate).Return(nil)
				client.EXPECT().
					CopyFrom(gomock.Any(), pgx.Identifier{"stock_features_v0"}, columns, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ pgx.Identifier, _ []string, src pgx.CopyFromSource) (int64, error) {
						return drain(src)
					}).
					Times(3)
				log.EXPECT().InfoContext(gomock.Any(), "offline features stored", gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, tx *fakeTx, n int64, err error) {
				require.NoError(t, err)
				assert.Equal(t, int64(5), n)
				assert.True(t, tx.committed)
			},
		},
		{
			name: "copy failure rolls back",
			rows: testRows(1),
			mockFn: func(client *mock.MockQuestDBClient, log *logger_mock.MockInterface) {
				client.EXPECT().Exec(gomock.Any(), truncate).Return(nil)
				client.EXPECT().CopyFrom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), stderrors.New("copy"))
				log.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, tx *fakeTx, n int64, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "offline_store_error")
				assert.True(t, tx.rolledBack)
				assert.False(t, tx.committed)
			},
		},
		{
			name: "truncate failure",
			rows: testRows(1),
			mockFn: func(client *mock.MockQuestDBClient, log *logger_mock.MockInterface) {
				client.EXPECT().Exec(gomock.Any(), truncate).Return(stderrors.New("no table"))
				log.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, tx *fakeTx, n int64, err error) {
				assert.ErrorContains(t, err, "failed to truncate")
				assert.True(t, tx.rolledBack)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock.NewMockQuestDBClient(ctrl)
			log := logger_mock.NewMockInterface(ctrl)

			tx := &fakeTx{}
			client.EXPECT().Begin(gomock.Any()).Return(tx, nil)
			tc.mockFn(client, log)

			repo := NewRepository(client, log, 2)
			n, err := repo.StoreBatch(context.Background(), view, tc.rows)
			tc.assertFn(t, tx, n, err)
		})
	}
}

func TestRepository_CountByStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockQuestDBClient(ctrl)
	rows := mock.NewMockRowsInterface(ctrl)

	client.EXPECT().
		Query(gomock.Any(), `SELECT stock, count(*) FROM "stock_features_v1" GROUP BY stock ORDER BY stock`).
		Return(rows, nil)

	gomock.InOrder(
		rows.EXPECT().Next().Return(true),
		rows.EXPECT().Scan(gomock.Any(), gomock.Any()).DoAndReturn(func(dest ...any) error {
			*(dest[0].(*string)) = "AARTIIND"
			*(dest[1].(*int64)) = 42
			return nil
		}),
		rows.EXPECT().Next().Return(false),
	)
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close()

	counts, err := NewRepository(client, nil, 0).CountByStock(context.Background(), featurev1.StockFeaturesV1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"AARTIIND": 42}, counts)
}

func TestToValues(t *testing.T) {
	row := testRows(1)[0]
	row.RollingAvg10 = math.NaN()

	values := toValues(row)
	require.Len(t, values, len(columns))
	assert.Equal(t, "AARTIIND", values[1])
	assert.Nil(t, values[7])
	assert.Equal(t, int64(0), values[9])
}
