package feature

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	logger_mock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger/mock"
	redis_mock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/redis/mock"
)

func testRow() featurev1.Row {
	return featurev1.Row{
		Tick: tickv1.Tick{
			Timestamp: time.Date(2015, 2, 2, 15, 30, 0, 0, time.UTC),
			Open:      100, High: 101, Low: 99, Close: 100.5, Volume: 1000,
		},
		RollingAvg10: math.NaN(),
		VolumeSum10:  5000,
		Target:       1,
		Stock:        "AARTIIND",
	}
}

func TestOnlineStore_Put(t *testing.T) {
	key := "stock-predictor:stock_features:stock_features_v0:AARTIIND"

	testCases := []struct {
		name     string
		mockFn   func(client *redis_mock.MockClient, log *logger_mock.MockInterface)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "store latest row",
			mockFn: func(client *redis_mock.MockClient, log *logger_mock.MockInterface) {
				client.EXPECT().
					Set(gomock.Any(), key, gomock.Any(), 24*time.Hour).
					DoAndReturn(func(_ context.Context, _ string, value any, _ time.Duration) error {
						var record Record
						require.NoError(t, json.Unmarshal(value.([]byte), &record))
						assert.Equal(t, "AARTIIND", record.Stock)
						assert.Equal(t, "2015-02-02 15:30:00", record.EventTimestamp)
						assert.Nil(t, record.Features["rolling_avg_10"])
						require.NotNil(t, record.Features["volume_sum_10"])
						assert.Equal(t, 5000.0, *record.Features["volume_sum_10"])
						assert.NotContains(t, record.Features, "target")
						assert.Equal(t, 1, record.Target)
						return nil
					})
				log.EXPECT().DebugContext(gomock.Any(), "online features stored", gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "redis failure",
			mockFn: func(client *redis_mock.MockClient, log *logger_mock.MockInterface) {
				client.EXPECT().
					Set(gomock.Any(), key, gomock.Any(), 24*time.Hour).
					Return(errors.NewErrorDetails("Failed to set value in Redis", string(errors.RedisSetError), "set"))
				log.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisSetError)))
				assert.Contains(t, err.Error(), "online_store_error")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := redis_mock.NewMockClient(ctrl)
			log := logger_mock.NewMockInterface(ctrl)
			tc.mockFn(client, log)

			store := NewOnlineStore(client, log, "stock-predictor:", "stock_features")
			err := store.Put(context.Background(), featurev1.StockFeaturesV0, testRow(), featurev1.StockFeaturesV0.TTL)
			tc.assertFn(t, err)
		})
	}
}
