package model

import (
	"context"
	"testing"
	"time"

	v9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	modelv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	logger_mock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger/mock"
	redis_mock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/redis/mock"
)

func TestRegistry_Register(t *testing.T) {
	run := modelv1.Run{ID: "abc123", ExperimentID: "1"}
	registeredAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	incrErr := errors.NewErrorDetails("Failed to increment counter in Redis", string(errors.RedisIncrError), "incr")

	testCases := []struct {
		name     string
		mockFn   func(client *redis_mock.MockClient, log *logger_mock.MockInterface)
		assertFn func(t *testing.T, mv *modelv1.ModelVersion, err error)
	}{
		{
			name: "register next version",
			mockFn: func(client *redis_mock.MockClient, log *logger_mock.MockInterface) {
				gomock.InOrder(
					client.EXPECT().Incr(gomock.Any(), "sp:models:stock_predictor_v0:version").Return(int64(3), nil),
					client.EXPECT().HSet(gomock.Any(), "sp:models:stock_predictor_v0:versions:3", map[string]any{
						"name":          "stock_predictor_v0",
						"version":       int64(3),
						"run_id":        "abc123",
						"experiment_id": "1",
						"source":        "runs:/abc123/model",
						"accuracy":      0.61,
						"registered_at": "2025-06-01T12:00:00Z",
					}).Return(int64(7), nil),
					client.EXPECT().ZAdd(gomock.Any(), "sp:models:stock_predictor_v0:runs", v9.Z{Score: 3, Member: "abc123"}).Return(int64(1), nil),
				)
				log.EXPECT().InfoContext(gomock.Any(), "model version registered", gomock.Any(), gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, mv *modelv1.ModelVersion, err error) {
				require.NoError(t, err)
				assert.Equal(t, int64(3), mv.Version)
				assert.Equal(t, "runs:/abc123/model", mv.Source)
				assert.Equal(t, registeredAt, mv.RegisteredAt)
			},
		},
		{
			name: "counter failure",
			mockFn: func(client *redis_mock.MockClient, log *logger_mock.MockInterface) {
				client.EXPECT().Incr(gomock.Any(), gomock.Any()).Return(int64(0), incrErr)
				log.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, mv *modelv1.ModelVersion, err error) {
				assert.Nil(t, mv)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisIncrError)))
				assert.Contains(t, err.Error(), string(errors.ModelRegistryError))
			},
		},
		{
			name: "hash failure",
			mockFn: func(client *redis_mock.MockClient, log *logger_mock.MockInterface) {
				client.EXPECT().Incr(gomock.Any(), gomock.Any()).Return(int64(1), nil)
				client.EXPECT().HSet(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), incrErr)
				log.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, mv *modelv1.ModelVersion, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := redis_mock.NewMockClient(ctrl)
			log := logger_mock.NewMockInterface(ctrl)
			tc.mockFn(client, log)

			registry := NewRegistry(client, log, "sp:")
			registry.now = func() time.Time { return registeredAt }

			mv, err := registry.Register(context.Background(), "stock_predictor_v0", run, run.ModelURI("model"), 0.61)
			tc.assertFn(t, mv, err)
		})
	}
}
