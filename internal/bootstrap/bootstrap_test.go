package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	eventInfra "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/kafka/event"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/config"
	logger_mock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger/mock"
	questdb_mock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/questdb/mock"
	redis_mock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/redis/mock"
)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{Session: "nse_equity", DataDir: "data", ProcessedDir: "data/processed", MetricsDir: "."},
		Train: config.TrainConfig{
			TestFraction:    0.2,
			CVFolds:         3,
			Seed:            42,
			TrackingDir:     "mlruns",
			RegisterModel:   true,
			NEstimators:     []int{50},
			MaxDepth:        []int{10},
			MinSamplesSplit: []int{2},
			MinSamplesLeaf:  []int{1},
		},
		FeatureStore: config.FeatureStoreConfig{Project: "stock_features", OfflineEnabled: true, OnlineEnabled: true, BatchSize: 100},
	}
}

func TestBootstrap_Init(t *testing.T) {
	testCases := []struct {
		name     string
		withDB   bool
		session  string
		assertFn func(t *testing.T, b Bootstrap, err error)
	}{
		{
			name:    "file stores only",
			session: "nse_equity",
			assertFn: func(t *testing.T, b Bootstrap, err error) {
				require.NoError(t, err)
				assert.NotNil(t, b.Repository.TickReader)
				assert.NotNil(t, b.Repository.DatasetRepository)
				assert.NotNil(t, b.Repository.Tracker)
				assert.NotNil(t, b.Repository.ReportRepository)
				assert.Nil(t, b.Repository.OfflineStore)
				assert.Nil(t, b.Repository.OnlineStore)
				assert.Nil(t, b.Repository.Registry)
				assert.NotNil(t, b.Usecase.DatasetUsecase)
				assert.NotNil(t, b.Usecase.FeatureUsecase)
				assert.NotNil(t, b.Usecase.ModelUsecase)
			},
		},
		{
			name:    "with databases",
			withDB:  true,
			session: "nse_equity",
			assertFn: func(t *testing.T, b Bootstrap, err error) {
				require.NoError(t, err)
				assert.NotNil(t, b.Repository.OfflineStore)
				assert.NotNil(t, b.Repository.OnlineStore)
				assert.NotNil(t, b.Repository.Registry)
			},
		},
		{
			name:    "unknown session",
			session: "lse",
			assertFn: func(t *testing.T, b Bootstrap, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cfg := testConfig()
			cfg.App.Session = tc.session

			bootstrapConfig := BootstrapConfig{
				Config:    cfg,
				Publisher: eventInfra.NopPublisher{},
				Logger:    logger_mock.NewMockInterface(ctrl),
			}
			if tc.withDB {
				bootstrapConfig.QuestDB = questdb_mock.NewMockQuestDBClient(ctrl)
				bootstrapConfig.Redis = redis_mock.NewMockClient(ctrl)
			}

			b := &Bootstrap{}
			got, err := b.Init(bootstrapConfig)
			tc.assertFn(t, got, err)
		})
	}
}
