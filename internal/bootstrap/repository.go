package bootstrap

import (
	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	modelv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model/v1"
	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
	datasetInfra "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/file/dataset"
	reportInfra "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/file/report"
	tickInfra "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/file/tick"
	trackingInfra "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/file/tracking"
	offlineInfra "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/questdb/feature"
	onlineInfra "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/redis/feature"
	registryInfra "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/redis/model"
)

// Repository is the repository for the stock pipeline. Stores whose client
// is not configured stay nil.
type Repository struct {
	TickReader        tickv1.TickReader
	DatasetRepository featurev1.DatasetRepository
	OfflineStore      featurev1.OfflineStore
	OnlineStore       featurev1.OnlineStore
	Tracker           modelv1.Tracker
	Registry          modelv1.Registry
	ReportRepository  modelv1.ReportRepository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	b.Repository.TickReader = tickInfra.NewReader()
	b.Repository.DatasetRepository = datasetInfra.NewRepository(b.Config.App.ProcessedDir)
	b.Repository.ReportRepository = reportInfra.NewRepository(b.Config.App.MetricsDir)
	b.Repository.Tracker = trackingInfra.NewStore(b.Config.Train.TrackingDir)

	if b.QuestDB != nil {
		b.Repository.OfflineStore = offlineInfra.NewRepository(b.QuestDB, b.Logger, b.Config.FeatureStore.BatchSize)
	}
	if b.Redis != nil {
		b.Repository.OnlineStore = onlineInfra.NewOnlineStore(b.Redis, b.Logger, b.Config.Redis.PrefixKey, b.Config.FeatureStore.Project)
		b.Repository.Registry = registryInfra.NewRegistry(b.Redis, b.Logger, b.Config.Redis.PrefixKey)
	}
}
