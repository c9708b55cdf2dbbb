package bootstrap

import (
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/dataset"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model"
	datasetUc "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/usecase/dataset"
	materializeUc "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/usecase/materialize"
	trainUc "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/usecase/train"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/selection"
)

// Usecase is the usecase for the stock pipeline.
type Usecase struct {
	DatasetUsecase dataset.Usecase
	FeatureUsecase feature.Usecase
	ModelUsecase   model.Usecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	b.Usecase.DatasetUsecase = datasetUc.NewUsecase(
		b.Repository.TickReader,
		b.Repository.DatasetRepository,
		b.Publisher,
		b.Session,
		b.Config.App.DataDir,
		b.Logger,
	)

	b.Usecase.FeatureUsecase = materializeUc.NewUsecase(
		b.Repository.DatasetRepository,
		b.Repository.OfflineStore,
		b.Repository.OnlineStore,
		b.Publisher,
		materializeUc.Options{
			OfflineEnabled: b.Config.FeatureStore.OfflineEnabled && b.Repository.OfflineStore != nil,
			OnlineEnabled:  b.Config.FeatureStore.OnlineEnabled && b.Repository.OnlineStore != nil,
			OnlineTTL:      b.Config.FeatureStore.OnlineTTL,
		},
		b.Logger,
	)

	train := b.Config.Train
	b.Usecase.ModelUsecase = trainUc.NewUsecase(
		b.Repository.DatasetRepository,
		b.Repository.Tracker,
		b.Repository.Registry,
		b.Repository.ReportRepository,
		b.Publisher,
		trainUc.Options{
			TestFraction:     train.TestFraction,
			CVFolds:          train.CVFolds,
			Seed:             train.Seed,
			ExperimentPrefix: train.ExperimentPrefix,
			ModelNamePrefix:  train.ModelNamePrefix,
			RegisterModel:    train.RegisterModel && b.Repository.Registry != nil,
			Grid: selection.ParamGrid{
				trainUc.ParamNEstimators:     train.NEstimators,
				trainUc.ParamMaxDepth:        train.MaxDepth,
				trainUc.ParamMinSamplesSplit: train.MinSamplesSplit,
				trainUc.ParamMinSamplesLeaf:  train.MinSamplesLeaf,
			},
			MaxParallel: train.MaxParallelFitting,
		},
		b.Logger,
	)
}
