package model

import (
	"context"

	modelv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model/v1"
)

// Usecase is the interface for training and publishing the classifier.
type Usecase interface {
	Train(ctx context.Context, version string) (*modelv1.TrainResult, error)
}
