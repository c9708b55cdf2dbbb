package dataset

import (
	"context"

	datasetv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/dataset/v1"
)

// Usecase is the interface for building processed datasets.
type Usecase interface {
	Preprocess(ctx context.Context, version string) (*datasetv1.Summary, error)
}
