package feature

import (
	"context"

	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
)

// Usecase is the interface for pushing processed datasets into the feature stores.
type Usecase interface {
	Materialize(ctx context.Context, version string) (*featurev1.MaterializeSummary, error)
}
