package v1

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock

// DatasetRepository persists processed datasets by version.
type DatasetRepository interface {
	Path(version string) string
	Write(ctx context.Context, version string, rows []Row) error
	Read(ctx context.Context, version string) ([]Row, error)
}

// OfflineStore keeps the full history of a feature view.
type OfflineStore interface {
	StoreBatch(ctx context.Context, view FeatureView, rows []Row) (int64, error)
	CountByStock(ctx context.Context, view FeatureView) (map[string]int64, error)
}

// OnlineStore serves the freshest row of every entity key.
type OnlineStore interface {
	Put(ctx context.Context, view FeatureView, row Row, ttl time.Duration) error
}
