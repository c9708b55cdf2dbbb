package v1

import "context"

//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock

// Tracker records runs, their params, metrics and artifacts.
type Tracker interface {
	StartRun(ctx context.Context, experiment string) (Run, error)
	LogParam(ctx context.Context, run Run, key, value string) error
	LogMetric(ctx context.Context, run Run, key string, value float64) error
	LogArtifact(ctx context.Context, run Run, artifactPath, fileName string, data []byte) (string, error)
	EndRun(ctx context.Context, run Run, status RunStatus) error
}

// Registry publishes trained models under a name with increasing versions.
type Registry interface {
	Register(ctx context.Context, name string, run Run, source string, accuracy float64) (*ModelVersion, error)
}

// ReportRepository persists evaluation reports.
type ReportRepository interface {
	Save(ctx context.Context, report *Report) (string, error)
}
