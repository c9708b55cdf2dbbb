package model

import (
	"context"
	"strconv"
	"time"

	v9 "github.com/redis/go-redis/v9"

	modelv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/redis"
)

// Registry stores model versions in Redis:
//
//	<prefix>models:<name>:version        counter of the latest version
//	<prefix>models:<name>:versions:<n>   hash describing version n
//	<prefix>models:<name>:runs           sorted set of run ids scored by version
type Registry struct {
	redisclient redis.Client
	logger      logger.Interface
	prefix      string
	now         func() time.Time
}

// NewRegistry creates a Redis backed model registry.
func NewRegistry(redisclient redis.Client, log logger.Interface, prefix string) *Registry {
	return &Registry{
		redisclient: redisclient,
		logger:      log,
		prefix:      prefix,
		now:         time.Now,
	}
}

// Ensure Registry implements Registry interface
var _ modelv1.Registry = (*Registry)(nil)

// Register publishes a new version of the named model built by run.
func (r *Registry) Register(ctx context.Context, name string, run modelv1.Run, source string, accuracy float64) (*modelv1.ModelVersion, error) {
	version, err := r.redisclient.Incr(ctx, redis.Key(r.prefix, "models", name, "version"))
	if err != nil {
		return nil, r.fail(ctx, name, err)
	}

	mv := &modelv1.ModelVersion{
		Name:         name,
		Version:      version,
		RunID:        run.ID,
		Source:       source,
		Accuracy:     accuracy,
		RegisteredAt: r.now().UTC(),
	}

	versionKey := redis.Key(r.prefix, "models", name, "versions", strconv.FormatInt(version, 10))
	if _, err := r.redisclient.HSet(ctx, versionKey, map[string]any{
		"name":          mv.Name,
		"version":       mv.Version,
		"run_id":        mv.RunID,
		"experiment_id": run.ExperimentID,
		"source":        mv.Source,
		"accuracy":      mv.Accuracy,
		"registered_at": mv.RegisteredAt.Format(time.RFC3339),
	}); err != nil {
		return nil, r.fail(ctx, name, err)
	}

	if _, err := r.redisclient.ZAdd(ctx, redis.Key(r.prefix, "models", name, "runs"), v9.Z{
		Score:  float64(version),
		Member: run.ID,
	}); err != nil {
		return nil, r.fail(ctx, name, err)
	}

	r.logger.InfoContext(ctx, "model version registered",
		logger.NewField("model", name),
		logger.NewField("version", version),
		logger.NewField("run_id", run.ID),
	)
	return mv, nil
}

func (r *Registry) fail(ctx context.Context, name string, err error) error {
	tracer := errors.NewTracer(string(errors.ModelRegistryError)).Wrap(err)
	r.logger.ErrorContext(ctx, tracer, logger.NewField("model", name))
	return tracer
}
