package tracking

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	modelv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model/v1"
)

func fixedClock() func() time.Time {
	ts := time.UnixMilli(1700000000000)
	return func() time.Time { return ts }
}

func TestStore_RunLifecycle(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewStore(root, WithClock(fixedClock()))

	run, err := store.StartRun(ctx, "stock_prediction_v0")
	require.NoError(t, err)
	assert.Equal(t, "1", run.ExperimentID)
	assert.Len(t, run.ID, 32)
	assert.Equal(t, "stock_prediction_v0", run.Experiment)

	require.NoError(t, store.LogParam(ctx, run, "max_depth", "10"))
	require.NoError(t, store.LogMetric(ctx, run, "accuracy", 0.5))
	require.NoError(t, store.LogMetric(ctx, run, "accuracy", 0.75))

	rel, err := store.LogArtifact(ctx, run, "model", "model.json", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "model/model.json", rel)

	require.NoError(t, store.EndRun(ctx, run, modelv1.RunStatusFinished))

	runDir := filepath.Join(root, "1", run.ID)

	param, err := os.ReadFile(filepath.Join(runDir, "params", "max_depth"))
	require.NoError(t, err)
	assert.Equal(t, "10", string(param))

	metric, err := os.ReadFile(filepath.Join(runDir, "metrics", "accuracy"))
	require.NoError(t, err)
	assert.Equal(t, "1700000000000 0.5 0\n1700000000000 0.75 0\n", string(metric))

	_, err = os.Stat(filepath.Join(runDir, "artifacts", "model", "model.json"))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(runDir, "meta.yaml"))
	require.NoError(t, err)
	var meta runMeta
	require.NoError(t, yaml.Unmarshal(raw, &meta))
	assert.Equal(t, int(modelv1.RunStatusFinished), meta.Status)
	require.NotNil(t, meta.EndTime)
	assert.Equal(t, int64(1700000000000), *meta.EndTime)
	assert.Equal(t, run.ID, meta.RunUUID)
}

func TestStore_ExperimentReuse(t *testing.T) {
	ctx := context.Background()
	store := NewStore(t.TempDir())

	first, err := store.StartRun(ctx, "stock_prediction_v0")
	require.NoError(t, err)
	second, err := store.StartRun(ctx, "stock_prediction_v0")
	require.NoError(t, err)
	other, err := store.StartRun(ctx, "stock_prediction_v1")
	require.NoError(t, err)

	assert.Equal(t, first.ExperimentID, second.ExperimentID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "2", other.ExperimentID)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(t.TempDir())
	run, err := store.StartRun(ctx, "exp")
	require.NoError(t, err)

	testCases := []struct {
		name string
		fn   func() error
	}{
		{
			name: "param rewritten with another value",
			fn: func() error {
				if err := store.LogParam(ctx, run, "seed", "42"); err != nil {
					return err
				}
				return store.LogParam(ctx, run, "seed", "7")
			},
		},
		{
			name: "metric key with separator",
			fn: func() error {
				return store.LogMetric(ctx, run, "a/b", 1)
			},
		},
		{
			name: "artifact outside the run",
			fn: func() error {
				_, err := store.LogArtifact(ctx, run, "..", "x.json", nil)
				return err
			},
		},
		{
			name: "end unknown run",
			fn: func() error {
				return store.EndRun(ctx, modelv1.Run{ID: "missing", ExperimentID: "1"}, modelv1.RunStatusFailed)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.fn())
		})
	}
}
