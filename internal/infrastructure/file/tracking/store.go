// Package tracking implements an experiment tracker on a local directory tree
// laid out as <root>/<experiment id>/<run id>/{meta.yaml,params,metrics,artifacts}.
package tracking

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	modelv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/util"
)

const (
	metaFile       = "meta.yaml"
	paramsDir      = "params"
	metricsDir     = "metrics"
	artifactsDir   = "artifacts"
	lifecycleAlive = "active"

	// defaultExperimentID is never handed out to named experiments.
	defaultExperimentID = 0
)

type experimentMeta struct {
	ArtifactLocation string `yaml:"artifact_location"`
	CreationTime     int64  `yaml:"creation_time"`
	ExperimentID     string `yaml:"experiment_id"`
	LastUpdateTime   int64  `yaml:"last_update_time"`
	LifecycleStage   string `yaml:"lifecycle_stage"`
	Name             string `yaml:"name"`
}

type runMeta struct {
	ArtifactURI    string `yaml:"artifact_uri"`
	EndTime        *int64 `yaml:"end_time"`
	ExperimentID   string `yaml:"experiment_id"`
	LifecycleStage string `yaml:"lifecycle_stage"`
	RunID          string `yaml:"run_id"`
	RunName        string `yaml:"run_name"`
	RunUUID        string `yaml:"run_uuid"`
	SourceName     string `yaml:"source_name"`
	StartTime      int64  `yaml:"start_time"`
	Status         int    `yaml:"status"`
	UserID         string `yaml:"user_id"`
}

// Store is a file-backed tracker. It is safe for concurrent use within one process.
type Store struct {
	root string
	now  func() time.Time
	mu   sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a tracker rooted at dir.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{root: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Store implements Tracker interface
var _ modelv1.Tracker = (*Store)(nil)

// StartRun creates a run in the named experiment, creating the experiment on first use.
func (s *Store) StartRun(ctx context.Context, experiment string) (modelv1.Run, error) {
	if err := ctx.Err(); err != nil {
		return modelv1.Run{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expID, err := s.experimentID(experiment)
	if err != nil {
		return modelv1.Run{}, err
	}

	now := s.now()
	id := util.GenerateHex()
	runDir := filepath.Join(s.root, expID, id)
	for _, dir := range []string{paramsDir, metricsDir, artifactsDir} {
		if err := os.MkdirAll(filepath.Join(runDir, dir), 0o755); err != nil {
			return modelv1.Run{}, fmt.Errorf("failed to create run directory: %w", err)
		}
	}

	run := modelv1.Run{
		ID:           id,
		Name:         fmt.Sprintf("%s-%s", experiment, id[:8]),
		ExperimentID: expID,
		Experiment:   experiment,
		ArtifactURI:  filepath.Join(runDir, artifactsDir),
		StartTime:    now,
	}

	meta := runMeta{
		ArtifactURI:    run.ArtifactURI,
		ExperimentID:   expID,
		LifecycleStage: lifecycleAlive,
		RunID:          id,
		RunName:        run.Name,
		RunUUID:        id,
		SourceName:     os.Args[0],
		StartTime:      now.UnixMilli(),
		Status:         int(modelv1.RunStatusRunning),
		UserID:         os.Getenv("USER"),
	}
	if err := writeYAML(filepath.Join(runDir, metaFile), meta); err != nil {
		return modelv1.Run{}, err
	}
	return run, nil
}

// LogParam records a run parameter. Parameters are write-once.
func (s *Store) LogParam(ctx context.Context, run modelv1.Run, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	path := filepath.Join(s.runDir(run), paramsDir, key)
	if existing, err := os.ReadFile(path); err == nil {
		if string(existing) == value {
			return nil
		}
		return fmt.Errorf("param %s already logged with value %q", key, existing)
	}
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to log param %s: %w", key, err)
	}
	return nil
}

// LogMetric appends a "<unix ms> <value> <step>" line to the metric history.
func (s *Store) LogMetric(ctx context.Context, run modelv1.Run, key string, value float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.runDir(run), metricsDir, key)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open metric %s: %w", key, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%d %s 0\n", s.now().UnixMilli(), strconv.FormatFloat(value, 'g', -1, 64))
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to log metric %s: %w", key, err)
	}
	return nil
}

// LogArtifact stores data as artifacts/<artifactPath>/<fileName> and returns
// the path relative to the artifact root.
func (s *Store) LogArtifact(ctx context.Context, run modelv1.Run, artifactPath, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := filepath.Join(artifactPath, fileName)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("artifact path %q escapes the run", rel)
	}

	dir := filepath.Join(s.runDir(run), artifactsDir, artifactPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// EndRun marks the run terminated with status.
func (s *Store) EndRun(ctx context.Context, run modelv1.Run, status modelv1.RunStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.runDir(run), metaFile)
	var meta runMeta
	if err := readYAML(path, &meta); err != nil {
		return err
	}

	end := s.now().UnixMilli()
	meta.EndTime = &end
	meta.Status = int(status)
	return writeYAML(path, meta)
}

func (s *Store) runDir(run modelv1.Run) string {
	return filepath.Join(s.root, run.ExperimentID, run.ID)
}

// experimentID finds the experiment called name or creates it with the next free id.
func (s *Store) experimentID(name string) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create tracking directory: %w", err)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return "", fmt.Errorf("failed to list experiments: %w", err)
	}

	next := defaultExperimentID + 1
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if id >= next {
			next = id + 1
		}

		var meta experimentMeta
		if err := readYAML(filepath.Join(s.root, entry.Name(), metaFile), &meta); err != nil {
			continue
		}
		if meta.Name == name && meta.LifecycleStage == lifecycleAlive {
			return entry.Name(), nil
		}
	}

	id := strconv.Itoa(next)
	dir := filepath.Join(s.root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create experiment: %w", err)
	}

	now := s.now().UnixMilli()
	meta := experimentMeta{
		ArtifactLocation: dir,
		CreationTime:     now,
		ExperimentID:     id,
		LastUpdateTime:   now,
		LifecycleStage:   lifecycleAlive,
		Name:             name,
	}
	if err := writeYAML(filepath.Join(dir, metaFile), meta); err != nil {
		return "", err
	}
	return id, nil
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid tracking key %q", key)
	}
	return nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
