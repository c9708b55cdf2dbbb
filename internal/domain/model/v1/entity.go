package v1

import (
	"time"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/evaluation"
)

// RunStatus is the lifecycle state of a tracking run.
type RunStatus int

// Run statuses, numbered like the tracking file store expects them.
const (
	RunStatusRunning  RunStatus = 1
	RunStatusFinished RunStatus = 3
	RunStatusFailed   RunStatus = 4
)

func (s RunStatus) String() string {
	switch s {
	case RunStatusRunning:
		return "RUNNING"
	case RunStatusFinished:
		return "FINISHED"
	case RunStatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Run is one tracked training execution.
type Run struct {
	ID           string
	Name         string
	ExperimentID string
	Experiment   string
	ArtifactURI  string
	StartTime    time.Time
}

// ModelURI returns the run-relative URI of a logged model artifact.
func (r Run) ModelURI(artifactPath string) string {
	return "runs:/" + r.ID + "/" + artifactPath
}

// ModelVersion is a registered model version.
type ModelVersion struct {
	Name         string
	Version      int64
	RunID        string
	Source       string
	Accuracy     float64
	RegisteredAt time.Time
}

// Report is the evaluation summary written after training.
type Report struct {
	Version              string             `json:"version"`
	Accuracy             float64            `json:"accuracy"`
	BestParams           map[string]int     `json:"best_params"`
	TrainSize            int                `json:"train_size"`
	TestSize             int                `json:"test_size"`
	ConfusionMatrix      [][]int            `json:"confusion_matrix"`
	ClassificationReport evaluation.Report  `json:"classification_report"`
	FeatureImportance    map[string]float64 `json:"feature_importance"`
}

// TrainResult is what a training run produced.
type TrainResult struct {
	Report       *Report
	Run          Run
	ModelVersion *ModelVersion
	ReportPath   string
}
