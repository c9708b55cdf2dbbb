// Package train fits and evaluates the direction classifier on a processed dataset.
package train

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"math"
	"sort"
	"strconv"
	"time"

	datasetv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/dataset/v1"
	eventv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/event/v1"
	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model"
	modelv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/evaluation"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/forest"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/selection"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/util"
)

// Grid parameter names.
const (
	ParamNEstimators     = "n_estimators"
	ParamMaxDepth        = "max_depth"
	ParamMinSamplesSplit = "min_samples_split"
	ParamMinSamplesLeaf  = "min_samples_leaf"
)

// Logged metric names.
const (
	MetricAccuracy   = "accuracy"
	MetricTrainSize  = "train_size"
	MetricTestSize   = "test_size"
	MetricPrecision0 = "precision_0"
	MetricRecall0    = "recall_0"
	MetricPrecision1 = "precision_1"
	MetricRecall1    = "recall_1"
)

const modelArtifactPath = "model"

// labels the report and the confusion matrix are computed over
var labels = []int{0, 1}

// Options configures a training run.
type Options struct {
	TestFraction     float64
	CVFolds          int
	Seed             uint64
	ExperimentPrefix string
	ModelNamePrefix  string
	RegisterModel    bool
	Grid             selection.ParamGrid
	MaxParallel      int
}

// DefaultGrid is the hyper-parameter grid searched when none is configured.
func DefaultGrid() selection.ParamGrid {
	return selection.ParamGrid{
		ParamNEstimators:     {50},
		ParamMaxDepth:        {10},
		ParamMinSamplesSplit: {2},
		ParamMinSamplesLeaf:  {1},
	}
}

// Usecase trains the classifier and records the run.
type Usecase struct {
	datasetRepository featurev1.DatasetRepository
	tracker           modelv1.Tracker
	registry          modelv1.Registry
	reportRepository  modelv1.ReportRepository
	publisher         eventv1.Publisher
	options           Options
	logger            logger.Interface
	now               func() time.Time
}

// NewUsecase creates a new train usecase.
func NewUsecase(
	datasetRepository featurev1.DatasetRepository,
	tracker modelv1.Tracker,
	registry modelv1.Registry,
	reportRepository modelv1.ReportRepository,
	publisher eventv1.Publisher,
	options Options,
	log logger.Interface,
) *Usecase {
	if len(options.Grid) == 0 {
		options.Grid = DefaultGrid()
	}
	return &Usecase{
		datasetRepository: datasetRepository,
		tracker:           tracker,
		registry:          registry,
		reportRepository:  reportRepository,
		publisher:         publisher,
		options:           options,
		logger:            log,
		now:               time.Now,
	}
}

// Ensure Usecase implements model.Usecase interface
var _ model.Usecase = (*Usecase)(nil)

// Train fits the classifier on the processed dataset of version, tracks the
// run, registers the model and writes the evaluation report.
func (u *Usecase) Train(ctx context.Context, version string) (*modelv1.TrainResult, error) {
	if !datasetv1.IsValidVersion(version) {
		return nil, errors.NewErrorDetails(fmt.Sprintf("unknown dataset version %q", version), string(errors.DatasetInvalidVersionError), "version")
	}

	rows, err := u.datasetRepository.Read(ctx, version)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("Data file %s not found. Run preprocessing first.", u.datasetRepository.Path(version)),
			string(errors.GeneralNotFoundError),
			"dataset",
		)
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	u.describe(ctx, rows)

	x := FeatureMatrix(rows, featurev1.TrainingFeatures)
	y := make([]int, len(rows))
	for i, row := range rows {
		y[i] = row.Target
	}

	trainIdx, testIdx := ChronologicalSplit(rows, u.options.TestFraction)
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("cannot split %d rows into non-empty train and test sets", len(rows)),
			string(errors.TrainingError),
			"dataset",
		)
	}
	u.logger.InfoContext(ctx, "chronological split",
		logger.NewField("train_size", len(trainIdx)),
		logger.NewField("test_size", len(testIdx)),
		logger.NewField("train_period", period(rows, trainIdx)),
		logger.NewField("test_period", period(rows, testIdx)),
	)

	xTrain, yTrain := selection.Subset(x, y, trainIdx)
	xTest, yTest := selection.Subset(x, y, testIdx)

	run, err := u.tracker.StartRun(ctx, u.options.ExperimentPrefix+version)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	result := &modelv1.TrainResult{Run: run}
	report, err := u.fitAndLog(ctx, version, run, xTrain, yTrain, xTest, yTest, result)
	status := modelv1.RunStatusFinished
	if err != nil {
		status = modelv1.RunStatusFailed
	}
	if endErr := u.tracker.EndRun(ctx, run, status); endErr != nil {
		u.logger.WarnContext(ctx, "failed to end tracking run", logger.NewField("run_id", run.ID), logger.NewField("error", endErr.Error()))
	}
	if err != nil {
		return nil, err
	}
	report.Version = version
	result.Report = report

	reportPath, err := u.reportRepository.Save(ctx, report)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	result.ReportPath = reportPath
	u.logger.InfoContext(ctx, fmt.Sprintf("Metrics saved to %s", reportPath))

	u.publish(ctx, version, result)
	return result, nil
}

func (u *Usecase) fitAndLog(
	ctx context.Context,
	version string,
	run modelv1.Run,
	xTrain [][]float64, yTrain []int,
	xTest [][]float64, yTest []int,
	result *modelv1.TrainResult,
) (*modelv1.Report, error) {
	search := &selection.GridSearch{
		Grid:    u.options.Grid,
		Folds:   u.options.CVFolds,
		Scorer:  evaluation.Accuracy,
		Factory: u.newEstimator,
	}
	searched, err := search.Fit(ctx, xTrain, yTrain)
	if err != nil {
		return nil, trainingError("grid search failed", err)
	}
	classifier, ok := searched.BestEstimator.(*forest.Classifier)
	if !ok {
		return nil, trainingError("grid search returned an unexpected estimator", fmt.Errorf("%T", searched.BestEstimator))
	}
	u.logger.InfoContext(ctx, "grid search finished",
		logger.NewField("best_params", searched.BestParams),
		logger.NewField("best_score", searched.BestScore),
	)

	predicted, err := classifier.Predict(xTest)
	if err != nil {
		return nil, trainingError("prediction failed", err)
	}

	classReport := evaluation.ClassificationReport(yTest, predicted, labels)
	report := &modelv1.Report{
		Accuracy:             evaluation.Accuracy(yTest, predicted),
		BestParams:           searched.BestParams,
		TrainSize:            len(yTrain),
		TestSize:             len(yTest),
		ConfusionMatrix:      evaluation.ConfusionMatrix(yTest, predicted, labels),
		ClassificationReport: classReport,
		FeatureImportance:    make(map[string]float64, len(featurev1.TrainingFeatures)),
	}
	for i, importance := range classifier.FeatureImportances() {
		report.FeatureImportance[featurev1.TrainingFeatures[i]] = importance
	}

	if err := u.logRun(ctx, run, report, classifier); err != nil {
		return nil, err
	}

	if u.options.RegisterModel {
		result.ModelVersion = u.register(ctx, u.options.ModelNamePrefix+version, run, report.Accuracy)
	}
	return report, nil
}

func (u *Usecase) newEstimator(params map[string]int) (selection.Estimator, error) {
	p := forest.DefaultParams()
	for name, value := range params {
		switch name {
		case ParamNEstimators:
			p.NEstimators = value
		case ParamMaxDepth:
			p.MaxDepth = value
		case ParamMinSamplesSplit:
			p.MinSamplesSplit = value
		case ParamMinSamplesLeaf:
			p.MinSamplesLeaf = value
		default:
			return nil, fmt.Errorf("unknown grid parameter %q", name)
		}
	}
	p.ClassWeight = forest.ClassWeightBalanced
	p.Seed = u.options.Seed
	p.MaxParallel = u.options.MaxParallel
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return forest.New(p), nil
}

func (u *Usecase) logRun(ctx context.Context, run modelv1.Run, report *modelv1.Report, classifier *forest.Classifier) error {
	names := make([]string, 0, len(report.BestParams))
	for name := range report.BestParams {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := u.tracker.LogParam(ctx, run, name, strconv.Itoa(report.BestParams[name])); err != nil {
			return errors.TracerFromError(err)
		}
	}

	class0, class1 := report.ClassificationReport.Class(0), report.ClassificationReport.Class(1)
	metrics := []struct {
		name  string
		value float64
	}{
		{MetricAccuracy, report.Accuracy},
		{MetricTrainSize, float64(report.TrainSize)},
		{MetricTestSize, float64(report.TestSize)},
		{MetricPrecision0, class0.Precision},
		{MetricRecall0, class0.Recall},
		{MetricPrecision1, class1.Precision},
		{MetricRecall1, class1.Recall},
	}
	for _, m := range metrics {
		if err := u.tracker.LogMetric(ctx, run, m.name, m.value); err != nil {
			return errors.TracerFromError(err)
		}
	}

	data, err := json.Marshal(classifier)
	if err != nil {
		return errors.TracerFromError(err)
	}
	if _, err := u.tracker.LogArtifact(ctx, run, modelArtifactPath, "model.json", data); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

// register publishes the model. A failure is logged and leaves the run intact.
func (u *Usecase) register(ctx context.Context, name string, run modelv1.Run, accuracy float64) *modelv1.ModelVersion {
	mv, err := u.registry.Register(ctx, name, run, run.ModelURI(modelArtifactPath), accuracy)
	if err != nil {
		u.logger.WarnContext(ctx, fmt.Sprintf("Model registration failed: %v", err), logger.NewField("model", name))
		return nil
	}
	u.logger.InfoContext(ctx, "model registered", logger.NewField("model", mv.Name), logger.NewField("version", mv.Version))
	return mv
}

func (u *Usecase) describe(ctx context.Context, rows []featurev1.Row) {
	distribution := map[int]int{}
	missing := map[string]int{}
	for _, row := range rows {
		distribution[row.Target]++
		for _, column := range featurev1.Columns {
			if value, ok := row.Feature(column); ok && math.IsNaN(value) {
				missing[column]++
			}
		}
	}
	u.logger.InfoContext(ctx, "dataset loaded",
		logger.NewField("shape", [2]int{len(rows), len(featurev1.Columns)}),
		logger.NewField("columns", featurev1.Columns),
		logger.NewField("target_distribution", distribution),
		logger.NewField("missing_values", missing),
	)
}

func (u *Usecase) publish(ctx context.Context, version string, result *modelv1.TrainResult) {
	attributes := map[string]any{
		"run_id":        result.Run.ID,
		"experiment_id": result.Run.ExperimentID,
		"accuracy":      result.Report.Accuracy,
		"report":        result.ReportPath,
	}
	if result.ModelVersion != nil {
		attributes["model"] = result.ModelVersion.Name
		attributes["model_version"] = result.ModelVersion.Version
	}
	event := eventv1.Event{
		Type:       eventv1.RunCompleted,
		Version:    version,
		RequestID:  util.GetRequestID(ctx),
		OccurredAt: u.now().UTC(),
		Attributes: attributes,
	}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.logger.WarnContext(ctx, "failed to publish run event", logger.NewField("error", err.Error()))
	}
}

func trainingError(message string, err error) error {
	return errors.TracerFromError(errors.NewErrorDetails(
		fmt.Sprintf("%s: %v", message, err),
		string(errors.TrainingError),
		"model",
	))
}

// FeatureMatrix extracts the named features of rows. Missing values are
// carried forward in row order, and values with nothing to carry become 0.
func FeatureMatrix(rows []featurev1.Row, features []string) [][]float64 {
	x := make([][]float64, len(rows))
	last := make([]float64, len(features))
	seen := make([]bool, len(features))
	for i, row := range rows {
		x[i] = make([]float64, len(features))
		for j, name := range features {
			value, _ := row.Feature(name)
			switch {
			case !math.IsNaN(value):
				last[j], seen[j] = value, true
			case seen[j]:
				value = last[j]
			default:
				value = 0
			}
			x[i][j] = value
		}
	}
	return x
}

// ChronologicalSplit orders row indices by timestamp, keeping file order on
// ties, and cuts them at int(n * (1 - testFraction)).
func ChronologicalSplit(rows []featurev1.Row, testFraction float64) (train, test []int) {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return rows[idx[a]].Timestamp.Before(rows[idx[b]].Timestamp)
	})
	cut := int(float64(len(rows)) * (1 - testFraction))
	return idx[:cut], idx[cut:]
}

func period(rows []featurev1.Row, idx []int) string {
	return rows[idx[0]].Timestamp.Format(time.RFC3339) + " to " + rows[idx[len(idx)-1]].Timestamp.Format(time.RFC3339)
}
