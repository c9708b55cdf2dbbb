package selection

import (
	"context"
	"fmt"
	"sort"
)

// ParamGrid maps a parameter name to the values to try.
type ParamGrid map[string][]int

// Combinations expands the grid into every parameter assignment. Names are
// iterated in sorted order with the last name varying fastest.
func (g ParamGrid) Combinations() []map[string]int {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	combos := []map[string]int{{}}
	for _, name := range names {
		var expanded []map[string]int
		for _, base := range combos {
			for _, v := range g[name] {
				combo := make(map[string]int, len(base)+1)
				for k, bv := range base {
					combo[k] = bv
				}
				combo[name] = v
				expanded = append(expanded, combo)
			}
		}
		combos = expanded
	}
	return combos
}

// Estimator is a classifier that can be cross-validated.
type Estimator interface {
	Fit(ctx context.Context, x [][]float64, y []int) error
	Predict(x [][]float64) ([]int, error)
}

// EstimatorFactory builds an unfitted estimator for a parameter assignment.
type EstimatorFactory func(params map[string]int) (Estimator, error)

// Scorer rates predictions, higher is better.
type Scorer func(yTrue, yPred []int) float64

// CVResult is the cross-validation outcome of one parameter assignment.
type CVResult struct {
	Params     map[string]int
	FoldScores []float64
	MeanScore  float64
}

// SearchResult is the outcome of a grid search. BestEstimator is refitted on
// all the samples with BestParams.
type SearchResult struct {
	BestParams    map[string]int
	BestScore     float64
	BestEstimator Estimator
	Results       []CVResult
}

// GridSearch scores every grid assignment with stratified k-fold cross-validation.
type GridSearch struct {
	Grid    ParamGrid
	Folds   int
	Scorer  Scorer
	Factory EstimatorFactory
}

// Fit runs the search on x and y. The first assignment with the highest mean
// fold score wins.
func (s *GridSearch) Fit(ctx context.Context, x [][]float64, y []int) (*SearchResult, error) {
	folds, err := StratifiedKFold(y, s.Folds)
	if err != nil {
		return nil, err
	}

	combos := s.Grid.Combinations()
	if len(combos) == 0 {
		return nil, fmt.Errorf("empty parameter grid")
	}

	result := &SearchResult{}
	bestIdx := -1
	for _, params := range combos {
		cv := CVResult{Params: params}
		for _, fold := range folds {
			score, err := s.scoreFold(ctx, params, x, y, fold)
			if err != nil {
				return nil, err
			}
			cv.FoldScores = append(cv.FoldScores, score)
			cv.MeanScore += score
		}
		cv.MeanScore /= float64(len(folds))
		result.Results = append(result.Results, cv)

		if bestIdx < 0 || cv.MeanScore > result.Results[bestIdx].MeanScore {
			bestIdx = len(result.Results) - 1
		}
	}

	best := result.Results[bestIdx]
	estimator, err := s.Factory(best.Params)
	if err != nil {
		return nil, err
	}
	if err := estimator.Fit(ctx, x, y); err != nil {
		return nil, err
	}

	result.BestParams = best.Params
	result.BestScore = best.MeanScore
	result.BestEstimator = estimator
	return result, nil
}

func (s *GridSearch) scoreFold(ctx context.Context, params map[string]int, x [][]float64, y []int, fold Fold) (float64, error) {
	estimator, err := s.Factory(params)
	if err != nil {
		return 0, err
	}

	xTrain, yTrain := Subset(x, y, fold.Train)
	if err := estimator.Fit(ctx, xTrain, yTrain); err != nil {
		return 0, err
	}

	xTest, yTest := Subset(x, y, fold.Test)
	pred, err := estimator.Predict(xTest)
	if err != nil {
		return 0, err
	}
	return s.Scorer(yTest, pred), nil
}

// Subset selects rows of x and y by index.
func Subset(x [][]float64, y []int, idx []int) ([][]float64, []int) {
	xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
