// Package forest implements a bagged ensemble of CART classification trees.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ClassWeight selects how samples are weighted per class.
type ClassWeight string

const (
	// ClassWeightNone gives every sample weight 1.
	ClassWeightNone ClassWeight = ""
	// ClassWeightBalanced weights classes by n_samples / (n_classes * class_count).
	ClassWeightBalanced ClassWeight = "balanced"
)

// Params configures a Classifier.
type Params struct {
	NEstimators     int         `json:"n_estimators"`
	MaxDepth        int         `json:"max_depth"`
	MinSamplesSplit int         `json:"min_samples_split"`
	MinSamplesLeaf  int         `json:"min_samples_leaf"`
	MaxFeatures     int         `json:"max_features"`
	ClassWeight     ClassWeight `json:"class_weight"`
	Bootstrap       bool        `json:"bootstrap"`
	Seed            uint64      `json:"seed"`
	MaxParallel     int         `json:"-"`
}

// DefaultParams returns 100 fully grown bootstrapped trees with sqrt(n_features) candidates per split.
func DefaultParams() Params {
	return Params{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
	}
}

// Validate checks the params before fitting.
func (p Params) Validate() error {
	switch {
	case p.NEstimators < 1:
		return fmt.Errorf("n_estimators must be at least 1, got %d", p.NEstimators)
	case p.MaxDepth < 0:
		return fmt.Errorf("max_depth must not be negative, got %d", p.MaxDepth)
	case p.MinSamplesSplit < 2:
		return fmt.Errorf("min_samples_split must be at least 2, got %d", p.MinSamplesSplit)
	case p.MinSamplesLeaf < 1:
		return fmt.Errorf("min_samples_leaf must be at least 1, got %d", p.MinSamplesLeaf)
	case p.MaxFeatures < 0:
		return fmt.Errorf("max_features must not be negative, got %d", p.MaxFeatures)
	case p.ClassWeight != ClassWeightNone && p.ClassWeight != ClassWeightBalanced:
		return fmt.Errorf("unsupported class_weight %q", p.ClassWeight)
	}
	return nil
}

// ErrNotFitted is returned when predicting with an unfitted classifier.
var ErrNotFitted = errors.New("forest: classifier is not fitted")

// Classifier is a random forest classifier.
type Classifier struct {
	Params      Params    `json:"params"`
	Classes     []int     `json:"classes"`
	NFeatures   int       `json:"n_features"`
	Trees       []*Tree   `json:"trees"`
	Importances []float64 `json:"feature_importances"`
}

// New creates an unfitted classifier.
func New(params Params) *Classifier {
	return &Classifier{Params: params}
}

// Fit grows the trees on x (rows of features) and labels y. Trees are grown
// concurrently; each tree draws from its own generator seeded by Seed and the
// tree index, so results do not depend on scheduling.
func (c *Classifier) Fit(ctx context.Context, x [][]float64, y []int) error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if len(x) == 0 {
		return errors.New("forest: no samples to fit")
	}
	if len(x) != len(y) {
		return fmt.Errorf("forest: %d samples but %d labels", len(x), len(y))
	}

	nFeatures := len(x[0])
	for i, row := range x {
		if len(row) != nFeatures {
			return fmt.Errorf("forest: row %d has %d features, expected %d", i, len(row), nFeatures)
		}
		for _, v := range row {
			if math.IsNaN(v) {
				return fmt.Errorf("forest: row %d contains NaN", i)
			}
		}
	}

	classes, encoded := encodeLabels(y)
	sampleWeight := c.sampleWeights(encoded, len(classes))

	maxFeatures := c.Params.MaxFeatures
	if maxFeatures == 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(nFeatures))))
	}
	maxFeatures = min(maxFeatures, nFeatures)

	trees := make([]*Tree, c.Params.NEstimators)
	importances := make([][]float64, c.Params.NEstimators)

	limit := c.Params.MaxParallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(c.Params.Seed, uint64(i)))
			weights, samples := c.drawSamples(rng, sampleWeight)

			b := &treeBuilder{
				x:               x,
				y:               encoded,
				weights:         weights,
				nClasses:        len(classes),
				nFeatures:       nFeatures,
				maxFeatures:     maxFeatures,
				maxDepth:        c.Params.MaxDepth,
				minSamplesSplit: c.Params.MinSamplesSplit,
				minSamplesLeaf:  c.Params.MinSamplesLeaf,
				rng:             rng,
			}
			b.build(samples)

			trees[i] = b.tree
			importances[i] = b.importances
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.Classes = classes
	c.NFeatures = nFeatures
	c.Trees = trees
	c.Importances = averageImportances(importances, nFeatures)
	return nil
}

// drawSamples returns the per-sample weights of one tree and the indices with
// a positive weight. With bootstrap the weight is multiplied by how often the
// sample was drawn.
func (c *Classifier) drawSamples(rng *rand.Rand, sampleWeight []float64) ([]float64, []int) {
	n := len(sampleWeight)
	weights := make([]float64, n)
	if !c.Params.Bootstrap {
		copy(weights, sampleWeight)
	} else {
		for range n {
			weights[rng.IntN(n)]++
		}
		for i := range weights {
			weights[i] *= sampleWeight[i]
		}
	}

	samples := make([]int, 0, n)
	for i, w := range weights {
		if w > 0 {
			samples = append(samples, i)
		}
	}
	return weights, samples
}

func (c *Classifier) sampleWeights(encoded []int, nClasses int) []float64 {
	weights := make([]float64, len(encoded))
	if c.Params.ClassWeight != ClassWeightBalanced {
		for i := range weights {
			weights[i] = 1
		}
		return weights
	}

	counts := make([]int, nClasses)
	for _, k := range encoded {
		counts[k]++
	}
	classWeight := make([]float64, nClasses)
	for k, n := range counts {
		classWeight[k] = float64(len(encoded)) / float64(nClasses*n)
	}
	for i, k := range encoded {
		weights[i] = classWeight[k]
	}
	return weights
}

// PredictProba returns the mean class distribution of the trees per row,
// columns in Classes order.
func (c *Classifier) PredictProba(x [][]float64) ([][]float64, error) {
	if len(c.Trees) == 0 {
		return nil, ErrNotFitted
	}

	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != c.NFeatures {
			return nil, fmt.Errorf("forest: row %d has %d features, expected %d", i, len(row), c.NFeatures)
		}
		proba := make([]float64, len(c.Classes))
		for _, t := range c.Trees {
			for k, p := range t.predict(row) {
				proba[k] += p
			}
		}
		for k := range proba {
			proba[k] /= float64(len(c.Trees))
		}
		out[i] = proba
	}
	return out, nil
}

// Predict returns the most probable class per row. Ties go to the smaller label.
func (c *Classifier) Predict(x [][]float64) ([]int, error) {
	proba, err := c.PredictProba(x)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(proba))
	for i, p := range proba {
		best := 0
		for k := 1; k < len(p); k++ {
			if p[k] > p[best] {
				best = k
			}
		}
		out[i] = c.Classes[best]
	}
	return out, nil
}

// FeatureImportances returns the mean decrease in impurity per feature,
// normalized to sum to 1. All zeros when no tree split.
func (c *Classifier) FeatureImportances() []float64 {
	return append([]float64(nil), c.Importances...)
}

func averageImportances(perTree [][]float64, nFeatures int) []float64 {
	out := make([]float64, nFeatures)
	for _, imp := range perTree {
		for f, v := range imp {
			out[f] += v
		}
	}
	total := 0.0
	for f := range out {
		out[f] /= float64(len(perTree))
		total += out[f]
	}
	if total > 0 {
		for f := range out {
			out[f] /= total
		}
	}
	return out
}

// encodeLabels maps labels to 0..k-1 in ascending label order.
func encodeLabels(y []int) ([]int, []int) {
	seen := map[int]struct{}{}
	for _, v := range y {
		seen[v] = struct{}{}
	}
	classes := make([]int, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Ints(classes)

	index := make(map[int]int, len(classes))
	for i, v := range classes {
		index[v] = i
	}
	encoded := make([]int, len(y))
	for i, v := range y {
		encoded[i] = index[v]
	}
	return classes, encoded
}
