package forest

import (
	"math"
	"math/rand/v2"
	"sort"
)

// featureThreshold is the smallest gap between two sorted values that counts
// as a split point.
const featureThreshold = 1e-7

const impurityEpsilon = 1e-12

// Node is a decision tree node. Leaves have Feature == -1.
type Node struct {
	Feature         int       `json:"feature"`
	Threshold       float64   `json:"threshold"`
	Left            int       `json:"left"`
	Right           int       `json:"right"`
	Value           []float64 `json:"value"`
	Impurity        float64   `json:"impurity"`
	Samples         int       `json:"samples"`
	WeightedSamples float64   `json:"weighted_samples"`
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool {
	return n.Feature < 0
}

// Tree is a fitted CART classification tree with gini impurity.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

type treeBuilder struct {
	x               [][]float64
	y               []int
	weights         []float64
	nClasses        int
	nFeatures       int
	maxFeatures     int
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	rng             *rand.Rand
	tree            *Tree
	importances     []float64
}

// split is the best partition found for a node.
type split struct {
	feature     int
	threshold   float64
	pos         int
	improvement float64
	found       bool
}

func (b *treeBuilder) build(samples []int) {
	b.tree = &Tree{}
	b.importances = make([]float64, b.nFeatures)
	b.grow(samples, 0)

	rootWeight := b.tree.Nodes[0].WeightedSamples
	total := 0.0
	for i := range b.importances {
		if rootWeight > 0 {
			b.importances[i] /= rootWeight
		}
		total += b.importances[i]
	}
	if total > 0 {
		for i := range b.importances {
			b.importances[i] /= total
		}
	}
}

// grow adds the subtree over samples and returns its node index.
func (b *treeBuilder) grow(samples []int, depth int) int {
	counts := b.classWeights(samples)
	weighted := sum(counts)
	impurity := gini(counts, weighted)

	idx := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{
		Feature:         -1,
		Value:           normalize(counts, weighted),
		Impurity:        impurity,
		Samples:         len(samples),
		WeightedSamples: weighted,
	})

	isLeaf := (b.maxDepth > 0 && depth >= b.maxDepth) ||
		len(samples) < b.minSamplesSplit ||
		len(samples) < 2*b.minSamplesLeaf ||
		impurity <= impurityEpsilon
	if isLeaf {
		return idx
	}

	best := b.bestSplit(samples, weighted)
	if !best.found {
		return idx
	}

	sortByFeature(samples, b.x, best.feature)
	left := append([]int(nil), samples[:best.pos]...)
	right := append([]int(nil), samples[best.pos:]...)

	leftIdx := b.grow(left, depth+1)
	rightIdx := b.grow(right, depth+1)

	node := &b.tree.Nodes[idx]
	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = leftIdx
	node.Right = rightIdx

	l, r := b.tree.Nodes[leftIdx], b.tree.Nodes[rightIdx]
	b.importances[best.feature] += weighted*impurity - l.WeightedSamples*l.Impurity - r.WeightedSamples*r.Impurity

	return idx
}

// bestSplit scans features in random order. Constant features are skipped
// without counting towards maxFeatures, and the scan continues past
// maxFeatures until a valid split exists.
func (b *treeBuilder) bestSplit(samples []int, weighted float64) split {
	best := split{improvement: math.Inf(-1)}
	visited := 0

	for _, f := range b.rng.Perm(b.nFeatures) {
		if visited >= b.maxFeatures && best.found {
			break
		}

		sortByFeature(samples, b.x, f)
		if b.x[samples[len(samples)-1]][f] <= b.x[samples[0]][f]+featureThreshold {
			continue
		}
		visited++

		candidate := b.scanFeature(samples, f, weighted)
		if candidate.found && candidate.improvement > best.improvement {
			best = candidate
		}
	}
	return best
}

// scanFeature evaluates every split point of samples, already sorted by f.
func (b *treeBuilder) scanFeature(samples []int, f int, weighted float64) split {
	best := split{feature: f, improvement: math.Inf(-1)}

	total := b.classWeights(samples)
	left := make([]float64, b.nClasses)
	right := make([]float64, b.nClasses)
	copy(right, total)
	leftWeight := 0.0

	n := len(samples)
	for p := 0; p < n-1; p++ {
		s := samples[p]
		w := b.weights[s]
		left[b.y[s]] += w
		right[b.y[s]] -= w
		leftWeight += w

		cur, next := b.x[s][f], b.x[samples[p+1]][f]
		if next <= cur+featureThreshold {
			continue
		}
		pos := p + 1
		if pos < b.minSamplesLeaf || n-pos < b.minSamplesLeaf {
			continue
		}

		rightWeight := weighted - leftWeight
		if leftWeight <= 0 || rightWeight <= 0 {
			continue
		}

		// proxy: maximizing it minimizes the weighted child impurity
		improvement := -(leftWeight*gini(left, leftWeight) + rightWeight*gini(right, rightWeight))
		if improvement > best.improvement {
			threshold := cur/2 + next/2
			if threshold == next || math.IsInf(threshold, 0) || math.IsNaN(threshold) {
				threshold = cur
			}
			best = split{feature: f, threshold: threshold, pos: pos, improvement: improvement, found: true}
		}
	}
	return best
}

func (b *treeBuilder) classWeights(samples []int) []float64 {
	counts := make([]float64, b.nClasses)
	for _, s := range samples {
		counts[b.y[s]] += b.weights[s]
	}
	return counts
}

// predict returns the class distribution of the leaf x falls into.
func (t *Tree) predict(x []float64) []float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.IsLeaf() {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// Depth returns the length of the longest root to leaf path.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		node := t.Nodes[i]
		if node.IsLeaf() {
			return 0
		}
		return 1 + max(walk(node.Left), walk(node.Right))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0)
}

func sortByFeature(samples []int, x [][]float64, f int) {
	sort.SliceStable(samples, func(i, j int) bool {
		return x[samples[i]][f] < x[samples[j]][f]
	})
}

func gini(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := c / total
		g -= p * p
	}
	return g
}

func normalize(counts []float64, total float64) []float64 {
	out := make([]float64, len(counts))
	if total <= 0 {
		return out
	}
	for i, c := range counts {
		out[i] = c / total
	}
	return out
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
