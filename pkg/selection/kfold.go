// Package selection holds cross-validation and hyper-parameter search helpers.
package selection

import (
	"fmt"
	"sort"
)

// Fold is one train/test partition of sample indices.
type Fold struct {
	Train []int
	Test  []int
}

// StratifiedKFold splits samples into k folds that keep the class ratio of y.
// Samples are not shuffled: within each class, the first samples go to fold 0,
// the next to fold 1 and so on, with fold sizes per class allocated by dealing
// the class-sorted labels round robin across folds.
func StratifiedKFold(y []int, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("number of folds must be at least 2, got %d", k)
	}
	if k > len(y) {
		return nil, fmt.Errorf("cannot have number of folds %d greater than the number of samples %d", k, len(y))
	}

	// classes numbered by first appearance
	order := map[int]int{}
	encoded := make([]int, len(y))
	for i, label := range y {
		code, ok := order[label]
		if !ok {
			code = len(order)
			order[label] = code
		}
		encoded[i] = code
	}
	nClasses := len(order)

	counts := make([]int, nClasses)
	for _, c := range encoded {
		counts[c]++
	}
	tooSmall := true
	for _, c := range counts {
		if c >= k {
			tooSmall = false
		}
	}
	if tooSmall {
		return nil, fmt.Errorf("number of folds %d cannot be greater than the number of members in each class", k)
	}

	sorted := append([]int(nil), encoded...)
	sort.Ints(sorted)

	// allocation[f][c] is how many samples of class c fold f tests on
	allocation := make([][]int, k)
	for f := range k {
		allocation[f] = make([]int, nClasses)
		for i := f; i < len(sorted); i += k {
			allocation[f][sorted[i]]++
		}
	}

	testFold := make([]int, len(y))
	next := make([]int, nClasses)
	used := make([]int, nClasses)
	for i, c := range encoded {
		for used[c] >= allocation[next[c]][c] {
			next[c]++
			used[c] = 0
		}
		testFold[i] = next[c]
		used[c]++
	}

	folds := make([]Fold, k)
	for i, f := range testFold {
		for j := range folds {
			if j == f {
				folds[j].Test = append(folds[j].Test, i)
			} else {
				folds[j].Train = append(folds[j].Train, i)
			}
		}
	}
	return folds, nil
}
