// Package evaluation scores classifier predictions.
package evaluation

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Accuracy is the fraction of predictions equal to the truth. Empty input scores 0.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// ConfusionMatrix counts predictions per (true, predicted) label pair. Rows are
// true labels and columns predicted labels, both in labels order. Pairs with a
// label outside labels are ignored.
func ConfusionMatrix(yTrue, yPred, labels []int) [][]int {
	index := make(map[int]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	matrix := make([][]int, len(labels))
	for i := range matrix {
		matrix[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		t, okT := index[yTrue[i]]
		p, okP := index[yPred[i]]
		if okT && okP {
			matrix[t][p]++
		}
	}
	return matrix
}

// ClassMetrics holds the scores of one class or one average.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// Report is a per-class precision/recall/f1 breakdown. It serializes as
// {"<label>": {...}, "accuracy": x, "macro avg": {...}, "weighted avg": {...}}.
type Report struct {
	Labels      []int
	Classes     map[int]ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
}

// Class returns the metrics of a label.
func (r Report) Class(label int) ClassMetrics {
	return r.Classes[label]
}

// MarshalJSON implements json.Marshaler.
func (r Report) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Classes)+3)
	for label, m := range r.Classes {
		out[strconv.Itoa(label)] = m
	}
	out["accuracy"] = r.Accuracy
	out["macro avg"] = r.MacroAvg
	out["weighted avg"] = r.WeightedAvg
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Report) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Classes = make(map[int]ClassMetrics)
	r.Labels = nil
	for key, value := range raw {
		var err error
		switch key {
		case "accuracy":
			err = json.Unmarshal(value, &r.Accuracy)
		case "macro avg":
			err = json.Unmarshal(value, &r.MacroAvg)
		case "weighted avg":
			err = json.Unmarshal(value, &r.WeightedAvg)
		default:
			label, convErr := strconv.Atoi(key)
			if convErr != nil {
				return fmt.Errorf("unexpected report key %q", key)
			}
			var m ClassMetrics
			err = json.Unmarshal(value, &m)
			r.Classes[label] = m
			r.Labels = append(r.Labels, label)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ClassificationReport computes precision, recall and f1 per label plus the
// macro and support-weighted averages. A zero denominator scores 0.
func ClassificationReport(yTrue, yPred, labels []int) Report {
	matrix := ConfusionMatrix(yTrue, yPred, labels)

	report := Report{
		Labels:   labels,
		Classes:  make(map[int]ClassMetrics, len(labels)),
		Accuracy: Accuracy(yTrue, yPred),
	}

	total := 0
	for i, label := range labels {
		tp := matrix[i][i]
		predicted, support := 0, 0
		for j := range labels {
			predicted += matrix[j][i]
			support += matrix[i][j]
		}

		m := ClassMetrics{
			Precision: safeDiv(float64(tp), float64(predicted)),
			Recall:    safeDiv(float64(tp), float64(support)),
			Support:   support,
		}
		m.F1Score = safeDiv(2*m.Precision*m.Recall, m.Precision+m.Recall)
		report.Classes[label] = m

		report.MacroAvg.Precision += m.Precision
		report.MacroAvg.Recall += m.Recall
		report.MacroAvg.F1Score += m.F1Score
		report.WeightedAvg.Precision += m.Precision * float64(support)
		report.WeightedAvg.Recall += m.Recall * float64(support)
		report.WeightedAvg.F1Score += m.F1Score * float64(support)
		total += support
	}

	n := float64(len(labels))
	report.MacroAvg.Precision = safeDiv(report.MacroAvg.Precision, n)
	report.MacroAvg.Recall = safeDiv(report.MacroAvg.Recall, n)
	report.MacroAvg.F1Score = safeDiv(report.MacroAvg.F1Score, n)
	report.MacroAvg.Support = total

	report.WeightedAvg.Precision = safeDiv(report.WeightedAvg.Precision, float64(total))
	report.WeightedAvg.Recall = safeDiv(report.WeightedAvg.Recall, float64(total))
	report.WeightedAvg.F1Score = safeDiv(report.WeightedAvg.F1Score, float64(total))
	report.WeightedAvg.Support = total

	return report
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
