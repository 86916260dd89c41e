// Package scores computes standard binary classification metrics. Zero
// denominators resolve to 0.0 by policy, never to an error, so downstream
// fairness reports always carry usable numbers.
package scores

import "faircheck/internal/bias"

// Calculator implements bias.ScoreProvider with direct confusion-matrix
// arithmetic.
type Calculator struct{}

func New() *Calculator { return &Calculator{} }

// counts tallies the confusion matrix for parallel prediction/label slices.
// Any prediction or label other than 1 is treated as the negative class.
func counts(preds, labels []int) (tp, fp, tn, fn int) {
	for i := range preds {
		switch {
		case preds[i] == 1 && labels[i] == 1:
			tp++
		case preds[i] == 1 && labels[i] != 1:
			fp++
		case preds[i] != 1 && labels[i] == 1:
			fn++
		default:
			tn++
		}
	}
	return tp, fp, tn, fn
}

func safeDiv(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Overall returns accuracy, precision, recall and F1 over the whole set.
func (c *Calculator) Overall(preds, labels []int) bias.OverallMetrics {
	tp, fp, tn, fn := counts(preds, labels)

	precision := safeDiv(tp, tp+fp)
	recall := safeDiv(tp, tp+fn)

	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return bias.OverallMetrics{
		Accuracy:  safeDiv(tp+tn, tp+fp+tn+fn),
		Precision: precision,
		Recall:    recall,
		F1:        f1,
	}
}

// Group returns the accuracy, precision and recall for one group's examples.
func (c *Calculator) Group(preds, labels []int) (accuracy, precision, recall float64) {
	tp, fp, tn, fn := counts(preds, labels)
	return safeDiv(tp+tn, tp+fp+tn+fn), safeDiv(tp, tp+fp), safeDiv(tp, tp+fn)
}
