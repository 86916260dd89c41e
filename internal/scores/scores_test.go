package scores

import (
	"math"
	"testing"
)

func TestOverall(t *testing.T) {
	t.Parallel()

	// tp=2, fp=1, tn=2, fn=1
	preds := []int{1, 1, 1, 0, 0, 0}
	labels := []int{1, 1, 0, 1, 0, 0}

	m := New().Overall(preds, labels)

	if math.Abs(m.Accuracy-4.0/6.0) > 1e-12 {
		t.Errorf("expected accuracy 0.667, got %f", m.Accuracy)
	}
	if math.Abs(m.Precision-2.0/3.0) > 1e-12 {
		t.Errorf("expected precision 0.667, got %f", m.Precision)
	}
	if math.Abs(m.Recall-2.0/3.0) > 1e-12 {
		t.Errorf("expected recall 0.667, got %f", m.Recall)
	}
	if math.Abs(m.F1-2.0/3.0) > 1e-12 {
		t.Errorf("expected f1 0.667, got %f", m.F1)
	}
}

func TestOverallPerfect(t *testing.T) {
	t.Parallel()

	preds := []int{1, 0, 1, 0}
	m := New().Overall(preds, preds)

	if m.Accuracy != 1.0 || m.Precision != 1.0 || m.Recall != 1.0 || m.F1 != 1.0 {
		t.Errorf("expected all metrics 1.0, got %+v", m)
	}
}

func TestOverallZeroDenominators(t *testing.T) {
	t.Parallel()

	// No positive predictions and no positive labels: precision, recall and
	// F1 all resolve to 0.0 instead of dividing by zero.
	m := New().Overall([]int{0, 0}, []int{0, 0})

	if m.Accuracy != 1.0 {
		t.Errorf("expected accuracy 1.0, got %f", m.Accuracy)
	}
	if m.Precision != 0.0 || m.Recall != 0.0 || m.F1 != 0.0 {
		t.Errorf("expected zero precision/recall/f1, got %+v", m)
	}
}

func TestGroup(t *testing.T) {
	t.Parallel()

	preds := []int{1, 0, 1, 1}
	labels := []int{1, 1, 0, 1}

	acc, prec, rec := New().Group(preds, labels)

	if math.Abs(acc-0.5) > 1e-12 {
		t.Errorf("expected accuracy 0.5, got %f", acc)
	}
	if math.Abs(prec-2.0/3.0) > 1e-12 {
		t.Errorf("expected precision 0.667, got %f", prec)
	}
	if math.Abs(rec-2.0/3.0) > 1e-12 {
		t.Errorf("expected recall 0.667, got %f", rec)
	}
}

func TestNonBinaryValuesTreatedAsNegative(t *testing.T) {
	t.Parallel()

	// A 2 in either slice counts as the negative class.
	m := New().Overall([]int{2, 1}, []int{0, 1})
	if m.Accuracy != 1.0 {
		t.Errorf("expected accuracy 1.0, got %f", m.Accuracy)
	}
}
