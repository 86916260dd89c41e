package bias

import "gonum.org/v1/gonum/stat"

// Rate is a group-level rate in [0,1] that may be undefined when the relevant
// denominator (group size, or count of positive/negative labels) is zero.
// Undefined is a first-class state distinct from a rate of 0.
type Rate struct {
	Value   float64
	Defined bool
}

func definedRate(v float64) Rate { return Rate{Value: v, Defined: true} }

// or resolves an undefined rate to the given neutral value.
func (r Rate) or(neutral float64) float64 {
	if r.Defined {
		return r.Value
	}
	return neutral
}

// groupOutcome holds the per-group rates derived from predictions and labels
// restricted to one group.
type groupOutcome struct {
	name     string
	size     int
	positive Rate // mean prediction over the group
	tpr      Rate // mean prediction where label = 1
	fpr      Rate // mean prediction where label = 0
}

// outcome computes the positive-prediction, true-positive and false-positive
// rates for the group of examples selected by idx. Rates are plain means, not
// smoothed.
func outcome(g group, preds, labels []int) groupOutcome {
	var all, onPos, onNeg []float64
	for _, i := range g.idx {
		p := float64(preds[i])
		all = append(all, p)
		if labels[i] == 1 {
			onPos = append(onPos, p)
		} else {
			onNeg = append(onNeg, p)
		}
	}

	return groupOutcome{
		name:     g.name,
		size:     len(g.idx),
		positive: meanRate(all),
		tpr:      meanRate(onPos),
		fpr:      meanRate(onNeg),
	}
}

func meanRate(vals []float64) Rate {
	if len(vals) == 0 {
		return Rate{}
	}
	return definedRate(stat.Mean(vals, nil))
}
