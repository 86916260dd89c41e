package bias

import "gonum.org/v1/gonum/stat"

// DisparateImpactResult is the outcome of the binary privileged/unprivileged
// disparate impact check (the 4/5ths rule).
type DisparateImpactResult struct {
	Ratio            float64  `json:"disparate_impact_ratio"`
	PrivilegedRate   float64  `json:"privileged_positive_rate"`
	UnprivilegedRate float64  `json:"unprivileged_positive_rate"`
	PassesFourFifths bool     `json:"passes_four_fifths_rule"`
	BiasDetected     bool     `json:"bias_detected"`
	Severity         Severity `json:"severity"`
}

// DisparateImpact computes the binary-form disparate impact ratio: the
// positive rate of everyone outside the privileged group over the positive
// rate of the privileged group. A privileged rate of 0 yields 0.0 by policy
// rather than undefined, since a zero-rate privileged group is itself evidence
// of no disparity against the rest.
func DisparateImpact(preds []int, attr []string, privileged string) (*DisparateImpactResult, error) {
	if len(preds) == 0 {
		return nil, &ShapeError{Field: "predictions"}
	}
	if len(attr) != len(preds) {
		return nil, &ShapeError{Field: "sensitive_feature", Want: len(preds), Got: len(attr)}
	}

	var priv, unpriv []float64
	for i, v := range attr {
		p := float64(preds[i])
		if v == privileged {
			priv = append(priv, p)
		} else {
			unpriv = append(unpriv, p)
		}
	}
	// Both partitions must exist; a one-sided split has no ratio to compute.
	if len(priv) == 0 {
		return nil, &ShapeError{Field: "privileged_group partition"}
	}
	if len(unpriv) == 0 {
		return nil, &ShapeError{Field: "unprivileged partition"}
	}

	privRate := stat.Mean(priv, nil)
	unprivRate := stat.Mean(unpriv, nil)

	ratio := 0.0
	if privRate > 0 {
		ratio = unprivRate / privRate
	}

	passes := ratio >= impactLowThreshold
	severity := SeverityNone
	if !passes {
		severity = SeverityMedium
		if ratio < 0.6 {
			severity = SeverityHigh
		}
	}

	return &DisparateImpactResult{
		Ratio:            ratio,
		PrivilegedRate:   privRate,
		UnprivilegedRate: unprivRate,
		PassesFourFifths: passes,
		BiasDetected:     !passes,
		Severity:         severity,
	}, nil
}
