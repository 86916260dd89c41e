package bias

import (
	"math"
	"testing"
)

func outcomes(preds, labels []int, attr []string) []groupOutcome {
	groups, err := partition("sensitive_features.test", attr, len(preds))
	if err != nil {
		panic(err)
	}
	out := make([]groupOutcome, len(groups))
	for i, g := range groups {
		out[i] = outcome(g, preds, labels)
	}
	return out
}

func TestEqualRatesMeanParity(t *testing.T) {
	t.Parallel()

	// Both groups have positive rate 0.5.
	preds := []int{1, 1, 0, 0, 1, 0, 1, 0}
	labels := []int{1, 0, 0, 1, 1, 0, 1, 1}
	attr := []string{"A", "A", "A", "A", "B", "B", "B", "B"}

	m := sanitize(computeRaw(outcomes(preds, labels, attr)))

	if m.DemographicParityDiff != 0.0 {
		t.Errorf("expected dp difference 0.0, got %f", m.DemographicParityDiff)
	}
	if m.DemographicParityRatio != 1.0 {
		t.Errorf("expected dp ratio 1.0, got %f", m.DemographicParityRatio)
	}
}

func TestMaximalDisparity(t *testing.T) {
	t.Parallel()

	// Group A always positive, group B never.
	preds := []int{1, 1, 1, 1, 0, 0, 0, 0}
	labels := []int{1, 1, 0, 0, 1, 1, 0, 0}
	attr := []string{"A", "A", "A", "A", "B", "B", "B", "B"}

	m := sanitize(computeRaw(outcomes(preds, labels, attr)))

	if m.DemographicParityDiff != 1.0 {
		t.Errorf("expected dp difference 1.0, got %f", m.DemographicParityDiff)
	}
	if m.DisparateImpact != 0.0 {
		t.Errorf("expected disparate impact 0.0, got %f", m.DisparateImpact)
	}
	if m.EqualizedOddsDiff != 1.0 {
		t.Errorf("expected eo difference 1.0, got %f", m.EqualizedOddsDiff)
	}
}

func TestUndefinedOutcomeSanitizesToNeutral(t *testing.T) {
	t.Parallel()

	// Group B has no label=1 example, so its TPR is undefined and the
	// equalized odds spread cannot be measured across two groups.
	preds := []int{1, 0, 1, 0}
	labels := []int{1, 1, 0, 0}
	attr := []string{"A", "A", "B", "B"}

	raw := computeRaw(outcomes(preds, labels, attr))
	if raw.eoDiff.Defined {
		t.Errorf("expected undefined eo difference, got %+v", raw.eoDiff)
	}
	if raw.eoRatio.Defined {
		t.Errorf("expected undefined eo ratio, got %+v", raw.eoRatio)
	}

	m := sanitize(raw)
	if m.EqualizedOddsDiff != 0.0 {
		t.Errorf("expected sanitized eo difference 0.0, got %f", m.EqualizedOddsDiff)
	}
	if m.EqualizedOddsRatio != 1.0 {
		t.Errorf("expected sanitized eo ratio 1.0, got %f", m.EqualizedOddsRatio)
	}
}

func TestSingleGroupSanitizesToNeutral(t *testing.T) {
	t.Parallel()

	preds := []int{1, 0, 1}
	labels := []int{1, 0, 0}
	attr := []string{"only", "only", "only"}

	raw := computeRaw(outcomes(preds, labels, attr))
	if raw.dpDiff.Defined || raw.dpRatio.Defined {
		t.Error("expected undefined dp metrics with a single group")
	}

	m := sanitize(raw)
	if m.DemographicParityDiff != 0.0 || m.DemographicParityRatio != 1.0 {
		t.Errorf("expected neutral dp metrics, got diff=%f ratio=%f", m.DemographicParityDiff, m.DemographicParityRatio)
	}
	// Single group: min and max coincide.
	if m.DisparateImpact != 1.0 {
		t.Errorf("expected disparate impact 1.0 for single group, got %f", m.DisparateImpact)
	}
}

func TestZeroMaxRateDistinction(t *testing.T) {
	t.Parallel()

	// Nobody receives a positive prediction in either group. The dp ratio is
	// unmeasurable (parity assumed) while the multi-group disparate impact
	// resolves to 0 like the original 80%-rule computation.
	preds := []int{0, 0, 0, 0}
	labels := []int{1, 0, 1, 0}
	attr := []string{"A", "A", "B", "B"}

	raw := computeRaw(outcomes(preds, labels, attr))
	if raw.dpRatio.Defined {
		t.Errorf("expected undefined dp ratio, got %+v", raw.dpRatio)
	}
	if !raw.impact.Defined || raw.impact.Value != 0.0 {
		t.Errorf("expected disparate impact defined 0.0, got %+v", raw.impact)
	}

	m := sanitize(raw)
	if m.DemographicParityRatio != 1.0 {
		t.Errorf("expected sanitized dp ratio 1.0, got %f", m.DemographicParityRatio)
	}
	if m.DisparateImpact != 0.0 {
		t.Errorf("expected disparate impact 0.0, got %f", m.DisparateImpact)
	}
}

func TestEqualizedOddsTakesWiderSpread(t *testing.T) {
	t.Parallel()

	// TPR spread: A=1.0, B=0.0 -> 1.0. FPR spread: A=0.0, B=0.0 -> 0.0.
	preds := []int{1, 0, 0, 0}
	labels := []int{1, 0, 1, 0}
	attr := []string{"A", "A", "B", "B"}

	raw := computeRaw(outcomes(preds, labels, attr))
	if !raw.eoDiff.Defined || math.Abs(raw.eoDiff.Value-1.0) > 1e-12 {
		t.Errorf("expected eo difference 1.0, got %+v", raw.eoDiff)
	}
	// Ratios: TPR min/max = 0/1 = 0; FPR max is 0 so the ratio side is
	// undefined, making the combined ratio undefined.
	if raw.eoRatio.Defined {
		t.Errorf("expected undefined eo ratio when an outcome max is 0, got %+v", raw.eoRatio)
	}
}
