package bias

import "gonum.org/v1/gonum/floats"

// AttributeMetrics is the sanitized fairness statistic set for one sensitive
// attribute. Every field is a plain number: undefined results have already
// been resolved to their neutral values (differences 0.0, ratios 1.0).
type AttributeMetrics struct {
	DemographicParityDiff  float64 `json:"demographic_parity_difference"`
	DemographicParityRatio float64 `json:"demographic_parity_ratio"`
	EqualizedOddsDiff      float64 `json:"equalized_odds_difference"`
	EqualizedOddsRatio     float64 `json:"equalized_odds_ratio"`
	DisparateImpact        float64 `json:"disparate_impact_ratio"`
}

// rawMetrics carries the fairness statistics before degeneracy sanitization,
// so that "unmeasurable" is still distinguishable from "fair" internally.
type rawMetrics struct {
	dpDiff  Rate
	dpRatio Rate
	eoDiff  Rate
	eoRatio Rate
	impact  Rate
}

// computeRaw derives the cross-group fairness statistics from per-group rates.
func computeRaw(outcomes []groupOutcome) rawMetrics {
	var pos, tpr, fpr []float64
	for _, o := range outcomes {
		if o.positive.Defined {
			pos = append(pos, o.positive.Value)
		}
		if o.tpr.Defined {
			tpr = append(tpr, o.tpr.Value)
		}
		if o.fpr.Defined {
			fpr = append(fpr, o.fpr.Value)
		}
	}

	return rawMetrics{
		dpDiff:  spread(pos),
		dpRatio: ratio(pos),
		eoDiff:  maxRate(spread(tpr), spread(fpr)),
		eoRatio: minRate(ratio(tpr), ratio(fpr)),
		impact:  disparateImpactMulti(pos),
	}
}

// spread is max - min across groups with a defined rate; undefined when fewer
// than two groups have one.
func spread(rates []float64) Rate {
	if len(rates) < 2 {
		return Rate{}
	}
	return definedRate(floats.Max(rates) - floats.Min(rates))
}

// ratio is min/max across groups with a defined rate; undefined when fewer
// than two groups have one or the max is 0.
func ratio(rates []float64) Rate {
	if len(rates) < 2 {
		return Rate{}
	}
	max := floats.Max(rates)
	if max == 0 {
		return Rate{}
	}
	return definedRate(floats.Min(rates) / max)
}

// disparateImpactMulti is the multi-group disparate impact form, used when no
// explicit privileged group is named. Unlike the demographic-parity ratio, an
// all-zero positive rate resolves to 0.0, matching the 80%-rule reading that
// a model granting nothing grants nothing equitably measurable.
func disparateImpactMulti(rates []float64) Rate {
	if len(rates) == 0 {
		return Rate{}
	}
	max := floats.Max(rates)
	if max == 0 {
		return definedRate(0)
	}
	return definedRate(floats.Min(rates) / max)
}

// maxRate takes the larger of two spreads; undefined if either is.
func maxRate(a, b Rate) Rate {
	if !a.Defined || !b.Defined {
		return Rate{}
	}
	if a.Value > b.Value {
		return a
	}
	return b
}

// minRate takes the smaller of two ratios; undefined if either is.
func minRate(a, b Rate) Rate {
	if !a.Defined || !b.Defined {
		return Rate{}
	}
	if a.Value < b.Value {
		return a
	}
	return b
}

// sanitize resolves every undefined statistic to its neutral value so callers
// always receive numbers: differences assume no observed disparity (0.0),
// ratios assume parity (1.0). This deliberately conflates "fair" with "not
// enough data to tell"; group sizes in the report let callers judge validity.
func sanitize(raw rawMetrics) AttributeMetrics {
	return AttributeMetrics{
		DemographicParityDiff:  raw.dpDiff.or(0),
		DemographicParityRatio: raw.dpRatio.or(1),
		EqualizedOddsDiff:      raw.eoDiff.or(0),
		EqualizedOddsRatio:     raw.eoRatio.or(1),
		DisparateImpact:        raw.impact.or(1),
	}
}
