package bias

import (
	"fmt"
	"math"
)

// Severity is a coarse ranking of how far a fairness metric deviates from its
// fair threshold.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

var severityRank = map[Severity]int{
	SeverityNone:   0,
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

func maxSeverity(a, b Severity) Severity {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

// Scheme selects between the two supported classification conventions. They
// are intentionally not unified: the difference scheme encodes the
// absolute-difference regulatory convention, the ratio scheme the 80%-rule
// ratio convention, and callers choose per use case.
type Scheme string

const (
	SchemeDifference Scheme = "difference"
	SchemeRatio      Scheme = "ratio"
)

// Difference-scheme thresholds.
const (
	dpDiffThreshold    = 0.1
	eoDiffThreshold    = 0.1
	impactLowThreshold = 0.8
	impactHighLimit    = 1.25

	// DefaultRatioThreshold is the 80%-rule floor used by the ratio scheme
	// when the caller does not supply one.
	DefaultRatioThreshold = 0.8
)

// Violation records one fairness metric crossing its threshold for one
// sensitive attribute. Violations are immutable once created.
type Violation struct {
	Attribute   string   `json:"feature"`
	Metric      string   `json:"metric"`
	Value       float64  `json:"value"`
	Threshold   float64  `json:"threshold"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// classifyDifference applies the absolute-difference threshold scheme: bias is
// flagged when |dp diff| > 0.1, |eo diff| > 0.1, or the disparate impact ratio
// leaves [0.8, 1.25].
func classifyDifference(attr string, m AttributeMetrics) (bool, Severity, []Violation) {
	dp := math.Abs(m.DemographicParityDiff)
	eo := math.Abs(m.EqualizedOddsDiff)
	impact := m.DisparateImpact

	var violations []Violation
	if dp > dpDiffThreshold {
		violations = append(violations, Violation{
			Attribute:   attr,
			Metric:      "demographic_parity_difference",
			Value:       m.DemographicParityDiff,
			Threshold:   dpDiffThreshold,
			Severity:    diffSeverity(dp),
			Description: fmt.Sprintf("Positive prediction rates diverge across %s groups (difference: %.3f)", attr, m.DemographicParityDiff),
		})
	}
	if eo > eoDiffThreshold {
		violations = append(violations, Violation{
			Attribute:   attr,
			Metric:      "equalized_odds_difference",
			Value:       m.EqualizedOddsDiff,
			Threshold:   eoDiffThreshold,
			Severity:    diffSeverity(eo),
			Description: fmt.Sprintf("Error rates diverge across %s groups (difference: %.3f)", attr, m.EqualizedOddsDiff),
		})
	}
	if impact < impactLowThreshold {
		violations = append(violations, Violation{
			Attribute:   attr,
			Metric:      "disparate_impact_ratio",
			Value:       impact,
			Threshold:   impactLowThreshold,
			Severity:    impactSeverity(impact),
			Description: fmt.Sprintf("Disparate impact ratio below the 80%% rule for %s groups (ratio: %.3f)", attr, impact),
		})
	} else if impact > impactHighLimit {
		violations = append(violations, Violation{
			Attribute:   attr,
			Metric:      "disparate_impact_ratio",
			Value:       impact,
			Threshold:   impactHighLimit,
			Severity:    SeverityLow,
			Description: fmt.Sprintf("Disparate impact ratio unexpectedly high for %s groups (ratio: %.3f)", attr, impact),
		})
	}

	if len(violations) == 0 {
		return false, SeverityNone, nil
	}

	severity := SeverityLow
	switch {
	case dp > 0.2 || eo > 0.2 || impact < 0.6:
		severity = SeverityHigh
	case dp > 0.15 || eo > 0.15 || impact < 0.7:
		severity = SeverityMedium
	}

	return true, severity, violations
}

func diffSeverity(abs float64) Severity {
	switch {
	case abs > 0.2:
		return SeverityHigh
	case abs > 0.15:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func impactSeverity(impact float64) Severity {
	switch {
	case impact < 0.6:
		return SeverityHigh
	case impact < 0.7:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// classifyRatio applies the ratio-only threshold scheme: bias is flagged when
// the demographic-parity or equalized-odds ratio falls below the caller's
// threshold. Per-violation severity is high below 0.6, otherwise medium.
func classifyRatio(attr string, m AttributeMetrics, threshold float64) (bool, Severity, []Violation) {
	var violations []Violation
	if m.DemographicParityRatio < threshold {
		violations = append(violations, Violation{
			Attribute:   attr,
			Metric:      "demographic_parity_ratio",
			Value:       m.DemographicParityRatio,
			Threshold:   threshold,
			Severity:    ratioSeverity(m.DemographicParityRatio),
			Description: fmt.Sprintf("Model shows unfair treatment across %s groups (ratio: %.2f)", attr, m.DemographicParityRatio),
		})
	}
	if m.EqualizedOddsRatio < threshold {
		violations = append(violations, Violation{
			Attribute:   attr,
			Metric:      "equalized_odds_ratio",
			Value:       m.EqualizedOddsRatio,
			Threshold:   threshold,
			Severity:    ratioSeverity(m.EqualizedOddsRatio),
			Description: fmt.Sprintf("Model shows unequal error rates across %s groups (ratio: %.2f)", attr, m.EqualizedOddsRatio),
		})
	}

	if len(violations) == 0 {
		return false, SeverityNone, nil
	}

	severity := SeverityNone
	for _, v := range violations {
		severity = maxSeverity(severity, v.Severity)
	}
	return true, severity, violations
}

func ratioSeverity(ratio float64) Severity {
	if ratio < 0.6 {
		return SeverityHigh
	}
	return SeverityMedium
}

// Recommendations maps fairness metric values to actionable guidance, one
// entry per violated condition, in the fixed check order: demographic parity,
// equalized odds, disparate impact low, disparate impact high.
func Recommendations(m AttributeMetrics) []string {
	var recs []string

	if math.Abs(m.DemographicParityDiff) > dpDiffThreshold {
		recs = append(recs, fmt.Sprintf(
			"Demographic parity violation detected (%.3f). Consider rebalancing training data or using fairness constraints.",
			m.DemographicParityDiff))
	}
	if math.Abs(m.EqualizedOddsDiff) > eoDiffThreshold {
		recs = append(recs, fmt.Sprintf(
			"Equalized odds violation detected (%.3f). Model performs differently across groups - review decision thresholds.",
			m.EqualizedOddsDiff))
	}
	if m.DisparateImpact < impactLowThreshold {
		recs = append(recs, fmt.Sprintf(
			"Disparate impact ratio too low (%.3f). This violates the 80%% rule - model may have discriminatory impact.",
			m.DisparateImpact))
	} else if m.DisparateImpact > impactHighLimit {
		recs = append(recs, fmt.Sprintf(
			"Disparate impact ratio too high (%.3f). Model shows unexpected favor toward certain groups.",
			m.DisparateImpact))
	}

	return recs
}
