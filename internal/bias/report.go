package bias

// OverallMetrics are the standard classification scores computed once over
// the whole example set, independent of any sensitive attribute.
type OverallMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
}

// GroupMetrics are the per-group rates and scores for one sensitive-attribute
// value. Rates with a zero denominator have been resolved to 0.0.
type GroupMetrics struct {
	Size              int     `json:"size"`
	PositiveRate      float64 `json:"positive_rate"`
	TruePositiveRate  float64 `json:"true_positive_rate"`
	FalsePositiveRate float64 `json:"false_positive_rate"`
	Accuracy          float64 `json:"accuracy"`
	Precision         float64 `json:"precision"`
	Recall            float64 `json:"recall"`
}

// Report aggregates one evaluation: overall classification scores, fairness
// metrics and group metrics per sensitive attribute, the accumulated
// violations, and remediation guidance. A report is owned by the caller of
// one evaluation and never shared across calls.
type Report struct {
	ReportID        string                             `json:"report_id"`
	OverallMetrics  OverallMetrics                     `json:"overall_metrics"`
	BiasMetrics     map[string]AttributeMetrics        `json:"bias_metrics"`
	GroupMetrics    map[string]map[string]GroupMetrics `json:"group_metrics"`
	BiasDetected    bool                               `json:"bias_detected"`
	Severity        Severity                           `json:"severity"`
	Violations      []Violation                        `json:"violations"`
	Recommendations []string                           `json:"recommendations,omitempty"`
	AttributeErrors map[string]string                  `json:"attribute_errors,omitempty"`
}
