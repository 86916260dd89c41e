// Package bias evaluates whether a binary classifier treats protected
// demographic groups unequally. It computes per-group and cross-group
// fairness statistics (demographic parity, equalized odds, disparate impact),
// resolves degenerate cases to policy-defined neutral values, and turns the
// raw statistics into a bias verdict, severity tier and remediation guidance
// across any number of sensitive attributes at once.
package bias

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ScoreProvider computes standard classification metrics. Implementations
// must resolve zero denominators to 0.0 rather than failing.
type ScoreProvider interface {
	Overall(preds, labels []int) OverallMetrics
	Group(preds, labels []int) (accuracy, precision, recall float64)
}

// MetricsInterface defines the instrumentation hooks used by the engine.
type MetricsInterface interface {
	EvaluationsInc()
	ViolationsAdd(n float64)
	BiasDetectedInc()
	EvaluationDurationObserve(seconds float64)
	AttributeFailuresInc()
}

// Request is the typed contract for one evaluation. All sequences must share
// one length N >= 1; SensitiveFeatures maps attribute names to value
// sequences of that same length.
type Request struct {
	Predictions       []int
	Labels            []int
	SensitiveFeatures map[string][]string
	Scheme            Scheme
	RatioThreshold    float64
}

// Engine runs fairness evaluations. It holds no cross-call state, so
// concurrent callers may share one Engine without locking.
type Engine struct {
	scores  ScoreProvider
	metrics MetricsInterface
}

func New(scores ScoreProvider) *Engine {
	return &Engine{scores: scores}
}

func NewWithMetrics(scores ScoreProvider, metrics MetricsInterface) *Engine {
	return &Engine{scores: scores, metrics: metrics}
}

// attributeResult is the outcome of one attribute's evaluation, produced by
// its own goroutine and merged in attribute order afterwards.
type attributeResult struct {
	metrics         AttributeMetrics
	groups          map[string]GroupMetrics
	flagged         bool
	severity        Severity
	violations      []Violation
	recommendations []string
	err             error
}

// Evaluate runs the full pipeline: partition per attribute, compute group
// rates, derive fairness metrics, sanitize degeneracies, classify, and merge
// everything into one report. Attributes are evaluated in parallel; the merge
// order is the attributes' sorted-name order, so identical inputs always
// yield byte-identical reports.
func (e *Engine) Evaluate(req Request) (*Report, error) {
	start := time.Now()
	if e.metrics != nil {
		defer func() {
			e.metrics.EvaluationDurationObserve(time.Since(start).Seconds())
		}()
	}

	n := len(req.Predictions)
	if n == 0 {
		return nil, &ShapeError{Field: "predictions"}
	}
	if len(req.Labels) != n {
		return nil, &ShapeError{Field: "labels", Want: n, Got: len(req.Labels)}
	}
	if len(req.SensitiveFeatures) == 0 {
		return nil, &ShapeError{Field: "sensitive_features"}
	}
	for name, values := range req.SensitiveFeatures {
		if len(values) != n {
			return nil, &ShapeError{Field: "sensitive_features." + name, Want: n, Got: len(values)}
		}
	}

	scheme := req.Scheme
	if scheme == "" {
		scheme = SchemeRatio
	}
	if scheme != SchemeDifference && scheme != SchemeRatio {
		return nil, fmt.Errorf("unknown classification scheme %q", scheme)
	}
	threshold := req.RatioThreshold
	if threshold <= 0 {
		threshold = DefaultRatioThreshold
	}

	// JSON object keys carry no order, so sorted names stand in for
	// declaration order and keep the merge deterministic.
	attrs := make([]string, 0, len(req.SensitiveFeatures))
	for name := range req.SensitiveFeatures {
		attrs = append(attrs, name)
	}
	sort.Strings(attrs)

	results := make([]attributeResult, len(attrs))
	var wg sync.WaitGroup
	for i, name := range attrs {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = e.evaluateAttribute(name, req.SensitiveFeatures[name], req.Predictions, req.Labels, scheme, threshold)
		}(i, name)
	}
	wg.Wait()

	report := &Report{
		ReportID:       reportID(req, scheme, threshold),
		OverallMetrics: e.scores.Overall(req.Predictions, req.Labels),
		BiasMetrics:    make(map[string]AttributeMetrics, len(attrs)),
		GroupMetrics:   make(map[string]map[string]GroupMetrics, len(attrs)),
		Severity:       SeverityNone,
		Violations:     []Violation{},
	}

	for i, name := range attrs {
		r := results[i]
		if r.err != nil {
			if e.metrics != nil {
				e.metrics.AttributeFailuresInc()
			}
			log.Warn().Err(r.err).Str("attribute", name).Msg("attribute evaluation failed, continuing with remaining attributes")
			if report.AttributeErrors == nil {
				report.AttributeErrors = make(map[string]string)
			}
			report.AttributeErrors[name] = r.err.Error()
			continue
		}

		report.BiasMetrics[name] = r.metrics
		report.GroupMetrics[name] = r.groups
		report.Violations = append(report.Violations, r.violations...)
		report.Recommendations = append(report.Recommendations, r.recommendations...)
		if r.flagged {
			report.BiasDetected = true
		}
		report.Severity = maxSeverity(report.Severity, r.severity)
	}

	if e.metrics != nil {
		e.metrics.EvaluationsInc()
		e.metrics.ViolationsAdd(float64(len(report.Violations)))
		if report.BiasDetected {
			e.metrics.BiasDetectedInc()
		}
	}

	log.Debug().
		Str("report_id", report.ReportID).
		Int("examples", n).
		Int("attributes", len(attrs)).
		Int("violations", len(report.Violations)).
		Bool("bias_detected", report.BiasDetected).
		Msg("evaluation complete")

	return report, nil
}

// evaluateAttribute runs the single-attribute pipeline. Panics inside the
// metric math are contained here as ComputationError so one bad attribute
// cannot take down the whole evaluation.
func (e *Engine) evaluateAttribute(name string, values []string, preds, labels []int, scheme Scheme, threshold float64) (res attributeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = attributeResult{err: &ComputationError{Attribute: name, Err: fmt.Errorf("%v", r)}}
		}
	}()

	groups, err := partition("sensitive_features."+name, values, len(preds))
	if err != nil {
		return attributeResult{err: &ComputationError{Attribute: name, Err: err}}
	}

	outcomes := make([]groupOutcome, len(groups))
	groupMetrics := make(map[string]GroupMetrics, len(groups))
	for i, g := range groups {
		o := outcome(g, preds, labels)
		outcomes[i] = o

		gp := make([]int, 0, len(g.idx))
		gl := make([]int, 0, len(g.idx))
		for _, j := range g.idx {
			gp = append(gp, preds[j])
			gl = append(gl, labels[j])
		}
		acc, prec, rec := e.scores.Group(gp, gl)

		groupMetrics[g.name] = GroupMetrics{
			Size:              o.size,
			PositiveRate:      o.positive.or(0),
			TruePositiveRate:  o.tpr.or(0),
			FalsePositiveRate: o.fpr.or(0),
			Accuracy:          acc,
			Precision:         prec,
			Recall:            rec,
		}
	}

	metrics := sanitize(computeRaw(outcomes))

	res = attributeResult{metrics: metrics, groups: groupMetrics}
	switch scheme {
	case SchemeDifference:
		res.flagged, res.severity, res.violations = classifyDifference(name, metrics)
		res.recommendations = Recommendations(metrics)
	default:
		res.flagged, res.severity, res.violations = classifyRatio(name, metrics, threshold)
	}
	return res
}

// reportID derives a stable identifier from the request content. Identical
// inputs produce identical reports, identifier included.
func reportID(req Request, scheme Scheme, threshold float64) string {
	var b strings.Builder
	b.WriteString(string(scheme))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(threshold, 'g', -1, 64))
	b.WriteByte('|')
	for _, p := range req.Predictions {
		b.WriteString(strconv.Itoa(p))
	}
	b.WriteByte('|')
	for _, l := range req.Labels {
		b.WriteString(strconv.Itoa(l))
	}
	attrs := make([]string, 0, len(req.SensitiveFeatures))
	for name := range req.SensitiveFeatures {
		attrs = append(attrs, name)
	}
	sort.Strings(attrs)
	for _, name := range attrs {
		b.WriteByte('|')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strings.Join(req.SensitiveFeatures[name], ","))
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.String())).String()
}
