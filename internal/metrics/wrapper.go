package metrics

// Wrapper adapts Metrics to the narrow instrumentation interfaces consumed by
// the evaluation engine and the entity-detection client, so those packages do
// not depend on Prometheus directly.
type Wrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

func (w *Wrapper) EvaluationsInc() { w.m.EvaluationsTotal.Inc() }
func (w *Wrapper) ViolationsAdd(n float64) { w.m.ViolationsTotal.Add(n) }
func (w *Wrapper) BiasDetectedInc() { w.m.BiasDetectedTotal.Inc() }
func (w *Wrapper) EvaluationDurationObserve(seconds float64) { w.m.EvaluationDuration.Observe(seconds) }
func (w *Wrapper) AttributeFailuresInc() { w.m.AttributeFailures.Inc() }

func (w *Wrapper) PHIRequestsInc() { w.m.PHIRequestsTotal.Inc() }
func (w *Wrapper) PHIErrorsInc() { w.m.PHIErrorsTotal.Inc() }
func (w *Wrapper) PHICacheHitsInc() { w.m.PHICacheHits.Inc() }
func (w *Wrapper) ProviderLatencyObserve(seconds float64) { w.m.ProviderLatency.Observe(seconds) }

func (w *Wrapper) ErrorsInc() { w.m.ErrorsTotal.Inc() }
