// Package protocol is the typed request/response contract for the evaluation
// operations. Both transports (the one-shot CLI and the HTTP daemon) decode a
// single JSON request object, dispatch on its operation field, and render the
// result or a structured error object. The engine itself is an in-process
// function call; the framing here is replaceable transport.
package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"faircheck/internal/bias"
	"faircheck/internal/phi"
)

// Operation names accepted in the request envelope.
const (
	OpAnalyzeBias     = "analyze_bias"
	OpDisparateImpact = "disparate_impact"
	OpDetectPHI       = "detect_phi"
)

// MissingFieldError reports a required request key that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// UnknownOperationError reports an unrecognized operation name.
type UnknownOperationError struct {
	Operation string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %s", e.Operation)
}

// ErrorResponse is the structured error object rendered at the boundary.
// Errors never propagate as unstructured crashes.
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// NewErrorResponse classifies err into one of the boundary error kinds.
func NewErrorResponse(err error) ErrorResponse {
	kind := "ComputationError"

	var shape *bias.ShapeError
	var missing *MissingFieldError
	var unknown *UnknownOperationError
	switch {
	case errors.As(err, &shape):
		kind = "InputShapeError"
	case errors.As(err, &missing):
		kind = "MissingFieldError"
	case errors.As(err, &unknown):
		kind = "UnknownOperationError"
	}

	return ErrorResponse{Error: err.Error(), Type: kind}
}

// Detector is the entity-recognition collaborator consumed by detect_phi.
type Detector interface {
	Detect(ctx context.Context, text, language string, threshold float64) (*phi.Detection, error)
}

// Defaults carry the configured fallbacks for optional request fields.
type Defaults struct {
	Scheme         bias.Scheme
	RatioThreshold float64
	Language       string
	PHIThreshold   float64
}

// Handler dispatches decoded requests to the engine and collaborators.
type Handler struct {
	engine   *bias.Engine
	detector Detector
	defaults Defaults
}

func NewHandler(engine *bias.Engine, detector Detector, defaults Defaults) *Handler {
	if defaults.Scheme == "" {
		defaults.Scheme = bias.SchemeRatio
	}
	if defaults.RatioThreshold <= 0 {
		defaults.RatioThreshold = bias.DefaultRatioThreshold
	}
	if defaults.Language == "" {
		defaults.Language = "en"
	}
	if defaults.PHIThreshold <= 0 {
		defaults.PHIThreshold = 0.5
	}
	return &Handler{engine: engine, detector: detector, defaults: defaults}
}

// envelope keeps raw field values so that absent keys are distinguishable
// from present-but-zero ones.
type envelope map[string]json.RawMessage

func (e envelope) decode(field string, out any) (bool, error) {
	raw, ok := e[field]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, &bias.ShapeError{Field: field}
	}
	return true, nil
}

func (e envelope) require(field string, out any) error {
	ok, err := e.decode(field, out)
	if err != nil {
		return err
	}
	if !ok {
		return &MissingFieldError{Field: field}
	}
	return nil
}

// Handle decodes one raw JSON request and runs the selected operation. The
// returned value is JSON-marshalable; any error should be rendered with
// NewErrorResponse.
func (h *Handler) Handle(ctx context.Context, raw []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &bias.ShapeError{Field: "request"}
	}

	operation := OpAnalyzeBias
	if _, err := env.decode("operation", &operation); err != nil {
		return nil, err
	}

	return h.dispatch(ctx, operation, env)
}

// HandleOperation runs a named operation against a raw JSON request body,
// ignoring any operation field inside it. Used by path-addressed transports.
func (h *Handler) HandleOperation(ctx context.Context, operation string, raw []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &bias.ShapeError{Field: "request"}
	}
	return h.dispatch(ctx, operation, env)
}

func (h *Handler) dispatch(ctx context.Context, operation string, env envelope) (any, error) {
	switch operation {
	case OpAnalyzeBias:
		return h.analyzeBias(env)
	case OpDisparateImpact:
		return h.disparateImpact(env)
	case OpDetectPHI:
		return h.detectPHI(ctx, env)
	default:
		return nil, &UnknownOperationError{Operation: operation}
	}
}

func (h *Handler) analyzeBias(env envelope) (any, error) {
	var preds []int
	if err := env.require("predictions", &preds); err != nil {
		return nil, err
	}

	// Both historical field names for ground truth are accepted.
	var labels []int
	ok, err := env.decode("ground_truth", &labels)
	if err != nil {
		return nil, err
	}
	if !ok {
		ok, err = env.decode("labels", &labels)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &MissingFieldError{Field: "ground_truth"}
		}
	}

	features, err := decodeSensitiveFeatures(env)
	if err != nil {
		return nil, err
	}

	scheme := h.defaults.Scheme
	var schemeName string
	if ok, err := env.decode("scheme", &schemeName); err != nil {
		return nil, err
	} else if ok {
		scheme = bias.Scheme(schemeName)
	}

	threshold := h.defaults.RatioThreshold
	if _, err := env.decode("threshold", &threshold); err != nil {
		return nil, err
	}

	return h.engine.Evaluate(bias.Request{
		Predictions:       preds,
		Labels:            labels,
		SensitiveFeatures: features,
		Scheme:            scheme,
		RatioThreshold:    threshold,
	})
}

// decodeSensitiveFeatures accepts either the multi-attribute object form
// {"gender": [...], "race": [...]} or the legacy single-attribute array form,
// which degrades gracefully to a one-entry map.
func decodeSensitiveFeatures(env envelope) (map[string][]string, error) {
	raw, ok := env["sensitive_features"]
	if !ok {
		return nil, &MissingFieldError{Field: "sensitive_features"}
	}

	var features map[string][]string
	if err := json.Unmarshal(raw, &features); err == nil {
		return features, nil
	}

	var single []string
	if err := json.Unmarshal(raw, &single); err == nil {
		return map[string][]string{"sensitive_feature": single}, nil
	}

	return nil, &bias.ShapeError{Field: "sensitive_features"}
}

func (h *Handler) disparateImpact(env envelope) (any, error) {
	var preds []int
	if err := env.require("predictions", &preds); err != nil {
		return nil, err
	}
	var attr []string
	if err := env.require("sensitive_feature", &attr); err != nil {
		return nil, err
	}
	var privileged string
	if err := env.require("privileged_group", &privileged); err != nil {
		return nil, err
	}

	return bias.DisparateImpact(preds, attr, privileged)
}

func (h *Handler) detectPHI(ctx context.Context, env envelope) (any, error) {
	if h.detector == nil {
		return nil, fmt.Errorf("entity recognition provider not configured")
	}

	var text string
	if err := env.require("text", &text); err != nil {
		return nil, err
	}

	language := h.defaults.Language
	if _, err := env.decode("language", &language); err != nil {
		return nil, err
	}
	threshold := h.defaults.PHIThreshold
	if _, err := env.decode("threshold", &threshold); err != nil {
		return nil, err
	}

	return h.detector.Detect(ctx, text, language, threshold)
}
