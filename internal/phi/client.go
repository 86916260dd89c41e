// Package phi talks to the external entity-recognition provider. The engine's
// only contract with it: send text, a language code and a confidence
// threshold; receive detected entities plus an anonymized rewrite; derive
// risk_score as the maximum entity confidence (0.0 when nothing is found).
package phi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Entity is one detected span.
type Entity struct {
	Type  string  `json:"type"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// Detection is the full result for one text.
type Detection struct {
	HasPHI         bool     `json:"has_phi"`
	Count          int      `json:"phi_count"`
	Entities       []Entity `json:"entities"`
	RiskScore      float64  `json:"risk_score"`
	AnonymizedText string   `json:"anonymized_text"`
	ThresholdUsed  float64  `json:"threshold_used"`
}

// MetricsInterface defines the instrumentation hooks used by the client.
type MetricsInterface interface {
	PHIRequestsInc()
	PHIErrorsInc()
	PHICacheHitsInc()
	ProviderLatencyObserve(seconds float64)
}

// Cache stores raw detection payloads by content key. Implemented by the
// storage package; nil disables caching.
type Cache interface {
	GetDetection(key string) ([]byte, bool, error)
	PutDetection(key string, data []byte) error
}

// Client calls the entity-recognition provider over HTTP.
type Client struct {
	base    string
	rest    *resty.Client
	cache   Cache
	metrics MetricsInterface
}

func NewClient(base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(10 * time.Second)
	}
	return &Client{base: strings.TrimRight(base, "/"), rest: r}
}

// WithCache attaches a detection cache.
func (c *Client) WithCache(cache Cache) *Client {
	c.cache = cache
	return c
}

// WithMetrics attaches instrumentation.
func (c *Client) WithMetrics(m MetricsInterface) *Client {
	c.metrics = m
	return c
}

type analyzeRequest struct {
	Text      string  `json:"text"`
	Language  string  `json:"language"`
	Threshold float64 `json:"threshold"`
}

type analyzeResponse struct {
	Entities       []Entity `json:"entities"`
	AnonymizedText string   `json:"anonymized_text"`
	Error          string   `json:"error,omitempty"`
}

// Detect analyzes text for protected entities. Blank text short-circuits to a
// no-PHI result without touching the provider.
func (c *Client) Detect(ctx context.Context, text, language string, threshold float64) (*Detection, error) {
	if c.metrics != nil {
		c.metrics.PHIRequestsInc()
	}

	if strings.TrimSpace(text) == "" {
		return &Detection{
			Entities:       []Entity{},
			AnonymizedText: text,
			ThresholdUsed:  threshold,
		}, nil
	}

	key := cacheKey(text, language, threshold)
	if c.cache != nil {
		if data, ok, err := c.cache.GetDetection(key); err == nil && ok {
			var det Detection
			if err := json.Unmarshal(data, &det); err == nil {
				if c.metrics != nil {
					c.metrics.PHICacheHitsInc()
				}
				return &det, nil
			}
			// Malformed cache entries are overwritten on the next store.
		}
	}

	start := time.Now()
	out := &analyzeResponse{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(analyzeRequest{Text: text, Language: language, Threshold: threshold}).
		SetResult(out).
		Post(c.base + "/analyze")
	if c.metrics != nil {
		c.metrics.ProviderLatencyObserve(time.Since(start).Seconds())
	}
	if err != nil {
		if c.metrics != nil {
			c.metrics.PHIErrorsInc()
		}
		return nil, fmt.Errorf("entity recognition request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		if c.metrics != nil {
			c.metrics.PHIErrorsInc()
		}
		return nil, fmt.Errorf("entity recognition provider: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	if out.Error != "" {
		if c.metrics != nil {
			c.metrics.PHIErrorsInc()
		}
		return nil, fmt.Errorf("entity recognition provider: %s", out.Error)
	}

	det := &Detection{
		HasPHI:         len(out.Entities) > 0,
		Count:          len(out.Entities),
		Entities:       out.Entities,
		RiskScore:      riskScore(out.Entities),
		AnonymizedText: out.AnonymizedText,
		ThresholdUsed:  threshold,
	}
	if det.Entities == nil {
		det.Entities = []Entity{}
	}

	if c.cache != nil {
		if data, err := json.Marshal(det); err == nil {
			if err := c.cache.PutDetection(key, data); err != nil {
				log.Warn().Err(err).Msg("failed to cache detection result")
			}
		}
	}

	return det, nil
}

// riskScore is the maximum entity confidence, 0.0 when no entities were found.
func riskScore(entities []Entity) float64 {
	score := 0.0
	for _, e := range entities {
		if e.Score > score {
			score = e.Score
		}
	}
	return score
}

func cacheKey(text, language string, threshold float64) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%g|", language, threshold)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
