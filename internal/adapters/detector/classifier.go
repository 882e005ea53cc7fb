package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
)

const (
	// classifierInputLimit bounds the text sent upstream, in runes.
	classifierInputLimit = 1500

	labelHuman = "Real"
	labelAI    = "Fake"
)

// Classifier scores content against a HuggingFace-hosted openai-detector
// model, degrading silently to the local heuristic on any upstream failure.
// It never returns an error: submission intake must not depend on the
// classifier being reachable.
type Classifier struct {
	apiURL string
	token  string
	client *http.Client
	jitter domain.Jitter
	logger *slog.Logger
}

// Config carries the upstream endpoint settings.
type Config struct {
	APIURL  string
	Token   string
	Timeout time.Duration
}

// NewClassifier builds the scorer. An empty APIURL disables the remote call
// entirely, leaving the heuristic as the only source.
func NewClassifier(cfg Config, logger *slog.Logger) *Classifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Classifier{
		apiURL: cfg.APIURL,
		token:  cfg.Token,
		client: &http.Client{Timeout: timeout},
		jitter: func(min, max float64) float64 { return min + rng.Float64()*(max-min) },
		logger: logger,
	}
}

// classifierResult is one label/score pair from the model output. The API
// returns either [[{label,score},...]] or [{label,score},...] depending on
// batching.
type classifierResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *Classifier) Score(ctx context.Context, text string) domain.Detection {
	if c.apiURL == "" {
		return domain.HeuristicDetection(text, c.jitter)
	}
	detection, err := c.callRemote(ctx, text)
	if err != nil {
		c.logger.Warn("classifier unavailable, using heuristic fallback",
			slog.String("module", "detector"),
			slog.String("operation", "score"),
			slog.String("error", err.Error()))
		return domain.HeuristicDetection(text, c.jitter)
	}
	return detection
}

func (c *Classifier) callRemote(ctx context.Context, text string) (domain.Detection, error) {
	runes := []rune(text)
	if len(runes) > classifierInputLimit {
		text = string(runes[:classifierInputLimit])
	}

	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return domain.Detection{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return domain.Detection{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Detection{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.Detection{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	results, err := decodeResults(resp.Body)
	if err != nil {
		return domain.Detection{}, err
	}

	var humanScore, aiScore *float64
	for i := range results {
		switch results[i].Label {
		case labelHuman:
			humanScore = &results[i].Score
		case labelAI:
			aiScore = &results[i].Score
		}
	}
	if humanScore == nil || aiScore == nil {
		return domain.Detection{}, fmt.Errorf("classifier response missing %s/%s labels", labelHuman, labelAI)
	}

	top := *humanScore
	if *aiScore > top {
		top = *aiScore
	}
	return domain.Detection{
		HumanProbability: round3(*humanScore),
		AIProbability:    round3(*aiScore),
		Confidence:       domain.ClassifierConfidence(top),
		Source:           domain.SourceClassifier,
	}, nil
}

func decodeResults(r io.Reader) ([]classifierResult, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	var nested [][]classifierResult
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}
	var flat []classifierResult
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}
	return nil, fmt.Errorf("unrecognized classifier response shape")
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
