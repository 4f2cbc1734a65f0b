package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
	"seoaudit/internal/ports"
)

// Client posts prompts to the Gemini generateContent endpoint. It performs
// no retries; backoff on rate limits is the caller's decision.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	genCfg   generationConfig
	client   *http.Client
}

var _ ports.TextGenerator = (*Client)(nil)

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient builds a client from configuration.
func NewClient(cfg config.GeminiConfig, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	return &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		genCfg: generationConfig{
			Temperature:     cfg.TemperatureValue(),
			TopK:            cfg.TopK,
			TopP:            cfg.TopP,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
		client: client,
	}
}

// ModelName reports the configured model identifier.
func (c *Client) ModelName() string {
	return c.model
}

// Generate sends one prompt and returns the raw model text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: gemini api key is not set", domain.ErrConfig)
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: c.genCfg,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: generate: %v", domain.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if err := mapStatus(resp.StatusCode, raw, c.model); err != nil {
		return "", err
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrAPI, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrAPI, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: response has no candidates", domain.ErrAPI)
	}

	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

// mapStatus translates transport statuses into the error taxonomy.
func mapStatus(status int, body []byte, model string) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: try again later", domain.ErrRateLimit)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrBadRequest, upstreamMessage(body))
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: model %q or endpoint not found", domain.ErrConfig, model)
	case status < 200 || status > 299:
		return fmt.Errorf("%w: status %d: %s", domain.ErrAPI, status, upstreamMessage(body))
	}
	return nil
}

func upstreamMessage(body []byte) string {
	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		return parsed.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return msg
}
