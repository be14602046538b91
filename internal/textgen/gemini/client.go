// Package gemini implements the text-generation provider backed by the
// Google Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellwaste/sellwaste/internal/provider/resilience"
	"github.com/sellwaste/sellwaste/internal/textgen"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "gemini"

	// DefaultBaseURL is the Generative Language API base URL.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used for advisory text.
	DefaultModel = "gemini-1.5-flash"

	// DefaultTimeout bounds a single generation call. There are no
	// retries: a failed attempt goes straight to the caller's fallback.
	DefaultTimeout = 8 * time.Second
)

// ClientConfig holds configuration for the Gemini client.
type ClientConfig struct {
	// APIKey is the Generative Language API key (required).
	APIKey string

	// Model overrides the default model.
	Model string

	// BaseURL overrides the API base URL (used in tests).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a single-attempt
	// resilient client with DefaultTimeout is created.
	HTTPClient *resilience.Client

	// Registry receives success/failure records for ops reporting.
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *resilience.Client
	registry   *resilience.Registry
	logger     zerolog.Logger
}

// NewClient creates a new Gemini client.
func NewClient(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = DefaultTimeout
		httpClient = resilience.NewClient(clientCfg)
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(ProviderName, httpClient)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
		registry:   cfg.Registry,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GenerateText produces a completion for the prompt. Any non-2xx
// status, network error or timeout is returned as a *textgen.ServiceError;
// a successful but empty completion is textgen.ErrEmptyCompletion.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", &textgen.ServiceError{Provider: ProviderName, Err: fmt.Errorf("api key not configured")}
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.2,
			MaxOutputTokens: 256,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure(err)
		return "", &textgen.ServiceError{Provider: ProviderName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		svcErr := &textgen.ServiceError{Provider: ProviderName, StatusCode: resp.StatusCode}
		c.recordFailure(svcErr)
		return "", svcErr
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.recordFailure(err)
		return "", &textgen.ServiceError{Provider: ProviderName, Err: err}
	}

	text := parsed.firstText()
	if text == "" {
		c.recordFailure(textgen.ErrEmptyCompletion)
		return "", textgen.ErrEmptyCompletion
	}

	c.recordSuccess()
	return text, nil
}

func (c *Client) recordSuccess() {
	if c.registry != nil {
		c.registry.RecordSuccess(ProviderName)
	}
}

func (c *Client) recordFailure(err error) {
	c.logger.Warn().Err(err).Msg("gemini call failed")
	if c.registry != nil {
		c.registry.RecordFailure(ProviderName, err)
	}
}
