// Package assist is the gateway to the external text-generation collaborator.
// It is an enrichment layer: every failure here is recoverable and must never
// decide the correctness of points, tasks or streaks.
package assist

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-3-flash-preview"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

type ClientOpts struct {
	// BaseURL overrides the generation endpoint host (tests point it at a fake)
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func New(opts ClientOpts) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		model:      model,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
	ResponseSchema   any    `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends one natural-language instruction and returns the raw JSON text
// the collaborator produced. Any transport, status or envelope problem collapses
// into ErrAssistUnavailable so callers treat all failures identically.
func (c *Client) generate(ctx context.Context, instruction string, schema any) ([]byte, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: instruction}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}
	payload, err := sonic.ConfigDefault.Marshal(reqBody)
	if err != nil {
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, err)
	}
	url := c.baseURL + "/v1beta/models/" + c.model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Join(errorvalues.ErrAssistUnavailable,
			errors.New("generation endpoint returned "+resp.Status+": "+string(body)))
	}
	var envelope generateResponse
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, errors.New("empty candidate list"))
	}
	return []byte(envelope.Candidates[0].Content.Parts[0].Text), nil
}
