// Package ollama is a client for a local Ollama-compatible text-generation
// endpoint. It implements report.Analyzer: one request per report, no
// retries, no streaming. Callers treat every failure as "no analysis".
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmcleish/jirareport/internal/ticket"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "gemma3:1b"
)

// Client talks to one Ollama server.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the inference server URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient substitutes the HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates an Ollama client. Defaults to localhost:11434 with
// gemma3:1b. Generation can take a while on small hardware, hence the
// generous timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name for display.
func (c *Client) Model() string { return c.model }

// BaseURL returns the configured endpoint for display.
func (c *Client) BaseURL() string { return c.baseURL }

// Ping checks whether the server is reachable. Used to decide up front
// whether to attempt augmentation at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned %d", resp.StatusCode)
	}
	return nil
}

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the Ollama /api/generate response body.
type generateResponse struct {
	Response string `json:"response"`
}

// Analyze asks the model for a short structured analysis of the report.
// Implements report.Analyzer.
func (c *Client) Analyze(ctx context.Context, reportText string, sample []ticket.Ticket) (string, error) {
	prompt, err := buildPrompt(reportText, sample)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("ollama returned an empty analysis")
	}
	return out.Response, nil
}

func buildPrompt(reportText string, sample []ticket.Ticket) (string, error) {
	raw, err := json.Marshal(sample)
	if err != nil {
		return "", fmt.Errorf("marshal ticket sample: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyze the following JIRA ticket data and provide insights:\n\n")
	b.WriteString(reportText)
	b.WriteString("\n\nRaw ticket data: ")
	b.Write(raw)
	b.WriteString("\n\nPlease provide:\n")
	b.WriteString("1. Key insights about the ticket distribution\n")
	b.WriteString("2. Potential bottlenecks or issues\n")
	b.WriteString("3. Recommendations for the team\n")
	b.WriteString("4. Priority suggestions based on the data\n\n")
	b.WriteString("Keep the analysis concise and actionable.")
	return b.String(), nil
}
