package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Error is the only failure type callers see; transport detail stays inside.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s: %v", e.Reason, e.Err)
	}
	return "llm: " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errf(reason string, err error) *Error {
	return &Error{Reason: reason, Err: err}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CallOptions struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client talks to an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat sends the full message list and returns the assistant reply text.
// The call fails closed at opts.Timeout; no retries.
func (c *Client) Chat(ctx context.Context, messages []Message, opts CallOptions) (string, error) {
	if !c.Configured() {
		return "", errf("endpoint not configured", nil)
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", errf("encode request", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", errf("build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errf("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errf(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errf("read response", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errf("decode response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errf("empty response", nil)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// CompleteText is the single system+user convenience wrapper.
func (c *Client) CompleteText(ctx context.Context, system, user string, opts CallOptions) (string, error) {
	return c.Chat(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, opts)
}

// CompleteJSON calls the endpoint and parses the reply as a JSON object.
func (c *Client) CompleteJSON(ctx context.Context, system, user string, opts CallOptions) (map[string]json.RawMessage, error) {
	reply, err := c.CompleteText(ctx, system, user, opts)
	if err != nil {
		return nil, err
	}

	var result map[string]json.RawMessage
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		return nil, errf("response was not valid JSON", err)
	}
	return result, nil
}
