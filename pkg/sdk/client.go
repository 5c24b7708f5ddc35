package policyqa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/policyqa/internal/transport/api"
	"github.com/kailas-cloud/policyqa/internal/version"
)

const (
	defaultTimeout = 120 * time.Second
	maxErrorBody   = 64 << 10
)

// Client calls the policy assistant HTTP API.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	obs       *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("policyqa: base URL required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("policyqa: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("policyqa: unsupported URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}
	ua := cfg.userAgent
	if ua == "" {
		ua = "policyqa-go/" + version.Version
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: u.String(), http: hc, userAgent: ua, obs: obs}, nil
}

// Ask sends a question and returns the generated answer. Provider failures are
// reported by the server as a low-confidence answer, not as an error.
func (c *Client) Ask(ctx context.Context, req AskRequest) (_ AskResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	var resp AskResponse
	if err = c.do(ctx, http.MethodPost, "/ask", req, &resp); err != nil {
		return AskResponse{}, err
	}
	return resp, nil
}

// Ingest rebuilds the server's index from its policies directory.
func (c *Client) Ingest(ctx context.Context) (_ IngestResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest", start, err) }()

	var resp IngestResponse
	if err = c.do(ctx, http.MethodPost, "/ingest", nil, &resp); err != nil {
		return IngestResponse{}, err
	}
	return resp, nil
}

// SubmitFeedback records whether an answer was helpful.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) (_ FeedbackResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("submit_feedback", start, err) }()

	var resp FeedbackResponse
	if err = c.do(ctx, http.MethodPost, "/feedback", req, &resp); err != nil {
		return FeedbackResponse{}, err
	}
	return resp, nil
}

// do sends a JSON request and decodes a JSON response into out. path must be escaped.
// Statuses in accept are decoded like 2xx.
func (c *Client) do(ctx context.Context, method, path string, in, out any, accept ...int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("policyqa: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("policyqa: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("policyqa: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !successful(resp.StatusCode, accept) {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("policyqa: decode response: %w", err)
	}
	return nil
}

func successful(status int, accept []int) bool {
	if status >= 200 && status < 300 {
		return true
	}
	for _, a := range accept {
		if status == a {
			return true
		}
	}
	return false
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var body api.ErrorResponse
	if json.Unmarshal(data, &body) == nil && body.Code != "" {
		apiErr.Code = string(body.Code)
		apiErr.Message = body.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}
