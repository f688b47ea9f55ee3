// Package judge0 talks to a Judge0-compatible batch execution service over REST.
package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gitlab.com/codearena.net/internal/config"
	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/ports/secondary"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/static/errs"
)

const (
	batchPath    = "/submissions/batch"
	statusFields = "token,status_id,status,time,memory,stdout,stderr,compile_output,message"
	maxBodyBytes = 8 << 20
)

var _ secondary.ExecutionService = (*Client)(nil)

// Client implements secondary.ExecutionService
type Client struct {
	baseURL    string
	cfg        *config.ExecutorCfg
	httpClient *http.Client
	logger     primary.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(cfg *config.ExecutorCfg, logger primary.Logger, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// SubmitBatch posts every request in one call and returns the tokens in request order
func (c *Client) SubmitBatch(ctx context.Context, requests []domain.ExecutionRequest) ([]string, error) {
	body := batchSubmitRequest{Submissions: make([]submissionRequest, len(requests))}
	for i, r := range requests {
		body.Submissions[i] = submissionRequest{
			SourceCode:     r.SourceCode,
			LanguageID:     r.LanguageID,
			Stdin:          r.Stdin,
			ExpectedOutput: r.ExpectedOutput,
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	query := url.Values{}
	query.Set("base64_encoded", "false")
	query.Set("wait", "false")

	req, err := c.newRequest(ctx, http.MethodPost, query, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var created []*createSubmissionResponse
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to decode batch submit response: %w", err)
	}

	tokens := make([]string, len(created))
	for i, item := range created {
		if item != nil {
			tokens[i] = item.Token
		}
	}

	c.logger.Debug("Submitted batch", "requests", len(requests), "tokens", len(tokens))
	return tokens, nil
}

// GetBatch fetches the state of all tokens in one call.
// Decoding problems are reported as errs.ErrPollMalformed; transport problems are not.
func (c *Client) GetBatch(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error) {
	query := url.Values{}
	query.Set("tokens", strings.Join(tokens, ","))
	query.Set("base64_encoded", "false")
	query.Set("fields", statusFields)

	req, err := c.newRequest(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp batchStatusResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPollMalformed, err)
	}
	if resp.Submissions == nil {
		return nil, fmt.Errorf("%w: missing submissions array", errs.ErrPollMalformed)
	}

	results := make([]domain.ExecutionResult, 0, len(*resp.Submissions))
	for i, s := range *resp.Submissions {
		if s == nil {
			return nil, fmt.Errorf("%w: null entry at position %d", errs.ErrPollMalformed, i)
		}
		r, err := toResult(s)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (c *Client) newRequest(ctx context.Context, method string, query url.Values, body io.Reader) (*http.Request, error) {
	endpoint := c.baseURL + batchPath + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
		req.Header.Set("X-RapidAPI-Host", c.cfg.APIHost)
	}
	if c.cfg.AuthToken != "" {
		req.Header.Set("X-Auth-Token", c.cfg.AuthToken)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, batchPath, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Execution service rejected request",
			"method", req.Method,
			"status", resp.StatusCode,
			"body", truncate(string(raw), 512))
		return nil, fmt.Errorf("%s %s: unexpected status %d", req.Method, batchPath, resp.StatusCode)
	}
	return raw, nil
}

func toResult(s *getSubmissionResponse) (domain.ExecutionResult, error) {
	r := domain.ExecutionResult{
		Token:         s.Token,
		Stdout:        deref(s.Stdout),
		Stderr:        deref(s.Stderr),
		CompileOutput: deref(s.CompileOutput),
		Message:       deref(s.Message),
	}

	switch {
	case s.StatusID != nil:
		r.StatusID = *s.StatusID
	case s.Status != nil:
		r.StatusID = s.Status.ID
	default:
		return r, fmt.Errorf("%w: token %s has no status", errs.ErrPollMalformed, s.Token)
	}

	if t := strings.TrimSpace(deref(s.Time)); t != "" {
		seconds, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return r, fmt.Errorf("%w: token %s has invalid time %q", errs.ErrPollMalformed, s.Token, t)
		}
		r.Time = seconds
	}
	if s.Memory != nil {
		r.Memory = *s.Memory
	}
	return r, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
