package vk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// API error codes worth retrying
const (
	codeTooManyRequests = 6
	codeInternalError   = 10
)

// Error is an error returned by the VK API
type Error struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

// Options configures a Client
type Options struct {
	GroupToken        string
	UserToken         string
	GroupID           int64
	APIVersion        string
	BaseURL           string
	RequestsPerSecond float64
	RetryAttempts     uint
	Timeout           time.Duration
	LongPollWait      int
	HTTPClient        *http.Client
}

// Client calls the VK API with the community and user tokens.
// The community token serves messages and profile lookups, the user token
// serves search and photos which are not available to communities.
type Client struct {
	http       *http.Client
	baseURL    string
	version    string
	groupToken string
	userToken  string
	groupID    int64
	limiter    *rate.Limiter
	attempts   uint
	wait       int
}

// NewClient creates a new VK API client
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	baseURL := opts.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	attempts := opts.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	return &Client{
		http:       httpClient,
		baseURL:    baseURL,
		version:    opts.APIVersion,
		groupToken: opts.GroupToken,
		userToken:  opts.UserToken,
		groupID:    opts.GroupID,
		limiter:    rate.NewLimiter(limit, 1),
		attempts:   attempts,
		wait:       opts.LongPollWait,
	}
}

type apiResponse struct {
	Response json.RawMessage `json:"response"`
	Error    *Error          `json:"error"`
}

// call invokes an API method and decodes the response field into out
func (c *Client) call(ctx context.Context, method, token string, params url.Values, out interface{}) error {
	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("access_token", token)
	form.Set("v", c.version)

	err := retry.Do(
		func() error {
			return c.do(ctx, method, form, out)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Str("method", method).Uint("attempt", n+1).Msg("Retrying VK API call")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, form url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return &Error{Code: codeInternalError, Message: resp.Status}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Error != nil {
		return body.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body.Response, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

func isRetryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == codeTooManyRequests || apiErr.Code == codeInternalError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
