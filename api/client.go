// ABOUTME: HTTP gateway client for the CRM REST backend
// ABOUTME: Builds JSON requests, normalizes failures, reports them once via the Notifier
package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// genericErrorMessage is shown when an error response carries no usable
// error field.
const genericErrorMessage = "API request failed"

// Notifier receives one message per failed request, before the error is
// returned to the caller. Callers must not report the same failure again.
type Notifier interface {
	Notify(message string)
}

// NopNotifier discards all messages.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}

// RequestError is a non-2xx response from the backend, with the message
// extracted from the response body's "error" field when present.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	Username string // optional basic auth
	Password string
	Timeout  time.Duration
	Notifier Notifier
	Logger   *zap.Logger
}

// Client talks to the CRM backend. All entity operations, the backup
// trigger, and the Genesys passthrough surface go through request, so
// every failure is normalized and reported exactly once.
type Client struct {
	base     string
	http     *http.Client
	username string
	password string
	notifier Notifier
	log      *zap.Logger
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		base:     strings.TrimRight(opts.BaseURL, "/"),
		http:     &http.Client{Timeout: opts.Timeout},
		username: opts.Username,
		password: opts.Password,
		notifier: opts.Notifier,
		log:      opts.Logger,
	}
}

// request performs one backend call. The body is attached only for
// methods that carry a payload. On failure the Notifier is invoked with
// the normalized message before the error is returned. Context
// cancellation is the caller's own doing and is only logged.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	reqID := uuid.New().String()
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut) {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(reqID, method, path, fmt.Errorf("encode request body: %w", err))
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, c.fail(reqID, method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.log.Debug("api request",
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("url", target))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(reqID, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(reqID, method, path, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(reqID, method, path, &RequestError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		})
	}

	if len(data) == 0 {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// fail logs the error, notifies once, and returns the error unchanged.
func (c *Client) fail(reqID, method, path string, err error) error {
	c.log.Error("api request failed",
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Error(err))

	if errors.Is(err, context.Canceled) {
		return err
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		c.notifier.Notify(reqErr.Message)
	} else {
		c.notifier.Notify(genericErrorMessage)
	}
	return err
}

// errorMessage extracts the "error" field from an error response body,
// falling back to a generic message when the body is not parseable.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return genericErrorMessage
	}
	return payload.Error
}
