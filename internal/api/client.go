// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the gateway to the Chartwright chat service. It owns
// request construction, header injection, response classification, and
// error normalization: HTTP-level failures come back as *Error values, not
// panics, so every call site handles one uniform shape.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Configuration constants for the Chartwright API.
const (
	// DefaultBaseURL is the production API origin.
	DefaultBaseURL = "https://lbserver.clintechso.com/api/"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps response bodies to keep a misbehaving server
	// from exhausting memory.
	MaxResponseSize = 10 * 1024 * 1024

	// userAgent identifies the client to the service.
	userAgent = "chartwright-tui/0.2.0"
)

// sharedHTTPClient is the pooled transport shared by all gateway requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error is a normalized gateway failure. Status is the HTTP status code,
// or 0 for transport-level faults (DNS, connection, timeout).
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

// ErrUnauthorized indicates the token was rejected (HTTP 401).
var ErrUnauthorized = errors.New("unauthorized")

// Is maps 401 responses onto ErrUnauthorized so call sites can detect
// session expiry with errors.Is.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// UserMessage returns the human-readable text to surface in the UI.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// =============================================================================
// CLIENT
// =============================================================================

// Client performs requests against the chat service. It holds no session
// state: the token is passed per call by whoever owns it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a gateway client for the given base origin. An empty
// baseURL selects the production origin.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		httpClient: sharedHTTPClient,
		// Pace outgoing requests so a key-repeat burst in the UI cannot
		// hammer the service. Not a retry policy: each call still runs once.
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

// WithTimeout sets a custom request timeout. The client switches to a
// dedicated http.Client so the shared pool's timeout is untouched.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// BaseURL returns the origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST
// =============================================================================

// Request performs one round trip against the service and returns the
// normalized payload. body (when non-nil) is JSON-encoded; token (when
// non-empty) is sent as a bearer credential. Response envelopes
// ({"data": ...}) are unwrapped here so callers always see the bare
// payload. Empty responses return a nil payload.
//
// No retries, no caching: every call is a fresh round trip.
func (c *Client) Request(ctx context.Context, method, path string, body any, token string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Message: err.Error()}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Message: "failed to encode request: " + err.Error()}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+strings.TrimPrefix(path, "/"), reqBody)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	c.setHeaders(req, token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// Drop the credential from the request object right away so it can
	// never leak through logging of the request.
	req.Header.Del("Authorization")

	if err != nil {
		logResponse(method, path, 0, time.Since(start))
		return nil, transportError(err)
	}
	defer resp.Body.Close()
	logResponse(method, path, resp.StatusCode, time.Since(start))

	raw, err := readResponse(resp)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: err.Error()}
	}

	isJSON := jsonContentType(resp.Header.Get("Content-Type"))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp.StatusCode, raw, isJSON)
	}

	if !isJSON || len(raw) == 0 {
		return nil, nil
	}
	return unwrapEnvelope(raw), nil
}

// setHeaders sets the headers every request carries.
func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// logResponse logs one round trip: method, path, status, duration. Never
// headers or bodies; either may carry credentials or user content.
func logResponse(method, path string, status int, d time.Duration) {
	log.Printf("api: %s %s -> %d (%v)", method, path, status, d)
}

// readResponse reads the body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// jsonContentType reports whether the declared content type is JSON.
func jsonContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// envelope is the wrapper shape some endpoints return instead of the bare
// payload.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// unwrapEnvelope returns the inner payload of a {"data": X} wrapper, or the
// input unchanged when it is not wrapped. This is the single unwrapping
// rule; call sites never inspect envelopes themselves.
func unwrapEnvelope(raw json.RawMessage) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return raw
}

// errorBody is the error shape the service returns: DRF-style "detail" or
// a looser "message" field.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// errorFromResponse extracts a human-readable message from a non-success
// response.
func errorFromResponse(status int, raw []byte, isJSON bool) *Error {
	if isJSON {
		var eb errorBody
		if err := json.Unmarshal(raw, &eb); err == nil {
			if eb.Detail != "" {
				return &Error{Status: status, Message: eb.Detail}
			}
			if eb.Message != "" {
				return &Error{Status: status, Message: eb.Message}
			}
		}
		return &Error{Status: status, Message: "request failed"}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return &Error{Status: status, Message: text}
	}
	return &Error{Status: status, Message: "request failed"}
}

// transportError normalizes a transport-level fault into an *Error.
func transportError(err error) *Error {
	msg := err.Error()
	if msg == "" {
		msg = "network error"
	}
	return &Error{Message: msg}
}
