package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"connectrpc.com/connect"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// send performs a plain HTTP request against path and returns the response
// if its status is 2xx. Other statuses become a *ServerError.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("API error", "path", path, "error", err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("API response",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, readServerError(path, resp)
	}
	return resp, nil
}

// sendJSON posts v as JSON.
func (c *Client) sendJSON(ctx context.Context, path string, v any) (*http.Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for %s: %w", path, err)
	}
	return c.send(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json")
}

// readServerError extracts the backend's message from an error response.
// JSON bodies with "error" or "message" win over the raw text.
func readServerError(path string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(data))
	var body MessageResponse
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Error != "":
			msg = body.Error
		case body.Message != "":
			msg = body.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	slog.Warn("API rejected request", "path", path, "status", resp.StatusCode, "message", msg)
	return &ServerError{Path: path, Status: resp.StatusCode, Message: msg}
}

// decodeMessage reads a {message} | {error} body.
func decodeMessage(path string, resp *http.Response) (string, error) {
	defer resp.Body.Close()

	var body MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if body.Error != "" {
		return "", &ServerError{Path: path, Status: resp.StatusCode, Message: body.Error}
	}
	return body.Message, nil
}

// headerServerStatus is set on error responses rebuilt by serverErrors and
// carries the backend's original HTTP status.
const headerServerStatus = "X-Rollcall-Server-Status"

// serverErrors rewrites {"error": msg} bodies of failed responses into
// Connect error bodies. The backend answers bad JSON requests that way, and
// the Connect client would otherwise drop the message.
type serverErrors struct {
	next http.RoundTripper
}

func (t serverErrors) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode < 400 {
		return resp, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		resp.Body.Close()
		return nil, err
	}

	var body struct {
		Code  json.RawMessage `json:"code"`
		Error string          `json:"error"`
	}
	if json.Unmarshal(data, &body) != nil || body.Code != nil || body.Error == "" {
		resp.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(data), resp.Body), resp.Body}
		return resp, nil
	}
	resp.Body.Close()

	out, err := json.Marshal(struct {
		Code    connect.Code `json:"code"`
		Message string       `json:"message"`
	}{codeForStatus(resp.StatusCode), body.Error})
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(out))
	resp.ContentLength = int64(len(out))
	resp.Header.Del("Content-Length")
	resp.Header.Set("Content-Type", "application/json")
	resp.Header.Set(headerServerStatus, strconv.Itoa(resp.StatusCode))
	return resp, nil
}

func codeForStatus(status int) connect.Code {
	switch status {
	case http.StatusBadRequest:
		return connect.CodeInvalidArgument
	case http.StatusUnauthorized:
		return connect.CodeUnauthenticated
	case http.StatusForbidden:
		return connect.CodePermissionDenied
	case http.StatusNotFound:
		return connect.CodeNotFound
	case http.StatusServiceUnavailable:
		return connect.CodeUnavailable
	case http.StatusInternalServerError:
		return connect.CodeInternal
	}
	return connect.CodeUnknown
}

// serverError returns the *ServerError behind a Connect error rebuilt by
// serverErrors, or nil.
func serverError(path string, err error) *ServerError {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return nil
	}
	status, convErr := strconv.Atoi(connectErr.Meta().Get(headerServerStatus))
	if convErr != nil {
		return nil
	}
	return &ServerError{Path: path, Status: status, Message: connectErr.Message()}
}
