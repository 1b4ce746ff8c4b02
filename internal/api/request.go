package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ErrUnexpectedContent is returned when a response cannot be decoded into
// the requested value.
var ErrUnexpectedContent = errors.New("unexpected response content")

// Result is a successful response. JSON is set for JSON bodies (and for 204,
// which yields an empty object); Text holds any other body.
type Result struct {
	Header      http.Header
	ContentType string
	Text        string
	JSON        json.RawMessage
	StatusCode  int
}

// IsJSON reports whether the response carried a JSON body.
func (r *Result) IsJSON() bool {
	return r.JSON != nil
}

// Decode unmarshals the response into out. Text responses can be decoded
// into *string or *[]byte.
func (r *Result) Decode(out any) error {
	if out == nil {
		return nil
	}
	if r.JSON != nil {
		if err := json.Unmarshal(r.JSON, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}
	switch v := out.(type) {
	case *string:
		*v = r.Text
		return nil
	case *[]byte:
		*v = []byte(r.Text)
		return nil
	}
	return fmt.Errorf("%w: cannot decode %q body into %T", ErrUnexpectedContent, r.ContentType, out)
}

type requestOptions struct {
	headers http.Header
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

// WithRequestHeader overrides a header for one request.
func WithRequestHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.headers.Set(key, value)
	}
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, params Params, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, params, out, opts...)
}

// Post issues a POST with body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body any, params Params, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, params, out, opts...)
}

// Put issues a PUT with body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body any, params Params, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, body, params, out, opts...)
}

// Patch issues a PATCH with body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body any, params Params, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, path, body, params, out, opts...)
}

// Delete issues a DELETE and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, params Params, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, params, out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body any, params Params, out any, opts ...RequestOption) error {
	result, err := c.Request(ctx, method, path, body, params, opts...)
	if err != nil {
		return err
	}
	return result.Decode(out)
}

// Request sends one HTTP request and classifies the response. Any failure is
// returned as an *Error; network failures carry StatusCode 0.
func (c *Client) Request(ctx context.Context, method, path string, body any, params Params, opts ...RequestOption) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.wait(ctx); err != nil {
			return nil, &Error{Message: err.Error(), Err: err}
		}
	}

	reqURL := c.buildURL(path, params)

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	o := requestOptions{headers: c.headers.Clone()}
	o.headers.Set(HeaderRequestID, uuid.NewString())
	for _, opt := range opts {
		opt(&o)
	}
	if contentType != "" {
		// Multipart bodies carry their own boundary.
		o.headers.Set("Content-Type", contentType)
	}
	req.Header = o.headers

	c.logger.Debug("Sending API request",
		"method", method,
		"url", reqURL,
		"request_id", o.headers.Get(HeaderRequestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	result, err := readResponse(resp)
	if err != nil {
		c.logger.Debug("API request failed",
			"method", method,
			"url", reqURL,
			"status", resp.StatusCode,
			"error", err)
		return nil, err
	}
	return result, nil
}

// encodeBody returns the body reader and, for multipart forms, the content
// type that must replace the JSON default.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case *Form:
		if v == nil {
			return nil, "", nil
		}
		return v.encode()
	case string:
		return strings.NewReader(v), "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case json.RawMessage:
		return bytes.NewReader(v), "", nil
	case io.Reader:
		return v, "", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "", nil
	}
}

func readResponse(resp *http.Response) (*Result, error) {
	result := &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Header:      resp.Header,
	}

	if resp.StatusCode == http.StatusNoContent {
		result.JSON = json.RawMessage("{}")
		return result, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Message:    fmt.Sprintf("failed to read response: %v", err),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newResponseError(resp.StatusCode, data)
	}

	if !isJSONContent(result.ContentType) {
		result.Text = string(data)
		return result, nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.JSON = json.RawMessage("{}")
		return result, nil
	}
	if !json.Valid(data) {
		return nil, &Error{
			Message:    "invalid JSON in response body",
			StatusCode: resp.StatusCode,
			Err:        ErrUnexpectedContent,
		}
	}
	result.JSON = data
	return result, nil
}

func isJSONContent(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "application/json")
	}
	return strings.Contains(mediaType, "application/json")
}
