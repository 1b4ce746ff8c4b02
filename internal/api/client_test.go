package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL: server.URL + "/api/v1/",
		APIKey:  "test-key",
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client, server
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "api key",
			config: Config{APIKey: "key"},
		},
		{
			name:   "bearer token with workspace",
			config: Config{BearerToken: "token", WorkspaceID: "ws"},
		},
		{
			name:    "bearer token without workspace",
			config:  Config{BearerToken: "token"},
			wantErr: true,
		},
		{
			name:    "no credentials",
			config:  Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingCredentials)
				return
			}
			require.NoError(t, err)
			defer client.Close()
			assert.Equal(t, DefaultBaseURL, client.BaseURL())
		})
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	client, err := New(Config{APIKey: "key", BaseURL: "https://example.test/api/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/api/v1", client.BaseURL())
}

func TestRequest_Headers(t *testing.T) {
	var got http.Header
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusOK, `{}`)
	}, WithHeader("X-Client", "cli"))

	err := client.Get(context.Background(), "/projects", nil, nil, WithRequestHeader("Accept", "text/csv"))
	require.NoError(t, err)

	assert.Equal(t, "test-key", got.Get(HeaderAPIKey))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "text/csv", got.Get("Accept"))
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.Equal(t, "cli", got.Get("X-Client"))

	_, err = uuid.Parse(got.Get(HeaderRequestID))
	assert.NoError(t, err, "request id should be a uuid")
}

func TestRequest_BearerHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, BearerToken: "tok", WorkspaceID: "ws-1"})
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), "/projects/p1", nil, nil))
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "ws-1", got.Get(HeaderWorkspaceID))
	assert.Empty(t, got.Get(HeaderAPIKey))
}

func TestRequest_NoContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// A misleading content type must not matter for 204.
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNoContent)
	})

	result, err := client.Request(context.Background(), http.MethodDelete, "/projects/p1", nil, nil)
	require.NoError(t, err)
	assert.True(t, result.IsJSON())
	assert.JSONEq(t, `{}`, string(result.JSON))

	var out map[string]any
	require.NoError(t, result.Decode(&out))
	assert.Empty(t, out)
}

func TestRequest_TextResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	})

	var body string
	err := client.Get(context.Background(), "/export", nil, &body)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", body)

	var obj map[string]any
	err = client.Get(context.Background(), "/export", nil, &obj)
	assert.ErrorIs(t, err, ErrUnexpectedContent)
}

func TestRequest_EmptyAndInvalidJSON(t *testing.T) {
	body := ""
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, body)
	})

	result, err := client.Request(context.Background(), http.MethodGet, "/empty", nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(result.JSON))

	body = "{oops"
	_, err = client.Request(context.Background(), http.MethodGet, "/broken", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedContent)
	assert.Equal(t, http.StatusOK, StatusCode(err))
}

func TestRequest_ErrorStatus(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantMessage string
		wantDetails map[string]any
		status      int
	}{
		{
			name:        "json error with details",
			status:      http.StatusUnprocessableEntity,
			contentType: "application/json",
			body:        `{"error":"amount is required","details":{"field":"amount"}}`,
			wantMessage: "amount is required",
			wantDetails: map[string]any{"field": "amount"},
		},
		{
			name:        "json message fallback",
			status:      http.StatusForbidden,
			contentType: "application/json",
			body:        `{"message":"forbidden workspace"}`,
			wantMessage: "forbidden workspace",
		},
		{
			name:        "nested error object",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"error":{"message":"bad phase"}}`,
			wantMessage: "bad phase",
		},
		{
			name:        "json without message uses status text",
			status:      http.StatusNotFound,
			contentType: "application/json",
			body:        `{}`,
			wantMessage: "Not Found",
		},
		{
			name:        "plain text body",
			status:      http.StatusBadGateway,
			contentType: "text/plain",
			body:        "upstream exploded",
			wantMessage: "upstream exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.Get(context.Background(), "/projects", nil, nil)
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantDetails, apiErr.Details)
		})
	}
}

func TestRequest_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := New(Config{BaseURL: baseURL, APIKey: "key"})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/projects", nil, nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)
	assert.NotNil(t, errors.Unwrap(apiErr))
	assert.True(t, IsTransient(err))
}

func TestRequest_JSONBody(t *testing.T) {
	var gotBody string
	var gotMethod string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		writeJSON(w, http.StatusCreated, `{"id":"p1","name":"Pilot","status":"active"}`)
	})

	var out map[string]any
	err := client.Put(context.Background(), "projects/p1", map[string]string{"name": "Pilot"}, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.JSONEq(t, `{"name":"Pilot"}`, gotBody)
	assert.Equal(t, "Pilot", out["name"])
}

func TestRequest_StringBodyPassesThrough(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Post(context.Background(), "/raw", `{"already":"encoded"}`, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"already":"encoded"}`, gotBody)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "network", err: &Error{Message: "dial"}, want: true},
		{name: "rate limited", err: &Error{StatusCode: http.StatusTooManyRequests}, want: true},
		{name: "server error", err: &Error{StatusCode: http.StatusServiceUnavailable}, want: true},
		{name: "client error", err: &Error{StatusCode: http.StatusBadRequest}, want: false},
		{name: "canceled", err: &Error{Message: "canceled", Err: context.Canceled}, want: false},
		{name: "plain error", err: errors.New("other"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "api request failed: connection refused", (&Error{Message: "connection refused"}).Error())
	assert.Equal(t, "api error (status 404): Not Found", (&Error{StatusCode: 404, Message: "Not Found"}).Error())
	assert.True(t, IsNotFound(&Error{StatusCode: 404}))
	assert.Equal(t, -1, StatusCode(errors.New("x")))
}
