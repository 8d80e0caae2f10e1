package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	return `{"choices":[{"message":{"content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestCompleteSuccess(t *testing.T) {
	var gotBody map[string]interface{}
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(completionBody("hello back")))
	}))
	defer srv.Close()

	client := NewClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "gsk_test", Model: "llama-3.3-70b-versatile"}
	got, err := client.Complete(context.Background(), cfg, []ChatMessage{
		{Role: RoleUser, Content: "hello"},
	}, CompleteOptions{Temperature: Temperature(0.7)})

	require.NoError(t, err)
	assert.Equal(t, "hello back", got)
	assert.Equal(t, "Bearer gsk_test", gotAuth)
	assert.Equal(t, "llama-3.3-70b-versatile", gotBody["model"])
	assert.Equal(t, 0.7, gotBody["temperature"])
}

func TestCompleteOmitsTemperatureWhenUnset(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	client := NewClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}
	_, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: RoleUser, Content: "x"}}, CompleteOptions{})
	require.NoError(t, err)
	_, hasTemp := gotBody["temperature"]
	assert.False(t, hasTemp)
}

func TestCompleteProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit reached"}}`))
	}))
	defer srv.Close()

	client := NewClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}
	_, err := client.Complete(context.Background(), cfg, nil, CompleteOptions{})

	var compErr *CompletionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, FailureProvider, compErr.Kind)
	assert.Equal(t, "rate limit reached", compErr.Message)
	assert.Equal(t, http.StatusTooManyRequests, compErr.Status)
}

func TestCompleteProviderFailureWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	}))
	defer srv.Close()

	client := NewClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}
	_, err := client.Complete(context.Background(), cfg, nil, CompleteOptions{})

	var compErr *CompletionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, FailureProvider, compErr.Kind)
	assert.Contains(t, compErr.Message, "500")
}

func TestCompleteMalformedResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices":[]}`},
		{"missing field", `{"id":"cmpl-1"}`},
		{"not json", `<html>gateway</html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient()
			cfg := ChatConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}
			_, err := client.Complete(context.Background(), cfg, nil, CompleteOptions{})

			var compErr *CompletionError
			require.ErrorAs(t, err, &compErr)
			assert.Equal(t, FailureMalformed, compErr.Kind)
		})
	}
}

func TestCompleteNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}
	_, err := client.Complete(context.Background(), cfg, nil, CompleteOptions{})

	var compErr *CompletionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, FailureNetwork, compErr.Kind)
}

func TestValidateKey(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		body        string
		wantValid   bool
		wantMessage string
	}{
		{"valid", http.StatusOK, `{"data":[]}`, true, ""},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"Invalid API Key"}}`, false, "Invalid API Key"},
		{"forbidden no message", http.StatusForbidden, `{}`, false, "invalid api key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/models", r.URL.Path)
				require.Equal(t, "Bearer probe-key", r.Header.Get("Authorization"))
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient()
			cfg := ChatConfig{BaseURL: srv.URL, APIKey: "probe-key"}
			got, err := client.ValidateKey(context.Background(), cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.wantValid, got.Valid)
			assert.Equal(t, tc.wantMessage, got.Message)
		})
	}
}

func TestValidateKeyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":{"message":"upstream down"}}`))
	}))
	defer srv.Close()

	client := NewClient()
	got, err := client.ValidateKey(context.Background(), ChatConfig{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.Contains(t, got.Message, "502")
	assert.Contains(t, got.Message, "upstream down")
}

func TestValidateKeyTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient()
	got, err := client.ValidateKey(context.Background(), ChatConfig{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.Contains(t, got.Message, "network error")
}

func TestCompletionErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := networkError("request failed", cause)
	assert.ErrorIs(t, err, cause)
}
