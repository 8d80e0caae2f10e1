package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"llm-workbench/internal/ai"
	"llm-workbench/internal/storage"
	"llm-workbench/internal/store"
)

const testAPIKey = "gsk_test_credential_0001"

// completionRequest is what the stub decodes from each provider call so tests
// can assert on the exact prompt the service built.
type completionRequest struct {
	Model       string           `json:"model"`
	Temperature *float64         `json:"temperature"`
	Messages    []ai.ChatMessage `json:"messages"`
}

// providerStub is a scripted OpenAI-compatible endpoint. Replies are consumed
// in order; once they run out every call gets a fixed fallback.
type providerStub struct {
	srv *httptest.Server

	mu         sync.Mutex
	requests   []completionRequest
	replies    []string
	failStatus int
	failBody   string
}

func newProviderStub(t *testing.T, replies ...string) *providerStub {
	t.Helper()
	p := &providerStub{replies: replies}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("provider stub: decode request: %v", err)
		}

		p.mu.Lock()
		p.requests = append(p.requests, req)
		status := p.failStatus
		failBody := p.failBody
		reply := "stub reply"
		if status == 0 && len(p.replies) > 0 {
			reply = p.replies[0]
			p.replies = p.replies[1:]
		}
		p.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			w.Write([]byte(failBody))
			return
		}
		body, _ := json.Marshal(map[string]interface{}{
			"choices": []interface{}{
				map[string]interface{}{
					"message": map[string]interface{}{"content": reply},
				},
			},
		})
		w.Write(body)
	}))
	t.Cleanup(p.srv.Close)
	return p
}

// failWith makes every subsequent call return the given status and body.
func (p *providerStub) failWith(status int, body string) {
	p.mu.Lock()
	p.failStatus = status
	p.failBody = body
	p.mu.Unlock()
}

func (p *providerStub) recorded() []completionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]completionRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

func (p *providerStub) lastRequest(t *testing.T) completionRequest {
	t.Helper()
	reqs := p.recorded()
	require.NotEmpty(t, reqs, "provider stub was never called")
	return reqs[len(reqs)-1]
}

// testDeps builds the store layer on a fresh temp directory with a credential
// already saved.
func testDeps(t *testing.T, provider *providerStub) (*storage.BlobStore, *store.CredentialStore, ai.ChatConfig) {
	t.Helper()
	blobs, err := storage.New(t.TempDir())
	require.NoError(t, err)
	creds := store.NewCredentialStore(blobs)
	require.NoError(t, creds.Save(testAPIKey))
	cfg := ai.ChatConfig{BaseURL: provider.srv.URL, Model: "llama-3.3-70b-versatile"}
	return blobs, creds, cfg
}
