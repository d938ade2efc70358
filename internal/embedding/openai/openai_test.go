package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag/internal/domain"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("TEST_EMBED_KEY", "secret")
	c, err := NewClient(Config{BaseURL: url, APIKeyEnv: "TEST_EMBED_KEY", MaxRetries: 2})
	require.NoError(t, err)
	c.retryBase = time.Millisecond
	return c
}

func TestClient_RetryDelay_CapsLargeAttempts(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	c.retryBase = 200 * time.Millisecond

	assert.Equal(t, 200*time.Millisecond, c.retryDelay(0, nil))
	assert.Equal(t, 800*time.Millisecond, c.retryDelay(2, nil))
	for _, attempt := range []int{5, 35, 40, 64, 1000} {
		assert.Equal(t, maxRetryDelay, c.retryDelay(attempt, nil), "attempt %d", attempt)
	}
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY_MISSING", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_EMBED_KEY_MISSING"})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestClient_Embed_PadsToFixedWidth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "indemnify", body["input"])
		assert.EqualValues(t, domain.EmbeddingDimension, body["dimensions"])

		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5,0.25]}]}`))
	}))
	defer srv.Close()

	vec, err := newTestClient(t, srv.URL).Embed(context.Background(), "indemnify")
	require.NoError(t, err)
	assert.Len(t, vec, domain.EmbeddingDimension)
	assert.Equal(t, 0.5, vec[0])
	assert.Equal(t, 0.25, vec[1])
	assert.Zero(t, vec[2])
}

func TestClient_Embed_OllamaShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[1,2,3]}`))
	}))
	defer srv.Close()

	vec, err := newTestClient(t, srv.URL).Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, vec[:3])
}

func TestClient_Embed_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1]}]}`))
	}))
	defer srv.Close()

	vec, err := newTestClient(t, srv.URL).Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 1.0, vec[0])
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_Embed_ClientErrorIsFinal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Embed(context.Background(), "x")
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_Embed_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}
