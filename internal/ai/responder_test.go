package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/App-Start-Dev/innolympics-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponder(t *testing.T, handler http.HandlerFunc) *GeminiResponder {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	responder, err := NewGeminiResponder(&config.AIConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return responder
}

func TestGeminiResponder(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an API key", func(t *testing.T) {
		_, err := NewGeminiResponder(&config.AIConfig{})
		assert.Error(t, err)
	})

	t.Run("returns the first candidate text", func(t *testing.T) {
		var gotPath string
		var gotBody generateRequest

		responder := newTestResponder(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			json.NewEncoder(w).Encode(generateResponse{
				Candidates: []struct {
					Content content `json:"content"`
				}{{Content: content{Parts: []part{{Text: "Try a consistent routine."}}}}},
			})
		})

		text, err := responder.Respond(ctx, "How do I handle bedtime?")
		require.NoError(t, err)
		assert.Equal(t, "Try a consistent routine.", text)
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", gotPath)

		require.Len(t, gotBody.Contents, 1)
		require.Len(t, gotBody.Contents[0].Parts, 1)
		assert.Equal(t, "How do I handle bedtime?", gotBody.Contents[0].Parts[0].Text)
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		responder := newTestResponder(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"code": 429, "message": "quota exceeded"}}`))
		})

		_, err := responder.Respond(ctx, "q")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("empty candidate list", func(t *testing.T) {
		responder := newTestResponder(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": []}`))
		})

		_, err := responder.Respond(ctx, "q")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("context cancellation aborts the call", func(t *testing.T) {
		responder := newTestResponder(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := responder.Respond(cancelled, "q")
		assert.Error(t, err)
	})
}
