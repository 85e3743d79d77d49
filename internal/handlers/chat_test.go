package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChat(t *testing.T) {
	env := newTestEnv(t)
	child := env.createChild(t, "parent-1", "Pat", "Alex")
	env.joinGroup(t, child.SupportCode, "carer-1", "Gail")

	chatBody := gin.H{"child_id": child.ID, "message": "How do I handle bedtime?"}

	t.Run("member asks a question", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/chat", chatBody, "carer-1", "Gail")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		out := decodeJSON(t, w)
		assert.Equal(t, "How do I handle bedtime?", out["question"])
		assert.Equal(t, "Here is some guidance.", out["response"])
		assert.Equal(t, "carer-1", out["author_uid"])

		// The prompt carries the child's profile and the question.
		assert.Contains(t, env.responder.lastPrompt, "Alex")
		assert.Contains(t, env.responder.lastPrompt, "How do I handle bedtime?")
	})

	t.Run("prompt includes journal observations", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/journal", gin.H{
			"child_id": child.ID,
			"title":    "Loud noises",
			"content":  "Struggled at the supermarket today.",
		}, "parent-1", "Pat")
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodPost, "/api/chat", chatBody, "parent-1", "Pat")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, env.responder.lastPrompt, "Loud noises")
	})

	t.Run("stranger denied", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/chat", chatBody, "stranger-1", "Sam")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown child", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/chat", gin.H{
			"child_id": uuid.New(), "message": "hello",
		}, "parent-1", "Pat")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing message", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/chat", gin.H{"child_id": child.ID}, "parent-1", "Pat")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("responder failure surfaces as 502 and stores nothing", func(t *testing.T) {
		before, err := env.store.ListChatEntries(context.Background(), child.ID)
		require.NoError(t, err)

		env.responder.err = errors.New("model unavailable")
		defer func() { env.responder.err = nil }()

		w := env.do(t, http.MethodPost, "/api/chat", chatBody, "parent-1", "Pat")
		assert.Equal(t, http.StatusBadGateway, w.Code)

		after, err := env.store.ListChatEntries(context.Background(), child.ID)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}

func TestListChat(t *testing.T) {
	env := newTestEnv(t)
	child := env.createChild(t, "parent-1", "Pat", "Alex")
	env.joinGroup(t, child.SupportCode, "carer-1", "Gail")

	for _, q := range []string{"first question", "second question"} {
		w := env.do(t, http.MethodPost, "/api/chat", gin.H{"child_id": child.ID, "message": q}, "parent-1", "Pat")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	path := "/api/chat/" + child.ID.String()

	t.Run("member lists history in order", func(t *testing.T) {
		w := env.do(t, http.MethodGet, path, nil, "carer-1", "Gail")
		require.Equal(t, http.StatusOK, w.Code)

		entries := decodeJSON(t, w)["entries"].([]any)
		require.Len(t, entries, 2)
		assert.Equal(t, "first question", entries[0].(map[string]any)["question"])
		assert.Equal(t, "second question", entries[1].(map[string]any)["question"])
	})

	t.Run("stranger denied", func(t *testing.T) {
		w := env.do(t, http.MethodGet, path, nil, "stranger-1", "Sam")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
