package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/App-Start-Dev/innolympics-api/internal/auth"
	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/App-Start-Dev/innolympics-api/internal/storage"
	"github.com/App-Start-Dev/innolympics-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

// stubResponder returns a fixed reply for every prompt.
type stubResponder struct {
	reply string
	err   error

	// lastPrompt records the most recent prompt for assertions.
	lastPrompt string
}

func (s *stubResponder) Respond(ctx context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// testEnv bundles the router and its injected fakes.
type testEnv struct {
	router    *gin.Engine
	store     *store.MemoryStore
	blobs     *storage.MemoryBlobStore
	responder *stubResponder
	verifier  *auth.JWTVerifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:     store.NewMemoryStore(),
		blobs:     storage.NewMemoryBlobStore(),
		responder: &stubResponder{reply: "Here is some guidance."},
		verifier:  auth.NewJWTVerifier(testSecret, "test"),
	}
	env.router = NewRouter(Dependencies{
		Store:       env.store,
		Blobs:       env.blobs,
		Responder:   env.responder,
		Verifier:    env.verifier,
		Logger:      zap.NewNop(),
		Version:     "test",
		CORSOrigins: []string{"*"},
	})
	return env
}

// token mints a bearer token for the given identity.
func (e *testEnv) token(t *testing.T, uid, name string) string {
	t.Helper()
	token, err := e.verifier.GenerateToken(auth.Identity{UID: uid, Name: name}, time.Hour)
	require.NoError(t, err)
	return token
}

// do performs a JSON request as the given identity and returns the
// recorded response.
func (e *testEnv) do(t *testing.T, method, path string, body any, uid, name string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if uid != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(t, uid, name))
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// createChild creates a child for the given parent and returns it.
func (e *testEnv) createChild(t *testing.T, parentUID, parentName, childName string) models.Child {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/child", gin.H{
		"name":     childName,
		"birthday": "2018-04-02",
		"sex":      "male",
		"asd_type": "level 1",
	}, parentUID, parentName)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var child models.Child
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &child))
	return child
}

// joinGroup joins uid to the group identified by code.
func (e *testEnv) joinGroup(t *testing.T, code, uid, name string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/api/support-group/join", gin.H{"code": code}, uid, name)
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
