package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/msgboard/msgboard/backend/go-services/internal/message"
	"github.com/msgboard/msgboard/backend/go-services/internal/message/repository"
	"github.com/msgboard/msgboard/backend/go-services/internal/message/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingService struct{ err error }

func (f failingService) List(ctx context.Context) ([]*message.Message, error) { return nil, f.err }
func (f failingService) Create(ctx context.Context, text string) (*message.Message, error) {
	return nil, f.err
}

func newEngine(svc service.Service) *gin.Engine {
	g := gin.New()
	RegisterMessageRoutes(g, svc)
	return g
}

func do(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	g.ServeHTTP(w, req)
	return w
}

func TestMessageHandler_CreateThenList(t *testing.T) {
	g := newEngine(service.NewMemoryService())

	// create
	w := do(g, http.MethodPost, "/messages", `{"text":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "hello", created["text"])
	id, ok := created["_id"].(string)
	require.True(t, ok)
	require.Len(t, id, 24)
	assert.NotEmpty(t, created["createdAt"])

	// list
	w = do(g, http.MethodGet, "/messages", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["_id"])
	assert.Equal(t, "hello", list[0]["text"])
}

func TestMessageHandler_ListEmptyIsArray(t *testing.T) {
	g := newEngine(service.NewMemoryService())
	w := do(g, http.MethodGet, "/messages", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestMessageHandler_ListIsIdempotent(t *testing.T) {
	g := newEngine(service.NewMemoryService())
	for _, text := range []string{"a", "b", "c"} {
		require.Equal(t, http.StatusOK, do(g, http.MethodPost, "/messages", `{"text":"`+text+`"}`).Code)
	}
	first := do(g, http.MethodGet, "/messages", "")
	second := do(g, http.MethodGet, "/messages", "")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, first.Body.String(), second.Body.String())

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0]["text"])
	assert.Equal(t, "c", list[2]["text"])
}

func TestMessageHandler_EmptyTextIsStored(t *testing.T) {
	g := newEngine(service.NewMemoryService())

	for _, body := range []string{`{"text":""}`, `{}`, `{"text":null}`, ""} {
		w := do(g, http.MethodPost, "/messages", body)
		require.Equal(t, http.StatusOK, w.Code, "body %q", body)
		var created map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "", created["text"])
	}

	w := do(g, http.MethodGet, "/messages", "")
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 4)
}

func TestMessageHandler_MalformedBody(t *testing.T) {
	g := newEngine(service.NewMemoryService())
	for _, body := range []string{`{"text":`, `{"text":42}`, `not json`} {
		w := do(g, http.MethodPost, "/messages", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["error"])
	}
	w := do(g, http.MethodGet, "/messages", "")
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestMessageHandler_StoreErrors(t *testing.T) {
	g := newEngine(failingService{err: errors.New("server selection timeout")})

	w := do(g, http.MethodGet, "/messages", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"server selection timeout"}`, w.Body.String())

	w = do(g, http.MethodPost, "/messages", `{"text":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"server selection timeout"}`, w.Body.String())
}

func TestMessageHandler_DatastoreUnreachable(t *testing.T) {
	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200 * time.Millisecond)
	client, err := mongo.Connect(context.Background(), opts)
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	repo := repository.NewMongoRepo(client.Database("test").Collection("messages"))
	g := newEngine(service.New(repo))

	for i := 0; i < 2; i++ {
		w := do(g, http.MethodGet, "/messages", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["error"])
	}
}
