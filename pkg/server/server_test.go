package server

import (
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willbeason/tree-armature/pkg/config"
	"github.com/willbeason/tree-armature/pkg/export"
	"github.com/willbeason/tree-armature/pkg/tree"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(tree.NewGenerator(tree.WithLogger(log)), config.FromParameters(tree.DefaultParameters()), log)
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestServer(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateTree(t *testing.T) {
	body := `{"start_length": 5, "start_tilt": 50, "max_depth": 2, "branches_per_segment": 3,
		"length_increment": -0.75, "tilt_increment": -10, "parallel": true}`
	w := do(newTestServer(), http.MethodPost, "/v1/trees", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc export.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Bones, 13)
	assert.Equal(t, "Trunk", doc.Bones[0].Name)
	assert.InDelta(t, 4.25, doc.Bones[1].Length, 1e-9)
	assert.InDelta(t, 3.5, doc.Bones[2].Length, 1e-9)
}

func TestCreateTree_Defaults(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/v1/trees?format=yaml", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "name: Trunk")
}

func TestCreateTree_Errors(t *testing.T) {
	s := newTestServer()

	w := do(s, http.MethodPost, "/v1/trees", `{"branches_per_segment": 0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid topology")

	w = do(s, http.MethodPost, "/v1/trees", `{"max_depth": 10, "branches_per_segment": 10, "length_increment": 0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "resource limit")

	w = do(s, http.MethodPost, "/v1/trees", `{"max_depth": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(s, http.MethodPost, "/v1/trees?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer()
	do(s, http.MethodPost, "/v1/trees", "")

	w := do(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tree_armature_generator_generations_total")
}
