package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainya/proptree/internal/logger"
	"github.com/nainya/proptree/internal/metrics"
	"github.com/nainya/proptree/pkg/property"
	"github.com/nainya/proptree/pkg/version"
	"github.com/nainya/proptree/pkg/wire"
)

func setupTestServer(t *testing.T) (*ObservabilityServer, *metrics.Metrics) {
	t.Helper()
	store := version.NewStore()

	tree := property.NewTree()
	_, err := tree.AddString("title", "Hello")
	require.NoError(t, err)
	_, err = tree.SetString("address.street", "Main")
	require.NoError(t, err)
	_, err = store.Create(tree, version.CreateOptions{ID: "v1", At: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Tags: []string{"first"}})
	require.NoError(t, err)

	_, err = tree.SetString("title", "Hello again")
	require.NoError(t, err)
	_, err = tree.AddLong("revision", 2)
	require.NoError(t, err)
	_, err = store.Create(tree, version.CreateOptions{ID: "v2", At: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	m := metrics.NewMetrics()
	return NewObservabilityServer("127.0.0.1:0", store, m, logger.Nop()), m
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := setupTestServer(t)

	rec := get(t, srv.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	rec = get(t, srv.Handler(), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	empty := NewObservabilityServer(":0", version.NewStore(), metrics.NewMetrics(), logger.Nop())
	rec = get(t, empty.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetTreeServesLatestVersion(t *testing.T) {
	srv, _ := setupTestServer(t)

	rec := get(t, srv.Handler(), "/tree")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v2", rec.Header().Get("X-Version"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	tree, err := wire.JSONCodec{}.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	title, _ := tree.GetString("title")
	assert.Equal(t, "Hello again", title)
}

func TestGetTreeByVersionAndFormat(t *testing.T) {
	srv, _ := setupTestServer(t)

	rec := get(t, srv.Handler(), "/tree?version=v1&format=yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	tree, err := wire.YAMLCodec{}.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	title, _ := tree.GetString("title")
	assert.Equal(t, "Hello", title)

	rec = get(t, srv.Handler(), "/tree?format=xml")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, srv.Handler(), "/tree?version=v7")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProperty(t *testing.T) {
	srv, _ := setupTestServer(t)

	rec := get(t, srv.Handler(), "/tree/address.street")
	require.Equal(t, http.StatusOK, rec.Code)
	var view PropertyView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, ".address.street", view.Path)
	assert.Equal(t, "String", view.Type)
	assert.Equal(t, "Main", view.Value)

	rec = get(t, srv.Handler(), "/tree/address")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "PropertySet", view.Type)
	require.Len(t, view.Set, 1)
	assert.Equal(t, "street", view.Set[0].Name)

	rec = get(t, srv.Handler(), "/tree/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, srv.Handler(), "/tree/a..b")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPropertyKeepsZeroValues(t *testing.T) {
	store := version.NewStore()
	tree := property.NewTree()
	_, err := tree.AddBoolean("enabled", false)
	require.NoError(t, err)
	_, err = tree.AddLong("count", 0)
	require.NoError(t, err)
	_, err = tree.AddString("label", "")
	require.NoError(t, err)
	_, err = tree.AddProperty("missing", property.NullValue(property.TypeLong))
	require.NoError(t, err)
	_, err = store.Create(tree, version.CreateOptions{ID: "v1"})
	require.NoError(t, err)
	srv := NewObservabilityServer(":0", store, metrics.NewMetrics(), logger.Nop())

	tests := []struct {
		ref  string
		want string
	}{
		{"enabled", `"value":false`},
		{"count", `"value":0`},
		{"label", `"value":""`},
		{"missing", `"value":null`},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			rec := get(t, srv.Handler(), "/tree/"+tt.ref)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestFailedRequestsLogAboveDebug(t *testing.T) {
	store := version.NewStore()
	_, err := store.Create(property.NewTree(), version.CreateOptions{ID: "v1"})
	require.NoError(t, err)
	var buf bytes.Buffer
	log := logger.NewLogger(logger.Config{Level: "warn", Output: &buf})
	srv := NewObservabilityServer(":0", store, metrics.NewMetrics(), log)

	get(t, srv.Handler(), "/health")
	assert.Empty(t, buf.String())

	get(t, srv.Handler(), "/tree/missing")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "HTTP request rejected", line["msg"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, "/tree/{path:.+}", line["route"])
}

func TestListVersions(t *testing.T) {
	srv, _ := setupTestServer(t)

	rec := get(t, srv.Handler(), "/versions")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Versions []VersionView `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Versions, 2)
	assert.Equal(t, "v1", body.Versions[0].ID)
	assert.Equal(t, []string{"first"}, body.Versions[0].Tags)
	assert.Equal(t, 3, body.Versions[0].Properties)
	assert.Equal(t, 4, body.Versions[1].Properties)

	rec = get(t, srv.Handler(), "/versions/v1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-Version"))
}

func TestDiffVersions(t *testing.T) {
	srv, m := setupTestServer(t)

	rec := get(t, srv.Handler(), "/versions/v1/diff/v2")
	require.Equal(t, http.StatusOK, rec.Code)

	var view DiffView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, []string{".revision"}, view.Added)
	assert.Empty(t, view.Removed)
	require.Len(t, view.Modified, 1)
	assert.Equal(t, ModificationView{Path: ".title", Type: "String", Old: "Hello", New: "Hello again"}, view.Modified[0])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DiffsTotal))

	rec = get(t, srv.Handler(), "/versions/v1/diff/v9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestsAreCountedByRoute(t *testing.T) {
	srv, m := setupTestServer(t)

	get(t, srv.Handler(), "/tree/title")
	get(t, srv.Handler(), "/tree/address.street")
	get(t, srv.Handler(), "/tree/missing")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/tree/{path:.+}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/tree/{path:.+}", "404")))

	rec := get(t, srv.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ptree_http_requests_total"))
}
