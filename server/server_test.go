package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakedeck/lakedeck/form"
	"github.com/lakedeck/lakedeck/store"
	"github.com/lakedeck/lakedeck/types"
)

// memStore keeps connections in a map; enough to drive the handlers.
type memStore struct {
	connections map[string]*types.Connection
}

func newMemStore() *memStore {
	return &memStore{connections: map[string]*types.Connection{}}
}

func (m *memStore) GetConfigRef() store.Config    { return nil }
func (m *memStore) Type() types.StoreType         { return "memory" }
func (m *memStore) Check(_ context.Context) error { return nil }
func (m *memStore) Close(_ context.Context) error { return nil }

func (m *memStore) GetConnection(_ context.Context, id string) (*types.Connection, error) {
	connection, exists := m.connections[id]
	if !exists {
		return nil, fmt.Errorf("connection %s not found", id)
	}
	return connection, nil
}

func (m *memStore) ListConnections(_ context.Context) ([]*types.Connection, error) {
	list := make([]*types.Connection, 0, len(m.connections))
	for _, connection := range m.connections {
		list = append(list, connection)
	}
	return list, nil
}

func (m *memStore) SaveConnection(_ context.Context, connection *types.Connection) error {
	m.connections[connection.ConnectionID] = connection
	return nil
}

func (m *memStore) DeleteConnection(_ context.Context, id string) error {
	if _, exists := m.connections[id]; !exists {
		return fmt.Errorf("connection %s not found", id)
	}
	delete(m.connections, id)
	return nil
}

func newTestServer(t *testing.T, backing store.Store) *httptest.Server {
	t.Helper()

	app, err := NewApp(backing)
	require.NoError(t, err)

	server := httptest.NewServer(app.NewMux())
	t.Cleanup(server.Close)

	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, newMemStore())

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeriveCatalogEndpoint(t *testing.T) {
	server := newTestServer(t, nil)

	input := &types.SyncCatalog{Streams: []*types.ConfiguredStream{
		types.NewStream("users", "public").
			WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
			WithDefaultCursorField("updated_at").
			Wrap(),
	}}

	resp := postJSON(t, server.URL+"/v1/catalog/derive", input)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	derived := decodeBody[types.SyncCatalog](t, resp)
	require.Len(t, derived.Streams, 1)
	assert.Equal(t, types.INCREMENTAL, derived.Streams[0].Config.SyncMode)
	assert.Equal(t, []string{"updated_at"}, derived.Streams[0].Config.CursorField)
}

func TestValidateEndpointFieldErrors(t *testing.T) {
	server := newTestServer(t, nil)

	stream := types.NewStream("users", "public").
		WithSyncMode(types.FULLREFRESH).
		Wrap()
	stream.Config.Selected = true
	stream.Config.SyncMode = types.FULLREFRESH
	stream.Config.DestinationSyncMode = types.APPENDDEDUP

	resp := postJSON(t, server.URL+"/v1/connections/validate", validateRequest{
		Values: &form.Values{
			NamespaceDefinition: types.NamespaceSource,
			SyncCatalog:         &types.SyncCatalog{Streams: []*types.ConfiguredStream{stream}},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	result := decodeBody[types.ValidationResult](t, resp)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "syncCatalog.streams[0].config.primaryKey", result.Errors[0].Path)
}

func TestPutAndGetConnection(t *testing.T) {
	backing := newMemStore()
	server := newTestServer(t, backing)

	stream := types.NewStream("users", "public").WithSyncMode(types.FULLREFRESH).Wrap()
	stream.Config.Selected = true
	stream.Config.SyncMode = types.FULLREFRESH
	stream.Config.DestinationSyncMode = types.OVERWRITE

	body := putConnectionRequest{
		WorkspaceID: "ws-1",
		Values: &form.Values{
			Name:                "pg to lake",
			NamespaceDefinition: types.NamespaceSource,
			Normalization:       types.BASIC,
			SyncCatalog:         &types.SyncCatalog{Streams: []*types.ConfiguredStream{stream}},
		},
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/v1/connections/conn-1", bytes.NewReader(data))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	saved := decodeBody[types.Connection](t, resp)
	assert.Equal(t, "conn-1", saved.ConnectionID)
	assert.Equal(t, "ws-1", saved.WorkspaceID)
	require.Len(t, saved.Operations, 1)
	assert.True(t, saved.Operations[0].IsNormalization())

	getResp, err := http.Get(server.URL + "/v1/connections/conn-1")
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestPutConnectionCountsUnchangedCatalog(t *testing.T) {
	backing := newMemStore()
	server := newTestServer(t, backing)

	stream := types.NewStream("users", "public").WithSyncMode(types.FULLREFRESH).Wrap()
	stream.Config.Selected = true
	stream.Config.SyncMode = types.FULLREFRESH
	stream.Config.DestinationSyncMode = types.OVERWRITE

	data, err := json.Marshal(putConnectionRequest{
		Values: &form.Values{
			Name:                "pg to lake",
			NamespaceDefinition: types.NamespaceSource,
			Normalization:       types.BASIC,
			SyncCatalog:         &types.SyncCatalog{Streams: []*types.ConfiguredStream{stream}},
		},
	})
	require.NoError(t, err)

	put := func() int {
		req, err := http.NewRequest(http.MethodPut, server.URL+"/v1/connections/conn-diff", bytes.NewReader(data))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	// first save creates the connection, so the catalog counts as changed
	require.Equal(t, http.StatusOK, put())
	before := testutil.ToFloat64(catalogNoopWritesTotal)

	// resubmitting the same form is a no-op catalog write
	require.Equal(t, http.StatusOK, put())
	assert.Equal(t, before+1, testutil.ToFloat64(catalogNoopWritesTotal))
}

func TestRouteLabel(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/v1/connections/conn-42", nil)
	assert.Equal(t, "unmatched", routeLabel(request))

	request.Pattern = "GET /v1/connections/{id}"
	assert.Equal(t, "/v1/connections/{id}", routeLabel(request))

	request.Pattern = "/healthz"
	assert.Equal(t, "/healthz", routeLabel(request))
}

func TestLatencyMetricUsesRoutePattern(t *testing.T) {
	backing := newMemStore()
	backing.connections["conn-42"] = &types.Connection{ConnectionID: "conn-42"}
	server := newTestServer(t, backing)

	resp, err := http.Get(server.URL + "/v1/connections/conn-42")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	body, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)

	// connection IDs must not fan out into per-path series
	assert.Contains(t, string(body), `route="/v1/connections/{id}"`)
	assert.NotContains(t, string(body), `route="/v1/connections/conn-42"`)
}

func TestPutConnectionRejectsInvalidForm(t *testing.T) {
	server := newTestServer(t, newMemStore())

	data, err := json.Marshal(putConnectionRequest{
		Values: &form.Values{NamespaceDefinition: "nonsense"},
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/v1/connections/conn-1", bytes.NewReader(data))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestConnectionEndpointsWithoutStore(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/v1/connections")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestFrequenciesEndpoint(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/v1/frequencies")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	options := decodeBody[[]form.FrequencyOption](t, resp)
	require.NotEmpty(t, options)
	assert.Nil(t, options[0].Schedule)
	assert.Equal(t, "Manual", options[0].Label)
}
