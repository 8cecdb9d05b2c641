package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-gateway/pkg/lifecycle/provider"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...provider.Option) *provider.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := provider.New(srv.URL, opts...)
	require.NoError(t, err)
	return client
}

func TestClientDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/content/v3/read/do_123", r.URL.Path)
		assert.Equal(t, "edit", r.URL.Query().Get("mode"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"responseCode": "OK",
			"result": {"content": {"identifier": "do_123", "versionKey": "vk-1"}}
		}`))
	})

	res, err := client.GetByID(context.Background(), "do_123", url.Values{"mode": {"edit"}}, nil)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, http.StatusOK, res.Status)

	item, err := res.Content()
	require.NoError(t, err)
	assert.Equal(t, "do_123", item.Identifier)
	assert.Equal(t, "vk-1", item.VersionKey)
}

func TestClientKeepsErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{
			"responseCode": "RESOURCE_NOT_FOUND",
			"params": {"status": "failed", "err": "ERR_CONTENT_NOT_FOUND", "errmsg": "no such content"},
			"result": {}
		}`))
	})

	res, err := client.GetByID(context.Background(), "do_gone", nil, nil)
	require.NoError(t, err, "a non-2xx envelope is an answer, not a transport error")
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "ERR_CONTENT_NOT_FOUND", res.Params.Err)
}

func TestClientSendsWrappedBody(t *testing.T) {
	var received map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/content/v3/create", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseCode": "OK", "result": {"node_id": "do_1"}}`))
	})

	body := map[string]interface{}{"request": map[string]interface{}{"content": map[string]interface{}{"name": "x"}}}
	res, err := client.Create(context.Background(), body, nil)
	require.NoError(t, err)
	assert.Equal(t, "do_1", res.StringField("node_id"))

	request := received["request"].(map[string]interface{})
	content := request["content"].(map[string]interface{})
	assert.Equal(t, "x", content["name"])
}

func TestClientForwardsCallerHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-1", r.Header.Get("X-Authenticated-Userid"))
		assert.Equal(t, "in.sunbird", r.Header.Get("X-Channel-Id"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseCode": "OK", "result": {}}`))
	}, provider.WithAPIKey("secret"))

	headers := http.Header{}
	headers.Set("X-Authenticated-Userid", "user-1")
	headers.Set("X-Channel-Id", "in.sunbird")
	// Caller-supplied credentials never override the configured key.
	headers.Set("Authorization", "Bearer stolen")
	headers.Set("Content-Type", "text/plain")

	_, err := client.Search(context.Background(), map[string]interface{}{}, headers)
	require.NoError(t, err)
}

func TestClientRoutes(t *testing.T) {
	tests := []struct {
		name       string
		wantMethod string
		wantPath   string
		call       func(c *provider.Client) error
	}{
		{
			name: "retire", wantMethod: http.MethodDelete, wantPath: "/content/v3/retire/do_1",
			call: func(c *provider.Client) error {
				_, err := c.Retire(context.Background(), "do_1", nil)
				return err
			},
		},
		{
			name: "unlisted publish", wantMethod: http.MethodPost, wantPath: "/content/v3/unlisted/publish/do_1",
			call: func(c *provider.Client) error {
				_, err := c.UnlistedPublish(context.Background(), nil, "do_1", nil)
				return err
			},
		},
		{
			name: "system update", wantMethod: http.MethodPatch, wantPath: "/system/v3/content/update/do_1",
			call: func(c *provider.Client) error {
				_, err := c.SystemUpdate(context.Background(), nil, "do_1", nil)
				return err
			},
		},
		{
			name: "framework read", wantMethod: http.MethodGet, wantPath: "/framework/v3/read/NCF",
			call: func(c *provider.Client) error {
				_, err := c.GetFrameworkByID(context.Background(), "NCF", nil)
				return err
			},
		},
		{
			name: "composite search", wantMethod: http.MethodPost, wantPath: "/composite/v3/search",
			call: func(c *provider.Client) error {
				_, err := c.Search(context.Background(), map[string]interface{}{}, nil)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotMethod, gotPath = r.Method, r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"responseCode": "OK", "result": {}}`))
			})

			require.NoError(t, tt.call(client))
			assert.Equal(t, tt.wantMethod, gotMethod)
			assert.Equal(t, tt.wantPath, gotPath)
		})
	}
}

func TestClientRejectsMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream proxy error"))
	})

	_, err := client.Search(context.Background(), map[string]interface{}{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClientInvalidBaseURL(t *testing.T) {
	_, err := provider.New("://nope")
	assert.Error(t, err)
}
