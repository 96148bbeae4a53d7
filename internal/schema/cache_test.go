package schema

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// fakeClient serves canned schema documents and records what was asked of it.
type fakeClient struct {
	mu       sync.Mutex
	requests []mapi.Request
}

func (f *fakeClient) Send(_ context.Context, request mapi.Request) (*mapi.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, request)
	f.mu.Unlock()

	switch request.Kind {
	case mapi.RequestAPISchema:
		if request.API != mapi.APIConfiguration {
			return mapi.ContentResponse(map[string]any{}), nil
		}

		return mapi.ContentResponse(map[string]any{
			"conference": map[string]any{
				"list_endpoint": "/api/admin/configuration/v1/conference/",
				"schema":        "/api/admin/configuration/v1/conference/schema/",
			},
			"system_location": map[string]any{
				"list_endpoint": "/api/admin/configuration/v1/system_location/",
				"schema":        "/api/admin/configuration/v1/system_location/schema/",
			},
		}), nil
	case mapi.RequestResourceSchema:
		return mapi.ContentResponse(map[string]any{
			"allowed_detail_http_methods": []any{"get"},
			"allowed_list_http_methods":   []any{"get"},
			"default_limit":               float64(20),
			"fields": map[string]any{
				"name": map[string]any{"type": "string"},
			},
		}), nil
	default:
		return nil, fmt.Errorf("unexpected request kind %s", request.Kind)
	}
}

func (f *fakeClient) sent() []mapi.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]mapi.Request(nil), f.requests...)
}

func TestCache_Update(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cache := NewCache(fs, "/cache", nil)
	client := &fakeClient{}

	require.NoError(t, cache.Update(context.Background(), client))

	// One root fetch per namespace, one schema fetch per resource.
	var roots, resources int

	for _, request := range client.sent() {
		switch request.Kind {
		case mapi.RequestAPISchema:
			roots++
		case mapi.RequestResourceSchema:
			resources++
		}
	}

	assert.Equal(t, len(mapi.AllAPIs()), roots)
	assert.Equal(t, 2, resources)

	for _, file := range []string{
		"/cache/configuration/root.json",
		"/cache/configuration/conference.json",
		"/cache/configuration/system_location.json",
		"/cache/command/conference/root.json",
		"/cache/status/root.json",
	} {
		exists, err := afero.Exists(fs, file)
		require.NoError(t, err)
		assert.True(t, exists, file)
	}

	assert.True(t, cache.Exists())
}

func TestCache_ReadBack(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cache := NewCache(fs, "/cache", nil)

	require.NoError(t, cache.Update(context.Background(), &fakeClient{}))

	endpoint, err := cache.Read(mapi.APIConfiguration, "conference")
	require.NoError(t, err)
	assert.Equal(t, 20, endpoint.DefaultLimit)
	assert.Equal(t, mapi.FieldString, endpoint.Fields["name"].DataType)

	all, err := cache.ReadAll()
	require.NoError(t, err)
	require.Contains(t, all, mapi.APIConfiguration)
	assert.Len(t, all[mapi.APIConfiguration], 2)
	assert.Empty(t, all[mapi.APIStatus])
}

func TestCache_Exists(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cache := NewCache(fs, "/cache", nil)

	assert.False(t, cache.Exists())
}

func TestCache_ReadAll_SkipsCorruptEntries(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cache := NewCache(fs, "/cache", nil)

	require.NoError(t, cache.Update(context.Background(), &fakeClient{}))
	require.NoError(t, afero.WriteFile(fs, "/cache/configuration/conference.json", []byte("{not json"), 0o600))

	all, err := cache.ReadAll()
	require.NoError(t, err)
	assert.Len(t, all[mapi.APIConfiguration], 1)
	assert.Contains(t, all[mapi.APIConfiguration], "system_location")
}
