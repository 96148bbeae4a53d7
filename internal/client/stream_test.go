package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

func pageBody(t *testing.T, objects []any, limit, offset, total int, next *string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"objects": objects,
		"meta": map[string]any{
			"limit":       limit,
			"offset":      offset,
			"next":        next,
			"previous":    nil,
			"total_count": total,
		},
	})
	require.NoError(t, err)

	return body
}

func TestStream_SinglePage(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64

	client, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/admin/status/v1/participant/", request.URL.Path)
		assert.Equal(t, "100", request.URL.Query().Get("limit"))
		assert.Equal(t, "0", request.URL.Query().Get("offset"))

		_, _ = writer.Write(pageBody(t,
			[]any{map[string]any{"id": "a"}, map[string]any{"id": "b"}}, 100, 0, 2, nil))
	}))

	resp, err := client.Send(context.Background(), mapi.NewGetAllRequest(mapi.APIStatus, "participant", nil, 100, 0, 0))
	require.NoError(t, err)
	require.Equal(t, mapi.ResponseStream, resp.Kind)

	// No network traffic before the first advance.
	assert.Equal(t, int64(0), calls.Load())

	objects, err := resp.Stream.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, objects, 2)
	assert.Equal(t, int64(1), calls.Load())
}

func TestStream_FollowsNextLink(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/configuration/v1/conference/", func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)

		if request.URL.Query().Get("offset") == "2" {
			_, _ = writer.Write(pageBody(t,
				[]any{map[string]any{"id": "c"}}, 2, 2, 3, nil))

			return
		}

		next := "/api/admin/configuration/v1/conference/?limit=2&offset=2"
		_, _ = writer.Write(pageBody(t,
			[]any{map[string]any{"id": "a"}, map[string]any{"id": "b"}}, 2, 0, 3, &next))
	})

	client, _ := newTestClient(t, mux)

	resp, err := client.Send(context.Background(), mapi.NewGetAllRequest(mapi.APIConfiguration, "conference", nil, 2, 0, 0))
	require.NoError(t, err)

	objects, err := resp.Stream.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 3)
	assert.Equal(t, int64(2), calls.Load())

	// Order is preserved across the page boundary.
	for i, want := range []string{"a", "b", "c"} {
		obj, ok := objects[i].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, want, obj["id"])
	}
}

func TestStream_LimitStopsMidPage(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64

	client, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)

		next := "/api/admin/configuration/v1/conference/?limit=2&offset=2"
		_, _ = writer.Write(pageBody(t,
			[]any{map[string]any{"id": "a"}, map[string]any{"id": "b"}}, 2, 0, 10, &next))
	}))

	resp, err := client.Send(context.Background(), mapi.NewGetAllRequest(mapi.APIConfiguration, "conference", nil, 2, 2, 0))
	require.NoError(t, err)

	objects, err := resp.Stream.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, objects, 2)

	// The limit was satisfied by page one; the next link must not be
	// followed.
	assert.Equal(t, int64(1), calls.Load())

	_, err = resp.Stream.Next(context.Background())
	require.ErrorIs(t, err, mapi.ErrNoMoreItems)
	assert.Equal(t, int64(1), calls.Load())
}

func TestStream_DecodeFailureIsTerminal(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"objects": [`))
	}))

	resp, err := client.Send(context.Background(), mapi.NewGetAllRequest(mapi.APIConfiguration, "conference", nil, 10, 0, 0))
	require.NoError(t, err)

	_, err = resp.Stream.Next(context.Background())
	require.Error(t, err)

	apiErr := &mapi.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Status)

	// The message comes from the wrapped decode failure, which keeps the
	// raw body reachable for diagnosis.
	decodeErr := &mapi.DecodeError{}
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, decodeErr.Error(), apiErr.Message)
	assert.Equal(t, `{"objects": [`, string(decodeErr.Body))

	// The failure is sticky.
	_, second := resp.Stream.Next(context.Background())
	assert.Equal(t, err, second)
}

func TestStream_APIErrorPropagates(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"error": "session expired"}`))
	}))

	resp, err := client.Send(context.Background(), mapi.NewGetAllRequest(mapi.APIStatus, "participant", nil, 10, 0, 0))
	require.NoError(t, err)

	_, err = resp.Stream.Next(context.Background())
	require.Error(t, err)
	assert.True(t, mapi.IsUnauthorized(err))
}

func TestStream_EmptyCollection(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write(pageBody(t, []any{}, 100, 0, 0, nil))
	}))

	resp, err := client.Send(context.Background(), mapi.NewGetAllRequest(mapi.APIHistory, "conference", nil, 100, 0, 0))
	require.NoError(t, err)

	objects, err := resp.Stream.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestStream_ManyPages(t *testing.T) {
	t.Parallel()

	const perPage = 5

	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/history/v1/participant/", func(writer http.ResponseWriter, request *http.Request) {
		offset := 0
		_, _ = fmt.Sscanf(request.URL.Query().Get("offset"), "%d", &offset)

		objects := make([]any, 0, perPage)
		for i := 0; i < perPage; i++ {
			objects = append(objects, map[string]any{"seq": float64(offset + i)})
		}

		var next *string
		if offset+perPage < 20 {
			link := fmt.Sprintf("/api/admin/history/v1/participant/?limit=%d&offset=%d", perPage, offset+perPage)
			next = &link
		}

		_, _ = writer.Write(pageBody(t, objects, perPage, offset, 20, next))
	})

	client, _ := newTestClient(t, mux)

	resp, err := client.Send(context.Background(), mapi.NewGetAllRequest(mapi.APIHistory, "participant", nil, perPage, 0, 0))
	require.NoError(t, err)

	objects, err := resp.Stream.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 20)

	for i, raw := range objects {
		obj, ok := raw.(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, float64(i), obj["seq"], 0)
	}
}
