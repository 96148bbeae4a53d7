package mapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

func TestRequestConstructors(t *testing.T) {
	t.Parallel()

	t.Run("get all carries paging state", func(t *testing.T) {
		t.Parallel()

		request := mapi.NewGetAllRequest(mapi.APIConfiguration, "conference",
			map[string]string{"name": "weekly"}, 200, 50, 10)

		assert.Equal(t, mapi.RequestGetAll, request.Kind)
		assert.Equal(t, "conference", request.Resource)
		assert.Equal(t, map[string]string{"name": "weekly"}, request.Filters)
		assert.Equal(t, 200, request.PageSize)
		assert.Equal(t, 50, request.Limit)
		assert.Equal(t, 10, request.Offset)
	})

	t.Run("create carries the body", func(t *testing.T) {
		t.Parallel()

		body := map[string]any{"name": "ops"}
		request := mapi.NewCreateRequest(mapi.APIConfiguration, "conference", body)

		assert.Equal(t, mapi.RequestCreate, request.Kind)
		assert.Equal(t, body, request.Body)
	})
}

func TestRequest_WithOffset(t *testing.T) {
	t.Parallel()

	t.Run("changes only the offset", func(t *testing.T) {
		t.Parallel()

		original := mapi.NewGetAllRequest(mapi.APIHistory, "participant",
			map[string]string{"room": "main"}, 100, 0, 0)

		shifted, err := original.WithOffset(500)
		require.NoError(t, err)

		assert.Equal(t, 500, shifted.Offset)

		shifted.Offset = original.Offset
		assert.Equal(t, original, shifted)
	})

	t.Run("rejects non get-all requests", func(t *testing.T) {
		t.Parallel()

		_, err := mapi.NewGetRequest(mapi.APIStatus, "worker_vm", "5").WithOffset(10)
		require.Error(t, err)
		assert.ErrorIs(t, err, mapi.ErrNotGetAllRequest)
	})
}

func TestRequestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "get_all", mapi.RequestGetAll.String())
	assert.Equal(t, "api_schema", mapi.RequestAPISchema.String())
	assert.Equal(t, "unknown", mapi.RequestKind(0).String())
}
