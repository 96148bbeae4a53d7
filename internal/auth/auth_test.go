package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

func TestNoAuth(t *testing.T) {
	t.Parallel()

	req := newRequest(t)
	require.NoError(t, NoAuth{}.Authenticate(context.Background(), req))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestBasic(t *testing.T) {
	t.Parallel()

	req := newRequest(t)
	require.NoError(t, NewBasic("admin", mapi.NewSecret("hunter2")).Authenticate(context.Background(), req))

	username, password, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "admin", username)
	assert.Equal(t, "hunter2", password)
}
