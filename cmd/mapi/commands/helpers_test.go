package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters(t *testing.T) {
	t.Parallel()

	t.Run("parses key=value pairs", func(t *testing.T) {
		t.Parallel()

		filters, err := parseFilters([]string{"name=weekly", "tag=ops=prod"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "weekly", "tag": "ops=prod"}, filters)
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		t.Parallel()

		filters, err := parseFilters(nil)
		require.NoError(t, err)
		assert.Nil(t, filters)
	})

	t.Run("rejects pairs without equals", func(t *testing.T) {
		t.Parallel()

		_, err := parseFilters([]string{"name"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected key=value")
	})
}

func TestRequestBody(t *testing.T) {
	t.Parallel()

	t.Run("inline data", func(t *testing.T) {
		t.Parallel()

		body, err := requestBody(`{"name": "ops"}`, "")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "ops"}, body)
	})

	t.Run("from file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "body.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name": "ops"}`), 0o600))

		body, err := requestBody("", path)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "ops"}, body)
	})

	t.Run("requires a source", func(t *testing.T) {
		t.Parallel()

		_, err := requestBody("", "")
		assert.ErrorIs(t, err, ErrBodyRequired)
	})

	t.Run("rejects both sources", func(t *testing.T) {
		t.Parallel()

		_, err := requestBody("{}", "body.json")
		assert.ErrorIs(t, err, ErrBothBodySources)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		t.Parallel()

		_, err := requestBody("{not json", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse body as JSON")
	})
}

func TestCollectColumns(t *testing.T) {
	t.Parallel()

	columns := collectColumns([]any{
		map[string]any{"name": "a", "zone": "eu", "id": float64(1)},
		map[string]any{"id": float64(2), "address": "10.0.0.1"},
	})

	assert.Equal(t, []string{"id", "name", "address", "zone"}, columns)

	assert.Empty(t, collectColumns(nil))
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "weekly", formatValue("weekly"))
	assert.Equal(t, "42", formatValue(float64(42)))
	assert.Equal(t, "2.5", formatValue(2.5))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, `["a","b"]`, formatValue([]any{"a", "b"}))
}
