package mapi_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

func TestSchemaRoot_Decode(t *testing.T) {
	t.Parallel()

	body := `{
		"conference": {
			"list_endpoint": "/api/admin/configuration/v1/conference/",
			"schema": "/api/admin/configuration/v1/conference/schema/"
		},
		"system_location": {
			"list_endpoint": "/api/admin/configuration/v1/system_location/",
			"schema": "/api/admin/configuration/v1/system_location/schema/"
		}
	}`

	var root mapi.SchemaRoot
	require.NoError(t, json.Unmarshal([]byte(body), &root))

	require.Len(t, root, 2)
	assert.Equal(t, "/api/admin/configuration/v1/conference/schema/", root["conference"].Schema)
	assert.Equal(t, "/api/admin/configuration/v1/system_location/", root["system_location"].ListEndpoint)
}

func TestEndpoint_Decode(t *testing.T) {
	t.Parallel()

	body := `{
		"allowed_detail_http_methods": ["get", "patch", "delete"],
		"allowed_list_http_methods": ["get", "post"],
		"default_limit": 20,
		"fields": {
			"name": {
				"blank": false,
				"default": "",
				"help_text": "The name of the conference.",
				"nullable": false,
				"readonly": false,
				"type": "string",
				"related_type": null,
				"unique": true
			},
			"aliases": {
				"blank": false,
				"default": null,
				"help_text": "",
				"nullable": true,
				"readonly": false,
				"type": "related",
				"related_type": "to_many",
				"unique": false
			}
		},
		"filtering": {
			"name": ["exact", "contains"],
			"aliases": 2,
			"tag": 1
		},
		"ordering": ["name"]
	}`

	var endpoint mapi.Endpoint
	require.NoError(t, json.Unmarshal([]byte(body), &endpoint))

	assert.Equal(t, []string{"get", "patch", "delete"}, endpoint.AllowedDetailHTTPMethods)
	assert.Equal(t, 20, endpoint.DefaultLimit)

	name := endpoint.Fields["name"]
	assert.Equal(t, mapi.FieldString, name.DataType)
	assert.True(t, name.Unique)
	assert.Nil(t, name.RelatedType)

	aliases := endpoint.Fields["aliases"]
	assert.Equal(t, mapi.FieldRelated, aliases.DataType)
	require.NotNil(t, aliases.RelatedType)
	assert.Equal(t, mapi.RelationToMany, *aliases.RelatedType)

	assert.Equal(t, mapi.FilteringMap{
		"name":    {"exact", "contains"},
		"aliases": {"ALL_WITH_RELATIONS"},
		"tag":     {"ALL"},
	}, endpoint.Filtering)
}
