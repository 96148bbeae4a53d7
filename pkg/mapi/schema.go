package mapi

import (
	"encoding/json"
	"fmt"
)

// SchemaRoot is the root schema listing of one namespace: the set of
// resources it exposes and where to fetch each resource's schema.
type SchemaRoot map[string]SchemaRootEntry

// SchemaRootEntry locates one resource within a namespace.
type SchemaRootEntry struct {
	ListEndpoint string `json:"list_endpoint"`
	Schema       string `json:"schema"`
}

// Endpoint is the schema of one resource: which methods it accepts, its
// fields, and how it may be filtered and ordered.
type Endpoint struct {
	AllowedDetailHTTPMethods []string         `json:"allowed_detail_http_methods"`
	AllowedListHTTPMethods   []string         `json:"allowed_list_http_methods"`
	DefaultLimit             int              `json:"default_limit"`
	Fields                   map[string]Field `json:"fields"`
	Filtering                FilteringMap     `json:"filtering,omitempty"`
	Ordering                 []string         `json:"ordering,omitempty"`
}

// Field describes one field of a resource.
type Field struct {
	Blank        bool      `json:"blank"`
	Default      any       `json:"default"`
	HelpText     string    `json:"help_text"`
	Nullable     bool      `json:"nullable"`
	Readonly     bool      `json:"readonly"`
	DataType     FieldType `json:"type"`
	RelatedType  *Relation `json:"related_type"`
	Unique       bool      `json:"unique"`
	ValidChoices []any     `json:"valid_choices,omitempty"`
}

// FieldType enumerates the data types the schema language knows about.
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldBoolean  FieldType = "boolean"
	FieldDateTime FieldType = "datetime"
	FieldDate     FieldType = "date"
	FieldTime     FieldType = "time"
	FieldInteger  FieldType = "integer"
	FieldFloat    FieldType = "float"
	FieldRelated  FieldType = "related"
	FieldList     FieldType = "list"
	FieldFile     FieldType = "file"
)

// Relation describes the cardinality of a related field.
type Relation string

const (
	RelationToOne  Relation = "to_one"
	RelationToMany Relation = "to_many"
)

// FilteringMap maps a field name to the filter operations it supports. The
// server emits either a list of operation names or the sentinel integers 1
// (ALL) and 2 (ALL_WITH_RELATIONS); both forms decode to a string list.
type FilteringMap map[string][]string

// UnmarshalJSON accepts the mixed list/sentinel wire shape.
func (m *FilteringMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing filtering map: %w", err)
	}

	out := make(FilteringMap, len(raw))

	for field, value := range raw {
		var ops []string
		if err := json.Unmarshal(value, &ops); err == nil {
			out[field] = ops

			continue
		}

		var sentinel int
		if err := json.Unmarshal(value, &sentinel); err != nil {
			return fmt.Errorf("parsing filtering entry %q: %w", field, err)
		}

		switch sentinel {
		case 2:
			out[field] = []string{"ALL_WITH_RELATIONS"}
		default:
			out[field] = []string{"ALL"}
		}
	}

	*m = out

	return nil
}
