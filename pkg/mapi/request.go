package mapi

// RequestKind discriminates the closed set of request intents the dispatcher
// understands.
type RequestKind int

const (
	// RequestAPISchema fetches the root schema of a namespace.
	RequestAPISchema RequestKind = iota + 1
	// RequestResourceSchema fetches the schema of a single resource.
	RequestResourceSchema
	// RequestGet fetches a single object by ID.
	RequestGet
	// RequestGetAll enumerates a resource collection, transparently
	// following server pagination.
	RequestGetAll
	// RequestCreate creates a new object (or invokes a command).
	RequestCreate
	// RequestUpdate partially updates an object via PATCH.
	RequestUpdate
	// RequestDelete deletes an object by ID.
	RequestDelete
)

// String returns a short name for logging.
func (k RequestKind) String() string {
	switch k {
	case RequestAPISchema:
		return "api_schema"
	case RequestResourceSchema:
		return "schema"
	case RequestGet:
		return "get"
	case RequestGetAll:
		return "get_all"
	case RequestCreate:
		return "create"
	case RequestUpdate:
		return "update"
	case RequestDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Request describes one logical call against the management API. Construct
// values with the New*Request helpers; a Request is consumed by a single
// Send call.
type Request struct {
	Kind     RequestKind
	API      API
	Resource string
	ObjectID string

	// Body carries the JSON payload for Create and Update requests.
	Body any

	// Filters, PageSize, Limit and Offset are only meaningful for GetAll.
	// Filter values may be sensitive and must never be logged.
	Filters  map[string]string
	PageSize int
	Limit    int
	Offset   int
}

// NewAPISchemaRequest fetches the root schema listing of a namespace.
func NewAPISchemaRequest(api API) Request {
	return Request{Kind: RequestAPISchema, API: api}
}

// NewResourceSchemaRequest fetches the schema of one resource.
func NewResourceSchemaRequest(api API, resource string) Request {
	return Request{Kind: RequestResourceSchema, API: api, Resource: resource}
}

// NewGetRequest fetches a single object.
func NewGetRequest(api API, resource, objectID string) Request {
	return Request{Kind: RequestGet, API: api, Resource: resource, ObjectID: objectID}
}

// NewGetAllRequest enumerates a collection. A limit of 0 means unbounded.
func NewGetAllRequest(api API, resource string, filters map[string]string, pageSize, limit, offset int) Request {
	return Request{
		Kind:     RequestGetAll,
		API:      api,
		Resource: resource,
		Filters:  filters,
		PageSize: pageSize,
		Limit:    limit,
		Offset:   offset,
	}
}

// NewCreateRequest creates an object, or invokes a command when the API is
// a command namespace.
func NewCreateRequest(api API, resource string, body any) Request {
	return Request{Kind: RequestCreate, API: api, Resource: resource, Body: body}
}

// NewUpdateRequest patches an object.
func NewUpdateRequest(api API, resource, objectID string, body any) Request {
	return Request{Kind: RequestUpdate, API: api, Resource: resource, ObjectID: objectID, Body: body}
}

// NewDeleteRequest deletes an object.
func NewDeleteRequest(api API, resource, objectID string) Request {
	return Request{Kind: RequestDelete, API: api, Resource: resource, ObjectID: objectID}
}

// WithOffset returns a copy of a GetAll request differing only in its
// offset. The pagination engine uses this for the first page; it is invalid
// on any other request kind.
func (r Request) WithOffset(offset int) (Request, error) {
	if r.Kind != RequestGetAll {
		return Request{}, ErrNotGetAllRequest
	}

	out := r
	out.Offset = offset

	return out, nil
}
