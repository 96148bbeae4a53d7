package mapi

// ResponseKind discriminates the possible outcomes of a dispatched request.
type ResponseKind int

const (
	// ResponseNoContent reports success with nothing to return.
	ResponseNoContent ResponseKind = iota + 1
	// ResponseLocation reports success with a Location header, typically
	// from a create.
	ResponseLocation
	// ResponseContent carries a decoded JSON document.
	ResponseContent
	// ResponseStream carries a lazily-fetched sequence of objects from a
	// paginated collection.
	ResponseStream
)

// Response is the result of Client.Send. Exactly one of Location, Content
// and Stream is populated, according to Kind.
type Response struct {
	Kind     ResponseKind
	Location string
	Content  any
	Stream   *Stream
}

// NoContentResponse returns a success response with no payload.
func NoContentResponse() *Response {
	return &Response{Kind: ResponseNoContent}
}

// LocationResponse returns a success response carrying a Location header.
func LocationResponse(location string) *Response {
	return &Response{Kind: ResponseLocation, Location: location}
}

// ContentResponse returns a response carrying a decoded JSON document.
func ContentResponse(content any) *Response {
	return &Response{Kind: ResponseContent, Content: content}
}

// StreamResponse returns a response carrying a paginated stream.
func StreamResponse(stream *Stream) *Response {
	return &Response{Kind: ResponseStream, Stream: stream}
}

// ContentOrDefault returns the decoded content, or nil for any other
// response kind.
func (r *Response) ContentOrDefault() any {
	if r.Kind == ResponseContent {
		return r.Content
	}

	return nil
}
