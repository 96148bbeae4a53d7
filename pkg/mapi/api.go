package mapi

// API identifies one of the management API areas. The zero value is not a
// valid API; use the exported constants.
type API int

// The fixed set of API areas, in declaration order. Iteration helpers and
// the CLI rely on this ordering being stable.
const (
	APIConfiguration API = iota + 1
	APIHistory
	APIStatus
	APICommandConference
	APICommandParticipant
	APICommandPlatform
)

// AllAPIs returns every API area in declaration order.
func AllAPIs() []API {
	return []API{
		APIConfiguration,
		APIHistory,
		APIStatus,
		APICommandConference,
		APICommandParticipant,
		APICommandPlatform,
	}
}

// IsCommand reports whether the API is one of the command sub-areas, which
// use a different base path shape and whose POST responses carry an
// execution outcome rather than a created resource.
func (a API) IsCommand() bool {
	switch a {
	case APICommandConference, APICommandParticipant, APICommandPlatform:
		return true
	default:
		return false
	}
}

// String returns the canonical name used in config files and CLI arguments.
func (a API) String() string {
	switch a {
	case APIConfiguration:
		return "configuration"
	case APIHistory:
		return "history"
	case APIStatus:
		return "status"
	case APICommandConference:
		return "command-conference"
	case APICommandParticipant:
		return "command-participant"
	case APICommandPlatform:
		return "command-platform"
	default:
		return "unknown"
	}
}

// commandSegment returns the sub-area path segment for command APIs.
func (a API) commandSegment() string {
	switch a {
	case APICommandConference:
		return "conference"
	case APICommandParticipant:
		return "participant"
	case APICommandPlatform:
		return "platform"
	default:
		return ""
	}
}

// BasePath returns the URL path prefix for the API area, without a trailing
// slash. Command areas use /api/admin/command/v1/<sub-area>; all others use
// /api/admin/<area>/v1.
func (a API) BasePath() string {
	if a.IsCommand() {
		return "/api/admin/command/v1/" + a.commandSegment()
	}

	return "/api/admin/" + a.String() + "/v1"
}

// ParseAPI resolves a canonical name (as produced by String) back to an API.
func ParseAPI(name string) (API, error) {
	for _, api := range AllAPIs() {
		if api.String() == name {
			return api, nil
		}
	}

	return 0, ErrUnknownAPI
}
