package mapi

// Logger is the logging sink injected into the client. The client never
// touches process-wide logging state; callers that want output wire in an
// implementation (see NewHCLogAdapter in cmd/mapi for one).
type Logger interface {
	Trace(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything. It is the default when no logger is
// configured.
type NopLogger struct{}

func (NopLogger) Trace(string, map[string]interface{}) {}
func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
