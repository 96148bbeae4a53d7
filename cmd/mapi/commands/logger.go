package commands

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// HCLogAdapter exposes a hashicorp/go-hclog logger through the mapi.Logger
// interface.
type HCLogAdapter struct {
	logger hclog.Logger
}

// NewHCLogAdapter wraps an hclog logger.
func NewHCLogAdapter(logger hclog.Logger) *HCLogAdapter {
	return &HCLogAdapter{logger: logger}
}

func (a *HCLogAdapter) Trace(msg string, fields map[string]interface{}) {
	a.logger.Trace(msg, flatten(fields)...)
}

func (a *HCLogAdapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug(msg, flatten(fields)...)
}

func (a *HCLogAdapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info(msg, flatten(fields)...)
}

func (a *HCLogAdapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn(msg, flatten(fields)...)
}

func (a *HCLogAdapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error(msg, flatten(fields)...)
}

// flatten converts a field map to hclog's alternating key/value form.
func flatten(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}

	return args
}

// newLogger builds the CLI logger: trace output on stderr when verbose is
// set, silent otherwise.
func newLogger() mapi.Logger {
	if !viper.GetBool("verbose") {
		return mapi.NopLogger{}
	}

	return NewHCLogAdapter(hclog.New(&hclog.LoggerOptions{
		Name:   "mapi",
		Level:  hclog.Trace,
		Output: os.Stderr,
	}))
}
