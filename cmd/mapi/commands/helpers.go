package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
	"github.com/confcloud-io/mapi-client/pkg/mapiclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Common static errors used throughout the commands package.
var (
	ErrAddressNotConfigured = errors.New("no management node address configured, run 'mapi login' first")
	ErrBodyRequired         = errors.New("a request body is required (use --data or --file)")
	ErrBothBodySources      = errors.New("--data and --file are mutually exclusive")
	ErrSchemaCacheEmpty     = errors.New("schema cache is empty")
	ErrClientKeyRequired    = errors.New("--client-key is required with --client-id")
)

// configDir returns the CLI's state directory, ~/.mapi by default.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".mapi"), nil
}

// clientConfig assembles a mapi.Config from the persisted CLI config and
// flags.
func clientConfig() (*mapi.Config, error) {
	address := viper.GetString("address")
	if address == "" {
		return nil, ErrAddressNotConfigured
	}

	config := &mapi.Config{
		Address:       address,
		Username:      viper.GetString("username"),
		Password:      mapi.NewSecret(viper.GetString("password")),
		ClientID:      viper.GetString("client_id"),
		ClientKey:     mapi.NewSecret(viper.GetString("client_key")),
		TokenEndpoint: viper.GetString("token_endpoint"),
		Logger:        newLogger(),
		UserAgent:     "mapi-cli",
	}

	if token := viper.GetString("access_token"); token != "" {
		config.AccessToken = mapi.NewSecret(token)
		config.TokenExpires = viper.GetTime("token_expires")
	}

	// Persist refreshed tokens so the next invocation skips the token
	// round-trip.
	config.TokenRefresh = func(token mapi.Secret, expiresAt time.Time) {
		viper.Set("access_token", token.Value())
		viper.Set("token_expires", expiresAt)
		_ = saveConfig()
	}

	return config, nil
}

// newClient builds a client from the persisted configuration.
func newClient() (mapi.Client, error) {
	config, err := clientConfig()
	if err != nil {
		return nil, err
	}

	client, err := mapiclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// saveConfig writes the current viper state to the config file.
func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}

		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(dir, "config.yml")
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// renderObject prints a single decoded JSON document in the selected output
// format. Table output shows one property per row.
func renderObject(content any) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(content)
	case OutputFormatYAML:
		return yaml.NewEncoder(os.Stdout).Encode(content)
	default:
		object, ok := content.(map[string]any)
		if !ok {
			fmt.Println(formatValue(content))

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")

		for _, key := range sortedKeys(object) {
			_ = table.Append(key, formatValue(object[key]))
		}

		return table.Render()
	}
}

// renderObjects prints a list of decoded JSON documents. Table output uses
// the union of top-level keys as columns.
func renderObjects(objects []any) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(objects)
	case OutputFormatYAML:
		return yaml.NewEncoder(os.Stdout).Encode(objects)
	default:
		columns := collectColumns(objects)
		if len(columns) == 0 {
			fmt.Println("No resources found")

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header(toAnySlice(columns)...)

		for _, obj := range objects {
			object, ok := obj.(map[string]any)
			if !ok {
				continue
			}

			row := make([]any, 0, len(columns))
			for _, column := range columns {
				row = append(row, formatValue(object[column]))
			}

			_ = table.Append(row...)
		}

		return table.Render()
	}
}

// collectColumns returns the sorted union of top-level keys, with "id" and
// "name" pulled to the front when present.
func collectColumns(objects []any) []string {
	seen := make(map[string]bool)

	for _, obj := range objects {
		object, ok := obj.(map[string]any)
		if !ok {
			continue
		}

		for key := range object {
			seen[key] = true
		}
	}

	var columns []string

	for _, preferred := range []string{"id", "name"} {
		if seen[preferred] {
			columns = append(columns, preferred)
			delete(seen, preferred)
		}
	}

	var rest []string
	for key := range seen {
		rest = append(rest, key)
	}

	sort.Strings(rest)

	return append(columns, rest...)
}

func sortedKeys(object map[string]any) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return fmt.Sprintf("%g", typed)
	case bool:
		return fmt.Sprintf("%t", typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("%v", typed)
		}

		return string(encoded)
	}
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}

	return out
}

// requestBody decodes the JSON payload from the --data flag or a file.
func requestBody(data, file string) (any, error) {
	if data != "" && file != "" {
		return nil, ErrBothBodySources
	}

	var raw []byte

	switch {
	case data != "":
		raw = []byte(data)
	case file != "":
		content, err := os.ReadFile(file) // #nosec G304 -- path supplied by the operator
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}

		raw = content
	default:
		return nil, ErrBodyRequired
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to parse body as JSON: %w", err)
	}

	return body, nil
}

// parseFilters converts repeated key=value flags into a filter map.
func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	filters := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", pair)
		}

		filters[key] = value
	}

	return filters, nil
}
