package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/confcloud-io/mapi-client/internal/schema"
	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the local schema cache",
		Long:  "Inspect and refresh the locally cached management API schemas",
	}

	cmd.AddCommand(newSchemaUpdateCommand())
	cmd.AddCommand(newSchemaListCommand())

	return cmd
}

// schemaCache opens the cache at ~/.mapi/schemas.
func schemaCache() (*schema.Cache, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	return schema.NewCache(afero.NewOsFs(), filepath.Join(dir, "schemas"), newLogger()), nil
}

func newSchemaUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Refresh the schema cache",
		Long:  "Fetch every namespace's schemas from the management node into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			cache, err := schemaCache()
			if err != nil {
				return err
			}

			if err := cache.Update(cmd.Context(), client); err != nil {
				return fmt.Errorf("failed to update schema cache: %w", err)
			}

			fmt.Println("Schema cache updated")

			return nil
		},
	}
}

func newSchemaListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached resources",
		Long:  "List every resource known to the local schema cache, by namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := schemaCache()
			if err != nil {
				return err
			}

			if !cache.Exists() {
				return fmt.Errorf("%w: run 'mapi schema update' first", ErrSchemaCacheEmpty)
			}

			all, err := cache.ReadAll()
			if err != nil {
				return fmt.Errorf("failed to read schema cache: %w", err)
			}

			objects := make([]any, 0, len(all))

			for _, api := range mapi.AllAPIs() {
				for name, endpoint := range all[api] {
					objects = append(objects, map[string]any{
						"namespace":     api.String(),
						"name":          name,
						"default_limit": float64(endpoint.DefaultLimit),
					})
				}
			}

			return renderObjects(objects)
		},
	}
}
