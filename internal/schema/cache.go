// Package schema maintains the on-disk cache of the management API's
// self-describing schemas. The cache feeds request-argument construction
// upstream; the core client never reads it.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/confcloud-io/mapi-client/internal/constants"
	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// Cache stores one JSON file per resource schema, plus a root.json per
// namespace, under <dir>/<namespace-path>/.
type Cache struct {
	fs     afero.Fs
	dir    string
	logger mapi.Logger
}

// NewCache creates a cache rooted at dir on the given filesystem.
func NewCache(fs afero.Fs, dir string, logger mapi.Logger) *Cache {
	if logger == nil {
		logger = mapi.NopLogger{}
	}

	return &Cache{fs: fs, dir: dir, logger: logger}
}

// apiDir maps a namespace to its cache subdirectory; command sub-areas nest
// under command/.
func apiDir(api mapi.API) string {
	return strings.ReplaceAll(api.String(), "-", "/")
}

func (c *Cache) entryPath(api mapi.API, resource string) string {
	return path.Join(c.dir, apiDir(api), resource+".json")
}

// Exists reports whether the cache has been populated at all.
func (c *Cache) Exists() bool {
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		return false
	}

	return len(entries) > 0
}

// Read returns the cached schema of one resource.
func (c *Cache) Read(api mapi.API, resource string) (*mapi.Endpoint, error) {
	data, err := afero.ReadFile(c.fs, c.entryPath(api, resource))
	if err != nil {
		return nil, fmt.Errorf("reading cached schema: %w", err)
	}

	var endpoint mapi.Endpoint
	if err := json.Unmarshal(data, &endpoint); err != nil {
		return nil, fmt.Errorf("parsing cached schema for %s/%s: %w", api, resource, err)
	}

	return &endpoint, nil
}

// ReadAll loads every cached schema, keyed by namespace then resource.
// Unreadable entries are logged and skipped; a missing root listing is an
// error.
func (c *Cache) ReadAll() (map[mapi.API]map[string]mapi.Endpoint, error) {
	all := make(map[mapi.API]map[string]mapi.Endpoint)

	for _, api := range mapi.AllAPIs() {
		rootData, err := afero.ReadFile(c.fs, c.entryPath(api, "root"))
		if err != nil {
			return nil, fmt.Errorf("reading root schema listing: %w", err)
		}

		var root mapi.SchemaRoot
		if err := json.Unmarshal(rootData, &root); err != nil {
			return nil, fmt.Errorf("parsing root schema listing for %s: %w", api, err)
		}

		resources := make(map[string]mapi.Endpoint, len(root))

		for name := range root {
			endpoint, err := c.Read(api, name)
			if err != nil {
				c.logger.Error("failed to read cached schema", map[string]interface{}{
					"api":      api.String(),
					"resource": name,
					"error":    err.Error(),
				})

				continue
			}

			resources[name] = *endpoint
		}

		all[api] = resources
	}

	return all, nil
}

// Update refreshes the whole cache from the server: every namespace's root
// listing, then every resource schema, fetched concurrently through the
// normal dispatcher (same concurrency bound, same authentication).
func (c *Cache) Update(ctx context.Context, client mapi.Client) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, api := range mapi.AllAPIs() {
		api := api
		group.Go(func() error {
			return c.updateAPI(ctx, client, api)
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("updating schema cache: %w", err)
	}

	return nil
}

func (c *Cache) updateAPI(ctx context.Context, client mapi.Client, api mapi.API) error {
	resp, err := client.Send(ctx, mapi.NewAPISchemaRequest(api))
	if err != nil {
		return err
	}

	content := resp.ContentOrDefault()
	if err := c.write(api, "root", content); err != nil {
		return err
	}

	// Round-trip through JSON to pick the resource names out of the raw
	// document.
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encoding root schema listing: %w", err)
	}

	var root mapi.SchemaRoot
	if err := json.Unmarshal(raw, &root); err != nil {
		return fmt.Errorf("parsing root schema listing for %s: %w", api, err)
	}

	group, ctx := errgroup.WithContext(ctx)

	for name := range root {
		name := name
		group.Go(func() error {
			return c.updateResource(ctx, client, api, name)
		})
	}

	return group.Wait()
}

func (c *Cache) updateResource(ctx context.Context, client mapi.Client, api mapi.API, resource string) error {
	resp, err := client.Send(ctx, mapi.NewResourceSchemaRequest(api, resource))
	if err != nil {
		return err
	}

	return c.write(api, resource, resp.ContentOrDefault())
}

func (c *Cache) write(api mapi.API, resource string, content any) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encoding schema for %s/%s: %w", api, resource, err)
	}

	target := c.entryPath(api, resource)
	if err := c.fs.MkdirAll(path.Dir(target), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating schema cache directory: %w", err)
	}

	if err := afero.WriteFile(c.fs, target, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing schema cache file: %w", err)
	}

	return nil
}
