package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		filters  []string
		pageSize int
		limit    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "list <namespace> <resource>",
		Short: "List resources",
		Long: `Enumerate a resource collection, transparently following server
pagination. Filters are passed through to the server as query parameters.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := mapi.ParseAPI(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			filterMap, err := parseFilters(filters)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			resp, err := client.Send(cmd.Context(), mapi.NewGetAllRequest(api, args[1], filterMap, pageSize, limit, offset))
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", args[1], err)
			}

			objects, err := resp.Stream.Collect(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", args[1], err)
			}

			return renderObjects(objects)
		},
	}

	cmd.Flags().StringSliceVar(&filters, "filter", nil, "filter as key=value (repeatable)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "objects requested per page (0 for the default)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum objects to return (0 for unlimited)")
	cmd.Flags().IntVar(&offset, "offset", 0, "index of the first object to return")

	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <namespace> <resource> <id>",
		Short: "Get a single resource",
		Long:  "Fetch one object by its ID",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := mapi.ParseAPI(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			resp, err := client.Send(cmd.Context(), mapi.NewGetRequest(api, args[1], args[2]))
			if err != nil {
				return fmt.Errorf("failed to get %s/%s: %w", args[1], args[2], err)
			}

			return renderObject(resp.ContentOrDefault())
		},
	}
}

// NewCreateCommand creates the create command. Against a command namespace
// this invokes the command and prints its outcome.
func NewCreateCommand() *cobra.Command {
	var (
		data string
		file string
	)

	cmd := &cobra.Command{
		Use:   "create <namespace> <resource>",
		Short: "Create a resource or invoke a command",
		Long: `Create a new object from a JSON body. Against a command namespace
(command-conference, command-participant, command-platform) this invokes the
command and prints the execution outcome instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := mapi.ParseAPI(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			body, err := requestBody(data, file)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			resp, err := client.Send(cmd.Context(), mapi.NewCreateRequest(api, args[1], body))
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[1], err)
			}

			switch resp.Kind {
			case mapi.ResponseLocation:
				fmt.Println(resp.Location)

				return nil
			case mapi.ResponseContent:
				return renderObject(resp.Content)
			default:
				fmt.Println("OK")

				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "request body as inline JSON")
	cmd.Flags().StringVarP(&file, "file", "f", "", "request body from a JSON file")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var (
		data string
		file string
	)

	cmd := &cobra.Command{
		Use:   "update <namespace> <resource> <id>",
		Short: "Update a resource",
		Long:  "Partially update one object from a JSON body",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := mapi.ParseAPI(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			body, err := requestBody(data, file)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			resp, err := client.Send(cmd.Context(), mapi.NewUpdateRequest(api, args[1], args[2], body))
			if err != nil {
				return fmt.Errorf("failed to update %s/%s: %w", args[1], args[2], err)
			}

			if resp.Kind == mapi.ResponseContent {
				return renderObject(resp.Content)
			}

			fmt.Println("OK")

			return nil
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "request body as inline JSON")
	cmd.Flags().StringVarP(&file, "file", "f", "", "request body from a JSON file")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <namespace> <resource> <id>",
		Short: "Delete a resource",
		Long:  "Delete one object by its ID",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := mapi.ParseAPI(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			if _, err := client.Send(cmd.Context(), mapi.NewDeleteRequest(api, args[1], args[2])); err != nil {
				return fmt.Errorf("failed to delete %s/%s: %w", args[1], args[2], err)
			}

			fmt.Println("Deleted")

			return nil
		},
	}
}
