package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
	"github.com/confcloud-io/mapi-client/pkg/mapiclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		address       string
		username      string
		password      string
		clientID      string
		clientKeyFile string
		tokenEndpoint string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a management node",
		Long: `Authenticate against a management node and persist the credentials.

Provide either a username (Basic auth, prompting for the password) or an
OAuth2 client ID with an EC private key file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				address = viper.GetString("address")
			}

			if address == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Management node address: ")
				address, _ = reader.ReadString('\n')
				address = strings.TrimSpace(address)
			}

			if address == "" {
				return ErrAddressNotConfigured
			}

			config := &mapi.Config{
				Address:   address,
				Logger:    newLogger(),
				UserAgent: "mapi-cli",
			}

			var clientKey string

			switch {
			case clientID != "":
				if clientKeyFile == "" {
					return ErrClientKeyRequired
				}

				keyData, err := os.ReadFile(clientKeyFile) // #nosec G304 -- path supplied by the operator
				if err != nil {
					return fmt.Errorf("failed to read client key: %w", err)
				}

				clientKey = string(keyData)
				config.ClientID = clientID
				config.ClientKey = mapi.NewSecret(clientKey)
				config.TokenEndpoint = tokenEndpoint
			default:
				if username == "" {
					reader := bufio.NewReader(os.Stdin)
					fmt.Print("Username: ")
					username, _ = reader.ReadString('\n')
					username = strings.TrimSpace(username)
				}

				if password == "" {
					fmt.Print("Password: ")

					bytePassword, err := term.ReadPassword(int(syscall.Stdin))
					if err != nil {
						return fmt.Errorf("failed to read password: %w", err)
					}

					password = string(bytePassword)

					fmt.Println()
				}

				config.Username = username
				config.Password = mapi.NewSecret(password)
			}

			client, err := mapiclient.New(config)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			// Probe the status namespace to verify the credentials before
			// persisting anything. The stream is lazy, so errors only
			// surface on the first advance.
			resp, err := client.Send(cmd.Context(), mapi.NewGetAllRequest(mapi.APIStatus, "worker_vm", nil, 1, 1, 0))
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if _, err := resp.Stream.Next(cmd.Context()); err != nil && !errors.Is(err, mapi.ErrNoMoreItems) {
				return fmt.Errorf("login failed: %w", err)
			}

			viper.Set("address", address)
			viper.Set("username", username)
			viper.Set("password", password)
			viper.Set("client_id", clientID)
			viper.Set("client_key", clientKey)
			viper.Set("token_endpoint", tokenEndpoint)

			if err := saveConfig(); err != nil {
				return err
			}

			fmt.Printf("Logged in to %s\n", address)

			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "management node address")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for basic auth")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for basic auth")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&clientKeyFile, "client-key", "", "path to the OAuth2 EC private key (PEM)")
	cmd.Flags().StringVar(&tokenEndpoint, "token-endpoint", "", "OAuth2 token endpoint URL")

	return cmd
}
