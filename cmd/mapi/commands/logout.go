package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the management node",
		Long:  "Remove the persisted credentials, keeping the address and preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range []string{
				"username",
				"password",
				"client_id",
				"client_key",
				"token_endpoint",
				"access_token",
				"token_expires",
			} {
				viper.Set(key, "")
			}

			if err := saveConfig(); err != nil {
				return err
			}

			fmt.Println("Logged out")

			return nil
		},
	}
}
