package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CyrilRPG/diploma/internal/cliconfig"
)

var loginCmd = &cobra.Command{
	Use:   "login TOKEN",
	Short: "Save admin credentials for a diploma server",
	Long: `Stores an admin token locally so future admin commands (audits, sessions,
revoke, tasks) can authenticate against the configured server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adminToken := args[0]
		if adminToken == "" {
			return fmt.Errorf("token cannot be empty")
		}

		server := viper.GetString(ServerAddrKey)
		if server == "" {
			return fmt.Errorf("server address not configured, provide via --server or env")
		}

		cfg, err := cliconfig.Load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = &cliconfig.CLIConfig{}
		}
		if err := cfg.SetCredential(server, adminToken); err != nil {
			return fmt.Errorf("saving credentials: %w", err)
		}
		if err := cliconfig.Save(cfg); err != nil {
			return fmt.Errorf("saving credentials: %w", err)
		}

		log.Info().Msgf("%s saved credentials for %s", greenCheck, server)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
