package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CyrilRPG/diploma/internal/buildinfo"
	"github.com/CyrilRPG/diploma/internal/logging"
)

// global flags
var (
	userConfig string
	cfgFile    string
	serverAddr string
)

const ServerAddrKey = "addr"

var rootCmd = &cobra.Command{
	Use:   "diploma",
	Short: fmt.Sprintf("Diploma gate server (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `Diploma gates access to a set of protected pages by validating bearer
tokens against an upstream identity provider and rejecting stale,
revoked or superseded tokens.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, configErr := initUserConfig()
		logging.Init()
		if configErr != nil { // handle error after logging is initialized
			return configErr
		}
		if configPath != "" {
			log.Debug().Msgf("using user config file: %s", configPath)
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var quiet BeQuietError
		if errors.As(err, &quiet) {
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("execution failed")
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVar(&userConfig, "user-config", "",
		"User configuration file for default values (default is $HOME/.diploma.yaml)")

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Service configuration file (YAML)")

	flags := rootCmd.PersistentFlags()

	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	bindFlag(flags, logging.LevelKey, "log-level")

	flags.String("log-format", "console", "Log format (console, json)")
	bindFlag(flags, logging.FormatKey, "log-format")

	flags.Bool("no-color", false, "Disable color output")
	bindFlag(flags, logging.NoColorKey, "no-color")

	flags.StringVar(&serverAddr, "server", "", "Address of the remote diploma server")
	bindFlag(flags, ServerAddrKey, "server")

	viper.SetEnvPrefix("DIPLOMA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func initUserConfig() (string, error) {
	// reads in config file and ENV variables if set.
	if userConfig != "" {
		viper.SetConfigFile(userConfig)
	} else {
		// search order: current dir, $HOME, XDG config
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		config, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(config + "/diploma")
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName(".diploma")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundError) {
			return "", err
		}
	} else {
		return viper.ConfigFileUsed(), nil
	}

	return "", nil
}
