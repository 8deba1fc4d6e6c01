package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/CyrilRPG/diploma/internal/cliconfig"
	"github.com/CyrilRPG/diploma/pkg/client"
)

// bindFlag exposes a registered flag to viper under the given key, so the
// value can also arrive via DIPLOMA_* env vars or the user config file.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	_ = viper.BindPFlag(key, flags.Lookup(name))
}

var (
	greenCheck = color.GreenString("✓")
	redCross   = color.RedString("✗")
)

// BeQuietError signals that the error was already reported to the user.
type BeQuietError struct{}

func (BeQuietError) Error() string {
	return "command failed"
}

func getClient() (*client.Client, error) {
	// we need the user to provide some server address first
	server := viper.GetString(ServerAddrKey)
	if server == "" {
		return nil, fmt.Errorf("server address not configured, provide via --server or env")
	}

	var adminToken string

	cfg, err := cliconfig.Load()
	if err == nil {
		credential, err := cfg.GetCredential(server)
		if err != nil {
			if !errors.Is(err, cliconfig.ErrCredentialNotFound) {
				return nil, err
			}
		} else {
			adminToken = credential.Token
		}
	}

	if envToken := os.Getenv("DIPLOMA_TOKEN"); envToken != "" {
		adminToken = envToken
	}

	return client.New(server, client.WithAuthToken(adminToken)), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
