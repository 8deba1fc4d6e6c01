package cmd

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	mintIdentity string
	mintKey      string
	mintValidity time.Duration
	mintAdmin    bool
)

// mintCmd represents the mint command
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a signed test token locally",
	Long: `Test command that mints an HS256-signed token for local experiments.
With --admin the token carries the 'admin' role and can authenticate against
the server's admin endpoints when signed with the server's admin key.`,
	Example: `  # Mint a bearer token for an identity
  diploma mint --id 42 --key dev-secret

  # Mint an admin token for the CLI
  diploma mint --admin --key $DIPLOMA_ADMIN_KEY`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mintKey == "" {
			return fmt.Errorf("must provide --key")
		}

		now := time.Now()
		claims := jwt.MapClaims{
			"iat": now.Unix(),
			"exp": now.Add(mintValidity).Unix(),
		}
		if mintIdentity != "" {
			claims["id"] = mintIdentity
		}
		if mintAdmin {
			claims["roles"] = []string{"admin"}
		}

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(mintKey))
		if err != nil {
			return fmt.Errorf("minting failed: %w", err)
		}

		log.Debug().Msg("Token minted successfully")
		fmt.Println(signed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().StringVar(&mintIdentity, "id", "", "Identity to embed in the token")
	mintCmd.Flags().StringVarP(&mintKey, "key", "k", "", "HS256 signing key")
	mintCmd.Flags().DurationVar(&mintValidity, "validity", time.Hour, "How long the token stays valid")
	mintCmd.Flags().BoolVar(&mintAdmin, "admin", false, "Mint an admin token instead of a bearer token")

	_ = mintCmd.MarkFlagRequired("key")
}
