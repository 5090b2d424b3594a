// AngelaMos | 2026
// keygen.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/session"
)

var (
	keygenPrivate string
	keygenPublic  string
	keygenForce   bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Write a new ES256 key pair for admin session cookies",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := config.SessionConfig{
			PrivateKeyPath: keygenPrivate,
			PublicKeyPath:  keygenPublic,
		}

		if keys.SessionKeysPresent() && !keygenForce {
			return fmt.Errorf(
				"session keys already exist at %s and %s (use --force to replace)",
				keygenPrivate,
				keygenPublic,
			)
		}

		if err := session.GenerateKeyPair(keygenPrivate, keygenPublic); err != nil {
			return err
		}

		cmd.Printf("wrote %s and %s\n", keygenPrivate, keygenPublic)
		return nil
	},
}

func init() {
	keygenCmd.Flags().StringVar(
		&keygenPrivate, "private", "keys/session_private.pem", "private key output path",
	)
	keygenCmd.Flags().StringVar(
		&keygenPublic, "public", "keys/session_public.pem", "public key output path",
	)
	keygenCmd.Flags().BoolVar(&keygenForce, "force", false, "overwrite existing keys")
}
