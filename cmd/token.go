package main

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/sr2706/parakram-backend/internal/auth"
	"github.com/sr2706/parakram-backend/internal/config"
)

func newTokenCommand() *cobra.Command {
	var (
		tokenType string
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			tt, err := auth.ParseTokenType(tokenType)
			if err != nil {
				return err
			}

			issuer, err := auth.NewIssuer(cfg.TokenSecret, clockwork.NewRealClock())
			if err != nil {
				return err
			}

			token, err := issuer.GenerateToken(tt, ttl)
			if err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenType, "type", string(auth.TokenTypeAdmin), "token type: admin or user")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
