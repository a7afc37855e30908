package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobtracker/internal/domain/auth"
	"jobtracker/internal/pkg/jwt"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Maintain issued tokens",
}

var tokensPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove revocation records for tokens that have expired anyway",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		svc := auth.NewService(auth.NewRepository(e.db), jwt.New(e.cfg.JWTSecret, e.cfg.JWTTTL))
		n, err := svc.PruneRevoked(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("token cleanup completed: revoked_tokens=%d\n", n)
		return nil
	},
}
