package cli

import (
	"domainkeeper/internal/auth"
	"domainkeeper/internal/cmdutil"
	"domainkeeper/internal/config"
	"domainkeeper/internal/types"
	"fmt"
	"github.com/spf13/cobra"
	"time"
)

func newTokenCmd(cfg *config.Config) *cobra.Command {
	var (
		userID uint
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Issue an API access token",
		Example: "domainkeeper token --user 11 --role webmaster --ttl 720h",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.JWTSecret == "" {
				return errNoJWTSecret
			}
			actor := types.Actor{UserID: userID, Role: types.Role(role)}
			if userID == 0 || !actor.Role.IsValid() {
				return fmt.Errorf("a user id and one of the roles admin, manager, webmaster are required")
			}

			token, err := auth.NewTokenService(cfg.JWTSecret).Generate(actor, ttl)
			if err != nil {
				return err
			}
			cmdutil.Print(token)
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user", 0, "User id the token is issued for")
	cmd.Flags().StringVar(&role, "role", string(types.RoleWebmaster), "Role of the user")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
