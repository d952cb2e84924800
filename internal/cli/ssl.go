package cli

import (
	"domainkeeper/internal/cmdutil"
	"domainkeeper/internal/config"
	"domainkeeper/internal/types"
	"fmt"
	"github.com/spf13/cobra"
)

func newSSLCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssl <command>",
		Short: "Manage the certificate lists of the SSL servers",
	}

	cmd.AddCommand(newSSLActionCmd(cfg, types.DomainActionAdd, "Add a domain to the certificate list of its SSL server"))
	cmd.AddCommand(newSSLActionCmd(cfg, types.DomainActionRemove, "Remove a domain from the certificate list of its SSL server"))
	return cmd
}

// newSSLActionCmd runs the SSL update job for one domain in the foreground
func newSSLActionCmd(cfg *config.Config, action types.DomainAction, short string) *cobra.Command {
	return &cobra.Command{
		Use:     fmt.Sprintf("%s <id>", action),
		Short:   short,
		Example: fmt.Sprintf("domainkeeper ssl %s 42", action),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDomainID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			cmdutil.StartLoading("Working... ")
			err = a.env.UpdateDomainSSL(action, id).Handle(cmd.Context())
			cmdutil.StopLoading()
			if err != nil {
				return err
			}

			domain, err := loadDomain(cmd.Context(), a, id)
			if err != nil {
				cmdutil.PrintW(fmt.Sprintf("Domain %d does not exist", id))
				return nil
			}
			if !domain.Configuration.HasSSLServer() {
				cmdutil.PrintW(fmt.Sprintf("%s has no SSL server, nothing to do", domain.Name))
				return nil
			}

			commit := "none"
			if domain.HasCommit() {
				commit = *domain.CommitID
			}
			cmdutil.PrintS(fmt.Sprintf("%s: ssl=%t commit=%s", domain.Name, domain.SSL, commit))
			return nil
		},
	}
}
