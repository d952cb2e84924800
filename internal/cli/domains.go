package cli

import (
	"context"
	"domainkeeper/internal/cmdutil"
	"domainkeeper/internal/config"
	"domainkeeper/internal/database"
	"domainkeeper/internal/types"
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"strconv"
)

// operator is the caller of one-shot commands, it sees every domain
var operator = types.Actor{Role: types.RoleAdmin}

func newDomainsCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains <command>",
		Short: "Inspect and manage domains",
	}

	cmd.AddCommand(newListDomainsCmd(cfg))
	cmd.AddCommand(newDestroyDomainCmd(cfg))
	return cmd
}

func newListDomainsCmd(cfg *config.Config) *cobra.Command {
	params := types.ListParams{}
	status := 0

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List domains",
		Example: "domainkeeper domains list --type primary --search shop --sort -created_at",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != 0 {
				s, err := types.ParseDomainStatus(status)
				if err != nil {
					return err
				}
				params.Filter.Status = &s
			}

			db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			page, err := database.NewDomainRepository(db).List(cmd.Context(), database.ForActor(operator), params)
			if err != nil {
				return err
			}

			cmdutil.Print("")
			cmdutil.Print(renderDomains(page))
			return nil
		},
	}

	cmd.Flags().StringVarP(&params.Filter.Type, "type", "t", "", "Only list domains of this type: primary, reserve, landing or redirect")
	cmd.Flags().StringVarP(&params.Filter.Search, "search", "s", "", "Only list domains whose name contains this text")
	cmd.Flags().IntVar(&status, "status", 0, "Only list domains with this status id")
	cmd.Flags().StringVar(&params.Sort, "sort", types.DefaultSort, "Sort key, prefix with - for descending")
	cmd.Flags().IntVar(&params.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&params.PerPage, "per-page", types.DefaultPerPage, "Domains per page")
	return cmd
}

func renderDomains(page *types.Page) string {
	writer := table.NewWriter()
	writer.AppendHeader(table.Row{"ID", "Name", "Type", "Status", "SSL", "Commit", "Configuration", "Created Time"})
	for _, d := range page.Items {
		commit := ""
		if d.HasCommit() {
			commit = *d.CommitID
			if len(commit) > 8 {
				commit = commit[:8]
			}
		}
		writer.AppendRow(table.Row{
			d.ID,
			d.Name,
			d.Type,
			d.StatusID,
			d.SSL,
			commit,
			d.ConfigurationID,
			d.CreatedAt.Format("2006-01-02"),
		})
	}
	writer.AppendFooter(table.Row{"", fmt.Sprintf("page %d of %d", page.CurrentPage, page.LastPage), "", "", "", "", "total", page.Total})
	return writer.Render()
}

func newDestroyDomainCmd(cfg *config.Config) *cobra.Command {
	yes := false

	cmd := &cobra.Command{
		Use:     "destroy <id>",
		Short:   "Delete a disabled domain",
		Long:    "Soft delete a disabled domain and remove it from the certificate list of its SSL server",
		Example: "domainkeeper domains destroy 42",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDomainID(args[0])
			if err != nil {
				return err
			}

			if !yes && !cmdutil.Confirm(fmt.Sprintf("Delete domain %d", id)) {
				cmdutil.PrintW("Aborted")
				return nil
			}

			a, err := newApp(cmd.Context(), *cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			cmdutil.StartLoading("Deleting... ")
			err = a.domains.Destroy(cmd.Context(), operator, id)
			cmdutil.StopLoading()
			if err != nil {
				return err
			}

			cmdutil.PrintS("Domain deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func parseDomainID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid domain id: %s", value)
	}
	return uint(id), nil
}

func loadDomain(ctx context.Context, a *app, id uint) (*types.Domain, error) {
	return a.env.Domains.FindByID(ctx, database.System().WithTrashed(), id, "Configuration")
}
