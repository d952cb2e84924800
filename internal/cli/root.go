package cli

import (
	"domainkeeper/internal/config"
	"domainkeeper/logger"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cfg := &config.Config{}
	envFile := ""

	cmd := &cobra.Command{
		Use:           "domainkeeper",
		Short:         "domainkeeper - campaign domain inventory and SSL provisioning",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			*cfg = config.Load(envFile)
			return logger.InitLogger(cfg.Env)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading the configuration")

	cmd.AddCommand(newServeCmd(cfg))
	cmd.AddCommand(newMigrateCmd(cfg))
	cmd.AddCommand(newDomainsCmd(cfg))
	cmd.AddCommand(newSSLCmd(cfg))
	cmd.AddCommand(newTokenCmd(cfg))
	return cmd
}
