package main

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/xavierca1/ligue-guest-sync/internal/config"
)

type rootOptions struct {
	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "guestsync",
		Short: "Reconcilia hóspedes do PMS com o CRM",
		Long: `guestsync lê hóspedes e reservas do PMS, filtra agentes e proxies de OTA,
resolve identidades no CRM e cria ou atualiza estadias só quando há diferença real.
Emails compartilhados e identidades ambíguas vão para a fila de revisão manual.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newReviewExportCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return cmd
}
