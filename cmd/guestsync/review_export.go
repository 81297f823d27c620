package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/database"
	"github.com/xavierca1/ligue-guest-sync/internal/report"
)

func newReviewExportCommand(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "review-export",
		Short: "Exporta a fila de revisão aberta em CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewDBConnection(root.cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			items, err := database.NewReviewRepository(db).ListOpen(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if err := report.WriteReviewCSV(w, items); err != nil {
				return err
			}
			if w != cmd.OutOrStdout() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d itens exportados para %s\n", len(items), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "arquivo de saída (- para stdout)")
	return cmd
}
