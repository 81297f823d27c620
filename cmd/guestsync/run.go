package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xavierca1/ligue-guest-sync/internal/entity"
	"github.com/xavierca1/ligue-guest-sync/internal/usecase"
)

type runOptions struct {
	*rootOptions
	dryRun bool
	full   bool
	asJSON bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Executa uma sincronização e sai",
		Long: `Executa uma sincronização a partir do último checkpoint.

Exemplos:
  guestsync run --dry-run        # mostra o plano sem escrever no CRM
  guestsync run --full           # ignora o checkpoint e reprocessa tudo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.syncUC.Execute(cmd.Context(), usecase.SyncInput{DryRun: opts.dryRun, FullResync: opts.full})
			if out != nil {
				if perr := printOutput(cmd.OutOrStdout(), out, opts.asJSON); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "calcula o plano sem escrever no CRM nem avançar o checkpoint")
	cmd.Flags().BoolVar(&opts.full, "full", false, "ignora o checkpoint e extrai tudo")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "imprime o resultado completo em JSON")

	return cmd
}

func printOutput(w io.Writer, out *usecase.SyncOutput, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "run %s: %s", out.RunID, out.Status)
	if out.DryRun {
		fmt.Fprint(w, " (dry run)")
	}
	fmt.Fprintln(w)
	if out.Plan == nil {
		return nil
	}

	s := out.Plan.Summary
	fmt.Fprintf(w, "  extraídos:           %d\n", s.Extracted)
	fmt.Fprintf(w, "  elegíveis:           %d\n", s.Eligible)
	fmt.Fprintf(w, "  agentes filtrados:   %d\n", s.FilteredAgent)
	for _, cat := range []entity.AgentCategory{entity.CategoryAgentDomain, entity.CategoryBookingProxy, entity.CategoryExpediaProxy, entity.CategoryCompany} {
		if n := s.FilteredBy[cat]; n > 0 {
			fmt.Fprintf(w, "    %-18s %d\n", cat+":", n)
		}
	}
	fmt.Fprintf(w, "  inválidos:           %d\n", s.Invalid)
	fmt.Fprintf(w, "  identidades novas:   %d\n", s.IdentitiesCreated)
	fmt.Fprintf(w, "  estadias criadas:    %d\n", s.Created)
	fmt.Fprintf(w, "  estadias alteradas:  %d\n", s.Updated)
	fmt.Fprintf(w, "  sem mudança:         %d\n", s.NoOp)
	fmt.Fprintf(w, "  para revisão:        %d\n", s.NeedsReview)
	fmt.Fprintf(w, "  emails em conflito:  %d\n", s.ConflictEmails)

	for _, u := range out.Plan.UpdateStays {
		for _, warn := range u.Warnings {
			fmt.Fprintf(w, "  aviso: estadia %s (%s): %s\n", u.Existing.ID, u.Proposed.Email, warn)
		}
	}
	return nil
}
