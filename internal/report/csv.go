// Package report gera as saídas humanas de uma execução: a planilha da fila de revisão.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// WriteReviewCSV escreve a fila de revisão no layout da planilha de recadastro manual.
// A ordem é estável: por email, depois motivo, depois source_id.
func WriteReviewCSV(w io.Writer, items []entity.ReviewItem) error {
	sorted := make([]entity.ReviewItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Email != b.Email {
			return a.Email < b.Email
		}
		if a.Reason != b.Reason {
			return a.Reason < b.Reason
		}
		return a.ProposedFields.SourceID < b.ProposedFields.SourceID
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(entity.ReviewCSVHeader); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho do CSV: %w", err)
	}
	for _, item := range sorted {
		if err := cw.Write(item.CSVRow()); err != nil {
			return fmt.Errorf("erro ao escrever linha do CSV (%s): %w", item.Email, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReviewCSV é o atalho em memória, usado no anexo do email.
func ReviewCSV(items []entity.ReviewItem) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteReviewCSV(&buf, items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReviewFileName é o nome do arquivo exportado para uma execução.
func ReviewFileName(runID string) string {
	if runID == "" {
		return "review_queue.csv"
	}
	return fmt.Sprintf("review_queue_%s.csv", runID)
}
