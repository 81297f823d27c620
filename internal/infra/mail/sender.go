package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"log"
	"sort"
	"text/template"
	"time"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
	"github.com/xavierca1/ligue-guest-sync/internal/report"
	"gopkg.in/gomail.v2"
)

//go:embed templates/run_report.html
var templatesFS embed.FS

var runReportTmpl = template.Must(template.ParseFS(templatesFS, "templates/run_report.html"))

// Dialer é o subconjunto de *gomail.Dialer usado no envio.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string, recipients []string) *EmailSender {
	return &EmailSender{
		Host:       host,
		Port:       port,
		User:       user,
		Password:   password,
		From:       from,
		Recipients: recipients,
		dialer:     gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer troca o transporte SMTP (testes).
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

// SendRunReport envia o resumo da execução com a fila de revisão em CSV anexada.
func (s *EmailSender) SendRunReport(ctx context.Context, r entity.RunReport) error {
	if len(s.Recipients) == 0 {
		log.Printf("⚠️ Email: nenhum destinatário configurado, relatório %s descartado", r.RunID)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.buildRunReport(r)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) buildRunReport(r entity.RunReport) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := runReportTmpl.Execute(&body, newRunReportEmailData(r)); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.Recipients...)
	m.SetHeader("Subject", subjectFor(r))
	m.SetBody("text/html", body.String())

	if len(r.Review) > 0 {
		csvBytes, err := report.ReviewCSV(r.Review)
		if err != nil {
			return nil, fmt.Errorf("erro ao gerar CSV de revisão: %w", err)
		}
		m.Attach(report.ReviewFileName(r.RunID),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(csvBytes)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {"text/csv; charset=UTF-8"}}),
		)
	}

	return m, nil
}

func subjectFor(r entity.RunReport) string {
	prefix := "✅"
	if r.Failed() {
		prefix = "❌"
	} else if len(r.Review) > 0 {
		prefix = "👀"
	}
	mode := ""
	if r.DryRun {
		mode = " (dry run)"
	}
	return fmt.Sprintf("%s Guest sync %s%s: %d para revisão", prefix, r.Status, mode, len(r.Review))
}

func newRunReportEmailData(r entity.RunReport) RunReportEmailData {
	data := RunReportEmailData{
		RunID:        r.RunID,
		Status:       r.Status,
		Failed:       r.Failed(),
		DryRun:       r.DryRun,
		StartedAt:    r.StartedAt.Format(time.RFC3339),
		Error:        r.Error,
		RulesVersion: r.RulesVersion,
		Summary:      r.Summary,
		ReviewCount:  len(r.Review),
	}
	if r.FinishedAt != nil {
		data.FinishedAt = r.FinishedAt.Format(time.RFC3339)
	}
	for cat, n := range r.Summary.FilteredBy {
		data.Categories = append(data.Categories, CategoryCount{Category: string(cat), Count: n})
	}
	sort.Slice(data.Categories, func(i, j int) bool { return data.Categories[i].Category < data.Categories[j].Category })
	return data
}
