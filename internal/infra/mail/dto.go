package mail

import "github.com/xavierca1/ligue-guest-sync/internal/entity"

// RunReportEmailData alimenta o template do relatório.
type RunReportEmailData struct {
	RunID        string
	Status       string
	Failed       bool
	DryRun       bool
	StartedAt    string
	FinishedAt   string
	Error        string
	RulesVersion string
	Summary      entity.RunSummary
	ReviewCount  int
	Categories   []CategoryCount
}

type CategoryCount struct {
	Category string
	Count    int
}

type EmailSender struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	Recipients []string
	dialer     Dialer
}
