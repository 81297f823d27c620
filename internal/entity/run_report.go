package entity

import "time"

// RunReport é o relatório de uma execução, publicado ao fim do run e consumido pelo worker de notificação.
type RunReport struct {
	RunID        string       `json:"run_id"`
	Status       string       `json:"status"`
	DryRun       bool         `json:"dry_run"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
	Summary      RunSummary   `json:"summary"`
	Review       []ReviewItem `json:"review,omitempty"`
	Error        string       `json:"error,omitempty"`
	RulesVersion string       `json:"rules_version,omitempty"`
}

// Failed indica uma execução que abortou (checkpoint mantido).
func (r RunReport) Failed() bool {
	return r.Status == SyncStatusFailed
}
