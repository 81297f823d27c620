package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

type SyncInput struct {
	FullResync bool `json:"full_resync"`
	DryRun     bool `json:"dry_run"`
}

type SyncOutput struct {
	RunID      string                 `json:"run_id"`
	Status     string                 `json:"status"`
	DryRun     bool                   `json:"dry_run"`
	Plan       *entity.SyncPlan       `json:"plan"`
	Applied    ApplyResult            `json:"applied"`
	Checkpoint *entity.SyncCheckpoint `json:"checkpoint"`
}

// RunRecorder recebe cada execução encerrada (métricas).
type RunRecorder interface {
	RecordRun(run *entity.SyncRun)
}

type SyncGuestsUseCase struct {
	Extractor      GuestExtractor
	Reconciler     *Reconciler
	Writer         CRMWriter
	CheckpointRepo entity.CheckpointRepositoryInterface
	RunRepo        entity.SyncRunRepositoryInterface
	ReviewRepo     entity.ReviewRepositoryInterface
	ResolutionRepo ResolutionRepositoryInterface
	Publisher      ReportPublisher
	Recorder       RunRecorder

	running sync.Mutex
}

func NewSyncGuestsUseCase(
	extractor GuestExtractor,
	reconciler *Reconciler,
	writer CRMWriter,
	checkpointRepo entity.CheckpointRepositoryInterface,
	runRepo entity.SyncRunRepositoryInterface,
	reviewRepo entity.ReviewRepositoryInterface,
	resolutionRepo ResolutionRepositoryInterface,
	publisher ReportPublisher,
	recorder RunRecorder,
) *SyncGuestsUseCase {
	return &SyncGuestsUseCase{
		Extractor:      extractor,
		Reconciler:     reconciler,
		Writer:         writer,
		CheckpointRepo: checkpointRepo,
		RunRepo:        runRepo,
		ReviewRepo:     reviewRepo,
		ResolutionRepo: resolutionRepo,
		Publisher:      publisher,
		Recorder:       recorder,
	}
}

// Execute roda uma execução completa. O checkpoint só avança se tudo der certo;
// qualquer falha (ou cancelamento) deixa a janela para ser refeita inteira.
func (uc *SyncGuestsUseCase) Execute(ctx context.Context, input SyncInput) (*SyncOutput, error) {
	if !uc.running.TryLock() {
		return nil, &DomainError{Code: "SYNC_ALREADY_RUNNING", Message: "já existe uma sincronização em andamento"}
	}
	defer uc.running.Unlock()

	run := entity.NewSyncRun(input.DryRun)
	out := &SyncOutput{RunID: run.ID, DryRun: input.DryRun}
	log.Printf("🔄 Sync %s iniciado (full=%t, dry_run=%t)", run.ID, input.FullResync, input.DryRun)

	var rowCount int
	var scope entity.ReviewScope
	txn := NewTransaction()

	txn.AddStep("open_run",
		func(ctx context.Context) error {
			return uc.RunRepo.Start(ctx, run)
		},
		func(ctx context.Context) error {
			return uc.finishRun(ctx, run, entity.SyncStatusFailed)
		},
	)

	txn.AddStep("extract_and_reconcile", func(ctx context.Context) error {
		cp, err := uc.loadCheckpoint(ctx)
		if err != nil {
			return err
		}
		out.Checkpoint = cp

		since := cp.LastSyncTimestamp
		if input.FullResync {
			since = nil
		}

		var pending []string
		if since != nil {
			pending, err = uc.ReviewRepo.PendingEmails(ctx, *since)
			if err != nil {
				return technical("REVIEW_READ", "falha ao ler emails pendentes de revisão", err)
			}
		}

		rows, err := uc.Extractor.Extract(ctx, since, pending)
		if err != nil {
			return technical("PMS_EXTRACT", "falha ao extrair hóspedes do PMS", err)
		}
		rowCount = len(rows)
		scope = reviewScopeFor(since, pending, rows)
		log.Printf("📥 Sync %s: %d registros extraídos do PMS (%d emails pendentes)", run.ID, rowCount, len(pending))

		resolutions, err := uc.loadResolutions(ctx)
		if err != nil {
			return err
		}

		plan, err := uc.Reconciler.Reconcile(ctx, ReconcileInput{Rows: rows, Resolutions: resolutions})
		if err != nil {
			return err
		}
		out.Plan = plan
		run.Summary = &plan.Summary
		return nil
	}, nil)

	if !input.DryRun {
		txn.AddStep("apply_plan", func(ctx context.Context) error {
			res, err := applyPlan(ctx, uc.Writer, out.Plan)
			out.Applied = res
			return err
		}, nil)

		txn.AddStep("save_review", func(ctx context.Context) error {
			if err := uc.ReviewRepo.ReplaceOpen(ctx, run.ID, scope, out.Plan.Review); err != nil {
				return technical("REVIEW_SAVE", "falha ao salvar fila de revisão", err)
			}
			return nil
		}, nil)

		txn.AddStep("advance_checkpoint", func(ctx context.Context) error {
			startedAt := run.StartedAt
			cp := &entity.SyncCheckpoint{
				LastSyncTimestamp:   &startedAt,
				LastSyncStatus:      entity.SyncStatusSuccess,
				LastSyncRecordCount: rowCount,
			}
			if err := uc.CheckpointRepo.Save(ctx, cp); err != nil {
				return technical("CHECKPOINT_SAVE", "falha ao avançar checkpoint", err)
			}
			out.Checkpoint = cp
			return nil
		}, nil)
	}

	if err := txn.Execute(ctx); err != nil {
		run.Error = err.Error()
		run.Status = entity.SyncStatusFailed
		out.Status = entity.SyncStatusFailed
		if errors.Is(err, entity.ErrInvariantViolation) {
			log.Printf("🛑 Sync %s abortado por violação de invariante: %v", run.ID, err)
		} else {
			log.Printf("❌ Sync %s falhou, checkpoint mantido: %v", run.ID, err)
		}
		uc.record(run)
		uc.publish(ctx, run, out.Plan)
		return out, err
	}

	if err := uc.finishRun(ctx, run, entity.SyncStatusSuccess); err != nil {
		log.Printf("⚠️ Sync %s: falha ao registrar fim da execução: %v", run.ID, err)
	}
	out.Status = entity.SyncStatusSuccess

	s := out.Plan.Summary
	log.Printf("✅ Sync %s concluído: elegíveis=%d agentes=%d inválidos=%d criados=%d atualizados=%d sem_mudança=%d revisão=%d conflitos=%d",
		run.ID, s.Eligible, s.FilteredAgent, s.Invalid, s.Created, s.Updated, s.NoOp, s.NeedsReview, s.ConflictEmails)
	if s.NeedsReview > 0 {
		log.Printf("👀 Sync %s: %d registro(s) aguardando revisão manual", run.ID, s.NeedsReview)
	}

	uc.record(run)
	uc.publish(ctx, run, out.Plan)
	return out, nil
}

// reviewScopeFor define quais emails da fila foram recalculados. Incremental cobre só
// os emails extraídos e os pendentes; o resto da fila aberta continua valendo.
func reviewScopeFor(since *time.Time, pending []string, rows []entity.RawGuestRow) entity.ReviewScope {
	if since == nil {
		return entity.FullReviewScope()
	}

	seen := make(map[string]bool, len(pending)+len(rows))
	scope := entity.ReviewScope{}
	add := func(email string) {
		email = entity.NormalizeEmail(email)
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		scope.Emails = append(scope.Emails, email)
	}
	for _, e := range pending {
		add(e)
	}
	for _, r := range rows {
		add(r.Email)
	}
	return scope
}

func (uc *SyncGuestsUseCase) loadCheckpoint(ctx context.Context) (*entity.SyncCheckpoint, error) {
	cp, err := uc.CheckpointRepo.Get(ctx)
	if errors.Is(err, entity.ErrCheckpointNotFound) {
		log.Println("🆕 Nenhum checkpoint encontrado: extração completa")
		return &entity.SyncCheckpoint{}, nil
	}
	if err != nil {
		return nil, technical("CHECKPOINT_READ", "falha ao ler checkpoint", err)
	}
	return cp, nil
}

func (uc *SyncGuestsUseCase) loadResolutions(ctx context.Context) ([]entity.ConflictResolution, error) {
	if uc.ResolutionRepo == nil {
		return nil, nil
	}
	res, err := uc.ResolutionRepo.ListResolutions(ctx)
	if err != nil {
		return nil, technical("RESOLUTION_READ", "falha ao ler resoluções manuais", err)
	}
	return res, nil
}

func (uc *SyncGuestsUseCase) finishRun(ctx context.Context, run *entity.SyncRun, status string) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = status
	return uc.RunRepo.Finish(ctx, run)
}

func (uc *SyncGuestsUseCase) record(run *entity.SyncRun) {
	if uc.Recorder != nil {
		uc.Recorder.RecordRun(run)
	}
}

// publish nunca derruba a execução: o relatório é informativo.
func (uc *SyncGuestsUseCase) publish(ctx context.Context, run *entity.SyncRun, plan *entity.SyncPlan) {
	if uc.Publisher == nil {
		return
	}

	payload := entity.RunReport{
		RunID:      run.ID,
		Status:     run.Status,
		DryRun:     run.DryRun,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Error:      run.Error,
	}
	if uc.Reconciler != nil && uc.Reconciler.Classifier != nil {
		payload.RulesVersion = uc.Reconciler.Classifier.RulesVersion()
	}
	if plan != nil {
		payload.Summary = plan.Summary
		payload.Review = plan.Review
	}

	if err := uc.Publisher.PublishRunReport(context.WithoutCancel(ctx), payload); err != nil {
		log.Printf("⚠️ Sync %s: falha ao publicar relatório na fila: %v", run.ID, err)
	}
}
