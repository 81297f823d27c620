package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-guest-sync/internal/usecase"
)

type Syncer interface {
	Execute(ctx context.Context, input usecase.SyncInput) (*usecase.SyncOutput, error)
}

// SyncWorker dispara o sync incremental em intervalo fixo.
type SyncWorker struct {
	syncer       Syncer
	tickInterval time.Duration
	runTimeout   time.Duration
}

func NewSyncWorker(syncer Syncer, interval, runTimeout time.Duration) *SyncWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &SyncWorker{
		syncer:       syncer,
		tickInterval: interval,
		runTimeout:   runTimeout,
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	log.Printf("🕒 Sync Worker iniciado (intervalo %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Sync Worker encerrado")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	if w.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.runTimeout)
		defer cancel()
	}

	out, err := w.syncer.Execute(ctx, usecase.SyncInput{})
	if err != nil {
		if usecase.IsDomainError(err) {
			log.Printf("⏭️ Sync agendado ignorado: %v", err)
			return
		}
		log.Printf("❌ Sync agendado falhou: %v", err)
		return
	}

	if out.Plan != nil && out.Plan.HasWrites() {
		log.Printf("✅ Sync agendado %s aplicou %d identidades, %d estadias novas, %d atualizações",
			out.RunID, out.Applied.IdentitiesCreated, out.Applied.StaysCreated, out.Applied.StaysUpdated)
	}
}
