package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-guest-sync/internal/config"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/database"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/queue"
	"github.com/xavierca1/ligue-guest-sync/internal/usecase"
)

// app junta as dependências concretas de um processo.
type app struct {
	cfg         *config.Config
	stateDB     *sql.DB
	pmsDB       *sql.DB
	rabbit      *queue.RabbitMQ
	crm         *kommo.Client
	checkpoints *database.CheckpointRepository
	runs        *database.SyncRunRepository
	reviews     *database.ReviewRepository
	syncUC      *usecase.SyncGuestsUseCase
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	stateDB, err := database.NewDBConnection(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no banco de estado: %w", err)
	}
	a.stateDB = stateDB

	a.pmsDB = stateDB
	if cfg.Database.PMS() != cfg.Database.URL {
		pmsDB, err := database.NewDBConnection(cfg.Database.PMS())
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("falha ao conectar no banco do PMS: %w", err)
		}
		a.pmsDB = pmsDB
	}

	// Sem RabbitMQ o sync roda igual; só não há relatório por email.
	var publisher usecase.ReportPublisher
	if cfg.RabbitMQ.Enabled {
		rabbit, err := queue.NewRabbitMQ(queue.DSN(cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port))
		if err != nil {
			log.Printf("⚠️ RabbitMQ indisponível, relatórios desativados: %v", err)
		} else {
			a.rabbit = rabbit
			publisher = queue.NewProducer(rabbit.Ch)
		}
	}

	rules, err := config.LoadAgentRules(cfg.Sync.AgentRulesPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	log.Printf("📋 Regras de agentes carregadas (versão %s)", rules.Version)

	a.crm = kommo.NewClient(kommo.Config{
		BaseURL:     cfg.CRM.BaseURL,
		Token:       cfg.CRM.Token,
		PipelineID:  cfg.CRM.PipelineID,
		StatusID:    cfg.CRM.StatusID,
		Concurrency: cfg.CRM.Concurrency,
		Timeout:     cfg.CRM.Timeout,
	})

	a.checkpoints = database.NewCheckpointRepository(stateDB)
	a.runs = database.NewSyncRunRepository(stateDB)
	a.reviews = database.NewReviewRepository(stateDB)

	a.syncUC = usecase.NewSyncGuestsUseCase(
		database.NewGuestExtractor(a.pmsDB, cfg.Sync.ExtractBatchSize),
		usecase.NewReconciler(a.crm, rules, cfg.Sync.IdentityBatchSize, cfg.Sync.StayBatchSize),
		a.crm,
		a.checkpoints,
		a.runs,
		a.reviews,
		a.reviews,
		publisher,
		middleware.SyncRecorder{},
	)

	return a, nil
}

func (a *app) Close() {
	if a.rabbit != nil {
		a.rabbit.Close()
	}
	if a.pmsDB != nil && a.pmsDB != a.stateDB {
		a.pmsDB.Close()
	}
	if a.stateDB != nil {
		a.stateDB.Close()
	}
}
