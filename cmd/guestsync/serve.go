package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-guest-sync/internal/infra/database"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/mail"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/queue"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/worker"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sobe a API, o agendador do sync e o worker de relatórios",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate {
				if err := database.Migrate(ctx, a.stateDB); err != nil {
					return err
				}
			}

			return serve(ctx, a)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "aplica as migrations antes de subir")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	cfg := a.cfg

	var broker handlers.BrokerStatus
	if a.rabbit != nil {
		broker = a.rabbit
	}

	healthHandler := handlers.NewHealthHandler(a.stateDB, broker, a.crm, cfg.Server.Version)
	syncHandler := handlers.NewSyncHandler(a.syncUC, a.checkpoints, a.runs)
	reviewHandler := handlers.NewReviewHandler(a.reviews)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.Origins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/sync/run", syncHandler.HandleRun)
	r.Get("/sync/checkpoint", syncHandler.HandleCheckpoint)
	r.Get("/sync/runs", syncHandler.HandleRuns)
	r.Get("/review", reviewHandler.HandleList)
	r.Get("/review/export.csv", reviewHandler.HandleExport)
	r.Post("/review/resolve", reviewHandler.HandleResolve)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("🔥 Guest sync rodando na porta %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Println("🛑 Encerrando servidor HTTP")
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Sync.SchedulerEnabled {
		syncWorker := worker.NewSyncWorker(a.syncUC, cfg.Sync.Interval, cfg.Sync.RunTimeout)
		g.Go(func() error {
			syncWorker.Start(gctx)
			return nil
		})
	}

	if a.rabbit != nil && cfg.Mail.Host != "" {
		sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.RecipientList())
		reportWorker := queue.NewWorker(a.rabbit.Ch, sender)
		g.Go(func() error {
			return reportWorker.Start(gctx, queue.QueueName)
		})
	}

	return g.Wait()
}
