package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
	"github.com/xavierca1/ligue-guest-sync/internal/usecase"
)

type SyncRunner interface {
	Execute(ctx context.Context, input usecase.SyncInput) (*usecase.SyncOutput, error)
}

type RunLister interface {
	ListRecent(ctx context.Context, limit int) ([]entity.SyncRun, error)
}

type SyncHandler struct {
	Runner         SyncRunner
	CheckpointRepo entity.CheckpointRepositoryInterface
	Runs           RunLister
}

func NewSyncHandler(runner SyncRunner, checkpointRepo entity.CheckpointRepositoryInterface, runs RunLister) *SyncHandler {
	return &SyncHandler{Runner: runner, CheckpointRepo: checkpointRepo, Runs: runs}
}

// HandleRun (POST /sync/run?dry_run=true&full=true)
func (h *SyncHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	input := usecase.SyncInput{}

	var err error
	if v := r.URL.Query().Get("dry_run"); v != "" {
		if input.DryRun, err = strconv.ParseBool(v); err != nil {
			http.Error(w, "dry_run inválido", http.StatusBadRequest)
			return
		}
	}
	if v := r.URL.Query().Get("full"); v != "" {
		if input.FullResync, err = strconv.ParseBool(v); err != nil {
			http.Error(w, "full inválido", http.StatusBadRequest)
			return
		}
	}

	output, err := h.Runner.Execute(r.Context(), input)
	if err != nil {
		var de *usecase.DomainError
		if errors.As(err, &de) {
			writeJSON(w, http.StatusConflict, map[string]string{"code": de.Code, "error": de.Message})
			return
		}
		log.Printf("❌ Sync via API falhou: %v", err)
		body := map[string]interface{}{"error": err.Error()}
		if output != nil {
			body["run_id"] = output.RunID
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// HandleCheckpoint (GET /sync/checkpoint)
func (h *SyncHandler) HandleCheckpoint(w http.ResponseWriter, r *http.Request) {
	cp, err := h.CheckpointRepo.Get(r.Context())
	if errors.Is(err, entity.ErrCheckpointNotFound) {
		writeJSON(w, http.StatusOK, entity.SyncCheckpoint{})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cp)
}

// HandleRuns (GET /sync/runs?limit=20)
func (h *SyncHandler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			http.Error(w, "limit deve estar entre 1 e 200", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.Runs.ListRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []entity.SyncRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
