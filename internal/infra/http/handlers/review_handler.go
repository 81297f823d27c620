package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
	"github.com/xavierca1/ligue-guest-sync/internal/report"
	"github.com/xavierca1/ligue-guest-sync/internal/usecase"
)

type ReviewStore interface {
	ListOpen(ctx context.Context) ([]entity.ReviewItem, error)
	Resolve(ctx context.Context, res entity.ConflictResolution) error
}

type ReviewHandler struct {
	Store ReviewStore
}

func NewReviewHandler(store ReviewStore) *ReviewHandler {
	return &ReviewHandler{Store: store}
}

// HandleList (GET /review)
func (h *ReviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListOpen(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []entity.ReviewItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleExport (GET /review/export.csv)
func (h *ReviewHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListOpen(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.ReviewFileName("")+`"`)
	if err := report.WriteReviewCSV(w, items); err != nil {
		log.Printf("❌ Falha ao exportar fila de revisão: %v", err)
	}
}

// HandleResolve (POST /review/resolve) registra o dono de um email compartilhado.
func (h *ReviewHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var input entity.ConflictResolution
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if verr := usecase.ValidateEmail(input.Email); verr != nil {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}
	if input.FirstName == "" {
		http.Error(w, "first_name é obrigatório", http.StatusBadRequest)
		return
	}

	if err := h.Store.Resolve(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("🧩 Conflito de %s resolvido para %s %s", input.Email, input.FirstName, input.LastName)
	writeJSON(w, http.StatusOK, input)
}
