package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/review/{email}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/review/{email}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/review/a@example.com", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/review/{email}", "418")))
}

func TestSyncRecorder_RecordRun(t *testing.T) {
	summary := entity.NewRunSummary()
	summary.Created = 3
	summary.FilteredBy[entity.CategoryExpediaProxy] = 2

	start := time.Now().UTC()
	finish := start.Add(2 * time.Second)
	run := &entity.SyncRun{ID: "r", StartedAt: start, FinishedAt: &finish, Status: entity.SyncStatusSuccess, Summary: &summary}

	createdBefore := testutil.ToFloat64(syncRecordsTotal.WithLabelValues("created"))
	expediaBefore := testutil.ToFloat64(syncFilteredTotal.WithLabelValues("expedia-proxy"))

	SyncRecorder{}.RecordRun(run)

	assert.Equal(t, createdBefore+3, testutil.ToFloat64(syncRecordsTotal.WithLabelValues("created")))
	assert.Equal(t, expediaBefore+2, testutil.ToFloat64(syncFilteredTotal.WithLabelValues("expedia-proxy")))
	assert.Equal(t, float64(start.Unix()), testutil.ToFloat64(syncLastSuccess))
}
