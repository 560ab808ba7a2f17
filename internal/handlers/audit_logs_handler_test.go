package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/testutil"
)

func TestAuditLogsList(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	handler := NewAuditLogsHandler(audit.NewStore(db), nil)

	r := gin.New()
	r.GET("/audit-logs", handler.List)
	r.POST("/audit-logs/export", handler.Export)

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, action := range []string{"LOGIN", "CREATE", "UPDATE"} {
		entry := models.AuditLog{
			Action:       action,
			ResourceType: "patient",
			ResourceID:   "p-1",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		testutil.AssertNoError(t, db.Create(&entry).Error)
	}

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("returns a paged window newest first", func(t *testing.T) {
		w := get("/audit-logs?limit=2")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var resp struct {
			Data   []models.AuditLog `json:"data"`
			Total  int64             `json:"total"`
			Limit  int               `json:"limit"`
			Offset int               `json:"offset"`
		}
		testutil.AssertNoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		if len(resp.Data) != 2 {
			t.Fatalf("got %d entries", len(resp.Data))
		}
		if resp.Data[0].Action != "UPDATE" {
			t.Errorf("first entry = %q", resp.Data[0].Action)
		}
		if resp.Total != 3 {
			t.Errorf("total = %d", resp.Total)
		}
		if resp.Limit != 2 {
			t.Errorf("limit = %d", resp.Limit)
		}
	})

	t.Run("filters by action", func(t *testing.T) {
		w := get("/audit-logs?action=LOGIN")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var resp struct {
			Data []models.AuditLog `json:"data"`
		}
		testutil.AssertNoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		if len(resp.Data) != 1 || resp.Data[0].Action != "LOGIN" {
			t.Errorf("data = %+v", resp.Data)
		}
	})

	t.Run("rejects a malformed limit", func(t *testing.T) {
		if w := get("/audit-logs?limit=abc"); w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		if w := get("/audit-logs?limit=-1"); w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("export without a bucket reports unavailable", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/audit-logs/export", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", w.Code)
		}
	})
}
