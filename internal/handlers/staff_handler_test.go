package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/middleware"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/roles"
	"github.com/clinicore/hospital-portal/internal/testutil"
)

type staffFixture struct {
	db         *gorm.DB
	router     *gin.Engine
	dispatcher *audit.Dispatcher
	adminID    string
}

func newStaffFixture(t *testing.T) *staffFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	dispatcher := audit.NewDispatcher(audit.New(db))
	handler := NewStaffHandler(db, dispatcher)

	admin := testutil.CreateTestProfile(t, db, roles.AdminSys)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, admin.ID)
		c.Next()
	})
	r.GET("/staff", handler.List)
	r.GET("/staff/:id", handler.Get)
	r.POST("/staff", handler.Create)
	r.PATCH("/staff/:id", handler.Update)
	r.DELETE("/staff/:id", handler.Delete)

	return &staffFixture{db: db, router: r, dispatcher: dispatcher, adminID: admin.ID}
}

func (f *staffFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestStaffUpdate(t *testing.T) {
	f := newStaffFixture(t)

	nurse := testutil.CreateTestProfile(t, f.db, roles.Nurse)
	centre := testutil.CreateTestCentre(t, f.db)

	t.Run("changes role and centre assignments", func(t *testing.T) {
		w := f.do(t, http.MethodPatch, "/staff/"+nurse.ID, gin.H{
			"role":       "DOCTOR",
			"specialty":  "cardiology",
			"name":       nurse.Name,
			"surname":    nurse.Surname,
			"centre_ids": []string{centre.ID},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var updated models.Profile
		testutil.AssertNoError(t,
			f.db.Preload("Centres").Where("id = ?", nurse.ID).First(&updated).Error)

		if updated.Role != "DOCTOR" {
			t.Errorf("role = %q", updated.Role)
		}
		if len(updated.Centres) != 1 || updated.Centres[0].ID != centre.ID {
			t.Errorf("centres = %+v", updated.Centres)
		}
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		w := f.do(t, http.MethodPatch, "/staff/"+nurse.ID, gin.H{
			"role":    "WIZARD",
			"name":    nurse.Name,
			"surname": nurse.Surname,
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("rejects an unknown centre id", func(t *testing.T) {
		w := f.do(t, http.MethodPatch, "/staff/"+nurse.ID, gin.H{
			"role":       "NURSE",
			"name":       nurse.Name,
			"surname":    nurse.Surname,
			"centre_ids": []string{"missing"},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("audits the change with both snapshots and no password hash", func(t *testing.T) {
		f.dispatcher.Close()

		var entry models.AuditLog
		testutil.AssertNoError(t,
			f.db.Where("resource_type = ? AND action = ?", "profile", "UPDATE").
				Order("id DESC").First(&entry).Error)

		if entry.UserID == nil || *entry.UserID != f.adminID {
			t.Errorf("user_id = %v", entry.UserID)
		}
		if entry.OldValues == "" || entry.NewValues == "" {
			t.Error("update events carry both snapshots")
		}
		if strings.Contains(entry.OldValues, "$2a$") || strings.Contains(entry.NewValues, "$2a$") {
			t.Error("snapshots must not leak password hashes")
		}
	})
}

func TestStaffDelete(t *testing.T) {
	f := newStaffFixture(t)

	doctor := testutil.CreateTestProfile(t, f.db, roles.Doctor)

	w := f.do(t, http.MethodDelete, "/staff/"+doctor.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var count int64
	testutil.AssertNoError(t,
		f.db.Model(&models.Profile{}).Where("id = ?", doctor.ID).Count(&count).Error)
	if count != 0 {
		t.Error("profile should be gone")
	}

	t.Run("the audit row outlives the profile", func(t *testing.T) {
		f.dispatcher.Close()

		var entry models.AuditLog
		testutil.AssertNoError(t,
			f.db.Where("resource_type = ? AND resource_id = ?", "profile", doctor.ID).
				First(&entry).Error)

		if entry.Action != "DELETE" {
			t.Errorf("action = %q", entry.Action)
		}
		if entry.OldValues == "" {
			t.Error("delete events carry the old snapshot")
		}
		if entry.NewValues != "" {
			t.Error("delete events carry no new snapshot")
		}
	})

	t.Run("deleting a missing profile is a 404", func(t *testing.T) {
		w := f.do(t, http.MethodDelete, "/staff/"+doctor.ID, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
	})
}

func TestStaffList(t *testing.T) {
	f := newStaffFixture(t)

	testutil.CreateTestProfile(t, f.db, roles.Nurse)
	testutil.CreateTestProfile(t, f.db, roles.Nurse)
	testutil.CreateTestProfile(t, f.db, roles.Secretary)

	t.Run("filters by role", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/staff?role=NURSE", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var got []models.Profile
		testutil.AssertNoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		if len(got) != 2 {
			t.Errorf("got %d profiles, want 2", len(got))
		}
	})

	t.Run("rejects creating an account with an unknown role", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/staff", gin.H{
			"email":    "new@hospital.cd",
			"password": "password123",
			"role":     "WIZARD",
			"name":     "New",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})
}
