package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/middleware"
	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/rbac"
	"github.com/clinicore/hospital-portal/internal/roles"
	"github.com/clinicore/hospital-portal/internal/sessions"
	"github.com/clinicore/hospital-portal/internal/testutil"
)

type authFixture struct {
	db         *gorm.DB
	router     *gin.Engine
	dispatcher *audit.Dispatcher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	dispatcher := audit.NewDispatcher(audit.New(db))

	sessionManager := sessions.NewManager("test-secret", time.Hour, nil)
	resolver := rbac.NewResolver(rbac.NewGormProfileStore(db))

	handler := NewAuthHandler(db, sessionManager, resolver, dispatcher)

	r := gin.New()
	r.Use(middleware.Identity(sessionManager))
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/logout", handler.Logout)

	return &authFixture{db: db, router: r, dispatcher: dispatcher}
}

func (f *authFixture) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(gin.H{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *authFixture) lastAuthEntry(t *testing.T) *models.AuditLog {
	t.Helper()

	// Drain pending audit events before reading the trail.
	f.dispatcher.Close()

	var entry models.AuditLog
	err := f.db.Where("resource_type = ?", "auth").
		Order("id DESC").
		First(&entry).Error
	testutil.AssertNoError(t, err)
	return &entry
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials sign in and audit LOGIN", func(t *testing.T) {
		f := newAuthFixture(t)
		profile := testutil.CreateTestProfileWithEmail(t, f.db, "doc@hospital.cd", roles.Doctor)

		w := f.login(t, "doc@hospital.cd", "password123")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var resp struct {
			Redirect string `json:"redirect"`
			Token    string `json:"token"`
		}
		testutil.AssertNoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		if resp.Redirect != "/medical" {
			t.Errorf("redirect = %q", resp.Redirect)
		}
		if resp.Token == "" {
			t.Error("expected a session token")
		}

		entry := f.lastAuthEntry(t)
		if entry.Action != "LOGIN" {
			t.Errorf("action = %q", entry.Action)
		}
		if entry.ResourceID != "session" {
			t.Errorf("resource_id = %q", entry.ResourceID)
		}
		if entry.UserID == nil || *entry.UserID != profile.ID {
			t.Errorf("user_id = %v", entry.UserID)
		}
	})

	t.Run("wrong password fails and audits FAILED_LOGIN with the account", func(t *testing.T) {
		f := newAuthFixture(t)
		profile := testutil.CreateTestProfileWithEmail(t, f.db, "nurse@hospital.cd", roles.Nurse)

		w := f.login(t, "nurse@hospital.cd", "wrong-password")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", w.Code)
		}

		entry := f.lastAuthEntry(t)
		if entry.Action != "FAILED_LOGIN" {
			t.Errorf("action = %q", entry.Action)
		}
		if entry.UserID == nil || *entry.UserID != profile.ID {
			t.Errorf("user_id = %v", entry.UserID)
		}
	})

	t.Run("unknown email fails and audits FAILED_LOGIN without an account", func(t *testing.T) {
		f := newAuthFixture(t)

		w := f.login(t, "nobody@hospital.cd", "password123")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", w.Code)
		}

		entry := f.lastAuthEntry(t)
		if entry.Action != "FAILED_LOGIN" {
			t.Errorf("action = %q", entry.Action)
		}
		if entry.UserID != nil {
			t.Errorf("user_id = %v, want nil", entry.UserID)
		}
	})

	t.Run("email matching is case-insensitive", func(t *testing.T) {
		f := newAuthFixture(t)
		testutil.CreateTestProfileWithEmail(t, f.db, "admin@hospital.cd", roles.AdminSys)

		w := f.login(t, "Admin@Hospital.CD", "password123")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})
}

func TestLogout(t *testing.T) {
	t.Run("signed-in user signs out and audits LOGOUT", func(t *testing.T) {
		f := newAuthFixture(t)
		profile := testutil.CreateTestProfileWithEmail(t, f.db, "sec@hospital.cd", roles.Secretary)

		w := f.login(t, "sec@hospital.cd", "password123")
		if w.Code != http.StatusOK {
			t.Fatalf("login status = %d", w.Code)
		}

		var resp struct {
			Token string `json:"token"`
		}
		testutil.AssertNoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)

		out := httptest.NewRecorder()
		f.router.ServeHTTP(out, req)

		if out.Code != http.StatusOK {
			t.Fatalf("logout status = %d, body = %s", out.Code, out.Body.String())
		}

		entry := f.lastAuthEntry(t)
		if entry.Action != "LOGOUT" {
			t.Errorf("action = %q", entry.Action)
		}
		if entry.UserID == nil || *entry.UserID != profile.ID {
			t.Errorf("user_id = %v", entry.UserID)
		}
	})

	t.Run("anonymous logout is rejected", func(t *testing.T) {
		f := newAuthFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", w.Code)
		}
	})
}
