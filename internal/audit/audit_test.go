package audit

import (
	"context"
	"testing"
	"time"

	"github.com/clinicore/hospital-portal/internal/models"
	"github.com/clinicore/hospital-portal/internal/testutil"
)

func TestNormalizeIP(t *testing.T) {
	cases := map[string]string{
		"::ffff:192.0.2.10": "192.0.2.10",
		"192.0.2.10":        "192.0.2.10",
		"2001:db8::1":       "2001:db8::1",
		"not-an-ip":         "not-an-ip",
		"":                  "",
	}

	for in, want := range cases {
		if got := NormalizeIP(in); got != want {
			t.Errorf("NormalizeIP(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecord(t *testing.T) {
	ctx := context.Background()

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	logger := New(db)

	t.Run("create carries only new values", func(t *testing.T) {
		userID := "staff-1"
		err := logger.Record(ctx, Event{
			UserID:       &userID,
			Action:       ActionCreate,
			ResourceType: "patient",
			ResourceID:   "p-1",
			NewValues:    map[string]any{"name": "Mbuyi"},
			IPAddress:    "::ffff:10.0.0.7",
			UserAgent:    "test-agent",
		})
		testutil.AssertNoError(t, err)

		var entry models.AuditLog
		testutil.AssertNoError(t, db.Where("resource_id = ?", "p-1").First(&entry).Error)

		if entry.OldValues != "" {
			t.Errorf("old_values = %q, want empty", entry.OldValues)
		}
		if entry.NewValues == "" {
			t.Error("new_values should be set")
		}
		if entry.IPAddress != "10.0.0.7" {
			t.Errorf("ip_address = %q", entry.IPAddress)
		}
		if entry.Action != "CREATE" {
			t.Errorf("action = %q", entry.Action)
		}
	})

	t.Run("delete carries only old values", func(t *testing.T) {
		err := logger.Record(ctx, Event{
			Action:       ActionDelete,
			ResourceType: "patient",
			ResourceID:   "p-2",
			OldValues:    map[string]any{"name": "Kalala"},
		})
		testutil.AssertNoError(t, err)

		var entry models.AuditLog
		testutil.AssertNoError(t, db.Where("resource_id = ?", "p-2").First(&entry).Error)

		if entry.NewValues != "" {
			t.Errorf("new_values = %q, want empty", entry.NewValues)
		}
		if entry.OldValues == "" {
			t.Error("old_values should be set")
		}
		if entry.UserID != nil {
			t.Error("system events carry no user id")
		}
	})
}

func TestDispatcher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	dispatcher := NewDispatcher(New(db))

	for i := 0; i < 5; i++ {
		dispatcher.Dispatch(Event{
			Action:       ActionUpdate,
			ResourceType: "centre",
			ResourceID:   "c-1",
		})
	}

	// Close drains the queue before the assertion.
	dispatcher.Close()

	var count int64
	testutil.AssertNoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	if count != 5 {
		t.Errorf("stored %d entries, want 5", count)
	}
}

func TestStoreQuery(t *testing.T) {
	ctx := context.Background()

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	store := NewStore(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	seed := []models.AuditLog{
		{Action: "CREATE", ResourceType: "patient", ResourceID: "p-1", CreatedAt: base},
		{Action: "UPDATE", ResourceType: "patient", ResourceID: "p-1", CreatedAt: base.Add(time.Minute)},
		{Action: "LOGIN", ResourceType: "auth", ResourceID: "session", CreatedAt: base.Add(2 * time.Minute)},
		// Two entries sharing one timestamp keep insertion order.
		{Action: "CREATE", ResourceType: "centre", ResourceID: "c-1", CreatedAt: base.Add(3 * time.Minute)},
		{Action: "CREATE", ResourceType: "centre", ResourceID: "c-2", CreatedAt: base.Add(3 * time.Minute)},
	}
	for i := range seed {
		testutil.AssertNoError(t, db.Create(&seed[i]).Error)
	}

	t.Run("newest first with id tie-break", func(t *testing.T) {
		entries, err := store.Query(ctx, Filter{})
		testutil.AssertNoError(t, err)

		if len(entries) != 5 {
			t.Fatalf("got %d entries", len(entries))
		}
		if entries[0].ResourceID != "c-2" || entries[1].ResourceID != "c-1" {
			t.Errorf("tie-break order wrong: %q then %q",
				entries[0].ResourceID, entries[1].ResourceID)
		}
		if entries[4].Action != "CREATE" || entries[4].ResourceID != "p-1" {
			t.Errorf("oldest entry wrong: %+v", entries[4])
		}
	})

	t.Run("filters by action and resource type", func(t *testing.T) {
		entries, err := store.Query(ctx, Filter{Action: "CREATE", ResourceType: "centre"})
		testutil.AssertNoError(t, err)
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}
	})

	t.Run("search matches resource ids case-insensitively", func(t *testing.T) {
		entries, err := store.Query(ctx, Filter{Search: "P-1"})
		testutil.AssertNoError(t, err)
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}
	})

	t.Run("limit is capped at the page maximum", func(t *testing.T) {
		entries, err := store.Query(ctx, Filter{Limit: 100000})
		testutil.AssertNoError(t, err)
		if len(entries) != 5 {
			t.Fatalf("got %d entries", len(entries))
		}
	})

	t.Run("offset pages through", func(t *testing.T) {
		entries, err := store.Query(ctx, Filter{Limit: 2, Offset: 4})
		testutil.AssertNoError(t, err)
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if entries[0].ResourceID != "p-1" {
			t.Errorf("entry = %+v", entries[0])
		}
	})

	t.Run("count honors the filters", func(t *testing.T) {
		total, err := store.Count(ctx, Filter{Action: "CREATE"})
		testutil.AssertNoError(t, err)
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
	})
}
