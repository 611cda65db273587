package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/insightly/insightly-go/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewStoreWithDB(db)
	if err != nil {
		t.Fatalf("failed to wrap db: %v", err)
	}
	return s
}

func TestMigrateIdempotent(t *testing.T) {
	s := newTestStore(t)

	// NewStoreWithDB already migrated; a second run against the
	// existing schema must be a no-op, not an error.
	if err := s.Migrate(); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}
	if _, err := s.DB.Exec(`SELECT 1 FROM events LIMIT 1`); err != nil {
		t.Fatalf("schema missing after second migrate: %v", err)
	}
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "dev@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "dev@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != created.ID || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestWebsiteRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := &models.Website{
		UserID:       "user-1",
		Domain:       "example.com",
		Name:         "Example",
		StripeAPIKey: "sk_test_abc",
	}
	if err := s.CreateWebsite(ctx, w); err != nil {
		t.Fatalf("create website: %v", err)
	}
	if w.ID == "" {
		t.Fatal("want generated website id")
	}

	got, err := s.GetWebsiteByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("get website: %v", err)
	}
	if got.Domain != "example.com" || got.StripeAPIKey != "sk_test_abc" {
		t.Fatalf("unexpected website: %+v", got)
	}

	list, err := s.ListWebsitesByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("list websites: %v", err)
	}
	if len(list) != 1 || list[0].ID != w.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	if _, err := s.GetWebsiteByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestHeartbeatUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.UpsertHeartbeat(ctx, "site-1", "sess-1", "vis-1"); err != nil {
			t.Fatalf("upsert heartbeat: %v", err)
		}
	}
	if err := s.UpsertHeartbeat(ctx, "site-1", "sess-2", "vis-2"); err != nil {
		t.Fatalf("upsert heartbeat: %v", err)
	}

	count, err := s.ActiveSessions(ctx, "site-1", 5*time.Minute)
	if err != nil {
		t.Fatalf("active sessions: %v", err)
	}
	if count != 2 {
		t.Fatalf("want 2 active sessions, got %d", count)
	}
}

func TestActiveSessionsExcludesStale(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-time.Hour).Format(timeFormat)
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO heartbeats (id, website_id, session_id, visitor_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		"hb-1", "site-1", "sess-old", "vis-old", stale)
	if err != nil {
		t.Fatalf("seed stale heartbeat: %v", err)
	}

	count, err := s.ActiveSessions(ctx, "site-1", 5*time.Minute)
	if err != nil {
		t.Fatalf("active sessions: %v", err)
	}
	if count != 0 {
		t.Fatalf("want 0 active sessions, got %d", count)
	}
}

func TestMarkPaymentProcessedClaimsOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.MarkPaymentProcessed(ctx, "stripe", "cs_test_123")
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if !first {
		t.Fatal("first claim must succeed")
	}

	second, err := s.MarkPaymentProcessed(ctx, "stripe", "cs_test_123")
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if second {
		t.Fatal("second claim must be rejected")
	}

	other, err := s.MarkPaymentProcessed(ctx, "stripe", "cs_test_456")
	if err != nil {
		t.Fatalf("other claim: %v", err)
	}
	if !other {
		t.Fatal("distinct payment id must claim fresh")
	}
}

func TestHasEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.HasEvent(ctx, "site-1", "vis-1", "sess-1")
	if err != nil {
		t.Fatalf("has event: %v", err)
	}
	if ok {
		t.Fatal("want no event before insert")
	}

	err = s.InsertEvent(ctx, &models.Event{
		WebsiteID: "site-1", Page: "/", VisitorID: "vis-1", SessionID: "sess-1", Type: "pageview",
	})
	if err != nil {
		t.Fatalf("insert event: %v", err)
	}

	ok, err = s.HasEvent(ctx, "site-1", "vis-1", "sess-1")
	if err != nil {
		t.Fatalf("has event: %v", err)
	}
	if !ok {
		t.Fatal("want event after insert")
	}
}

func TestMainTimeseriesBucketsAndRevenue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		err := s.InsertEvent(ctx, &models.Event{
			WebsiteID: "site-1", Page: "/", VisitorID: "vis-1", SessionID: "sess-1",
			Type: "pageview", CreatedAt: now.Add(-time.Minute),
		})
		if err != nil {
			t.Fatalf("insert event: %v", err)
		}
	}
	err := s.InsertRevenue(ctx, &models.Revenue{
		WebsiteID: "site-1", SessionID: "sess-1", VisitorID: "vis-1",
		Revenue: 49, Sales: 1, EventType: "purchase", CreatedAt: now.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("insert revenue: %v", err)
	}

	buckets, err := s.MainTimeseries(ctx, "site-1", "24h", now)
	if err != nil {
		t.Fatalf("timeseries: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("want 1 bucket, got %d: %+v", len(buckets), buckets)
	}
	if buckets[0].Visitors != 3 || buckets[0].Revenue != 49 {
		t.Fatalf("unexpected bucket: %+v", buckets[0])
	}
}

func TestBreakdownCountsAndRejectsUnknownDimension(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	pages := []string{"/a", "/a", "/b"}
	for _, p := range pages {
		err := s.InsertEvent(ctx, &models.Event{
			WebsiteID: "site-1", Page: p, VisitorID: "vis-1", SessionID: "sess-1",
			Type: "pageview", Browser: "Chrome", CreatedAt: now.Add(-time.Minute),
		})
		if err != nil {
			t.Fatalf("insert event: %v", err)
		}
	}

	records, err := s.Breakdown(ctx, "site-1", "page", "24h", now)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %+v", records)
	}
	if records[0].Label != "/a" || records[0].Visitors != 2 {
		t.Fatalf("unexpected top record: %+v", records[0])
	}

	if _, err := s.Breakdown(ctx, "site-1", "password_hash", "24h", now); err == nil {
		t.Fatal("want error for non-whitelisted dimension")
	}
}

func TestGoalCountsAndLinkStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	goals := []*models.Goal{
		{WebsiteID: "site-1", VisitorID: "v1", SessionID: "s1", Name: "signup"},
		{WebsiteID: "site-1", VisitorID: "v2", SessionID: "s2", Name: "signup"},
		{WebsiteID: "site-1", VisitorID: "v1", SessionID: "s1", Name: "external_link",
			Metadata: map[string]string{"url": "https://github.com/acme"}},
	}
	for _, g := range goals {
		if err := s.InsertGoal(ctx, g); err != nil {
			t.Fatalf("insert goal: %v", err)
		}
	}

	counts, err := s.GoalCounts(ctx, "site-1")
	if err != nil {
		t.Fatalf("goal counts: %v", err)
	}
	if len(counts) != 2 || counts[0].Name != "signup" || counts[0].Count != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	links, err := s.LinkStats(ctx, "site-1", "24h", time.Now().UTC())
	if err != nil {
		t.Fatalf("link stats: %v", err)
	}
	if len(links) != 1 || links[0].Label != "https://github.com/acme" || links[0].Visitors != 1 {
		t.Fatalf("unexpected link stats: %+v", links)
	}
}

func TestTotalRevenueWindowed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	recent := &models.Revenue{WebsiteID: "site-1", Revenue: 20, Sales: 1, EventType: "purchase", CreatedAt: now.Add(-time.Hour)}
	old := &models.Revenue{WebsiteID: "site-1", Revenue: 100, Sales: 1, EventType: "purchase", CreatedAt: now.Add(-48 * time.Hour)}
	for _, r := range []*models.Revenue{recent, old} {
		if err := s.InsertRevenue(ctx, r); err != nil {
			t.Fatalf("insert revenue: %v", err)
		}
	}

	total, err := s.TotalRevenue(ctx, "site-1", "24h", now)
	if err != nil {
		t.Fatalf("total revenue: %v", err)
	}
	if total != 20 {
		t.Fatalf("want 20, got %v", total)
	}
}
