package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/insightly/insightly-go/models"
)

var testNow = time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC)

func visitorUpdate() *models.CacheUpdate {
	return &models.CacheUpdate{
		WebsiteID: "site-1",
		Type:      TypeVisitors,
		Data: models.DimensionData{
			Page:        "/pricing",
			Referrer:    "https://www.google.com/search",
			CountryCode: "DE",
			Region:      "Bavaria",
			City:        "Munich",
			Browser:     "Chrome",
			OS:          "macOS",
			Device:      "desktop",
		},
	}
}

func TestApplyToMainCreatesAndIncrements(t *testing.T) {
	rec := &models.MainCacheRecord{Duration: "24h"}
	update := visitorUpdate()

	applyToMain(rec, "24h", update, testNow)
	applyToMain(rec, "24h", update, testNow)

	if len(rec.Dataset) != 1 {
		t.Fatalf("want one bucket, got %d", len(rec.Dataset))
	}
	b := rec.Dataset[0]
	if b.Name != "2026-03-07-09" {
		t.Fatalf("want hour bucket 2026-03-07-09, got %s", b.Name)
	}
	if b.Visitors != 2 {
		t.Fatalf("want 2 visitors, got %d", b.Visitors)
	}
	if b.Revenue != 0 {
		t.Fatalf("visitor update must not touch revenue, got %v", b.Revenue)
	}
}

func TestApplyToMainDayGrained(t *testing.T) {
	rec := &models.MainCacheRecord{Duration: "7d"}
	applyToMain(rec, "7d", visitorUpdate(), testNow)

	if len(rec.Dataset) != 1 || rec.Dataset[0].Name != "2026-03-07" {
		t.Fatalf("want day bucket 2026-03-07, got %+v", rec.Dataset)
	}
}

func TestApplyToMainRevenue(t *testing.T) {
	rec := &models.MainCacheRecord{Duration: "24h"}
	update := &models.CacheUpdate{WebsiteID: "site-1", Type: TypeRevenues, Revenue: 49}

	applyToMain(rec, "24h", update, testNow)
	applyToMain(rec, "24h", update, testNow)

	b := rec.Dataset[0]
	if b.Revenue != 98 {
		t.Fatalf("want revenue 98, got %v", b.Revenue)
	}
	if b.Visitors != 0 {
		t.Fatalf("revenue update must not touch visitors, got %d", b.Visitors)
	}
}

func TestApplyToMainIgnoresNonPositiveRevenue(t *testing.T) {
	rec := &models.MainCacheRecord{Duration: "24h"}
	applyToMain(rec, "24h", &models.CacheUpdate{Type: TypeRevenues, Revenue: -5}, testNow)

	if rec.Dataset[0].Revenue != 0 {
		t.Fatalf("want revenue 0, got %v", rec.Dataset[0].Revenue)
	}
}

func TestApplyToOthersUpsert(t *testing.T) {
	rec := &models.OthersCacheRecord{Duration: "24h"}
	update := visitorUpdate()

	applyToOthers(rec, update)
	applyToOthers(rec, update)

	if len(rec.Dataset.PageData) != 1 {
		t.Fatalf("want one page record, got %d", len(rec.Dataset.PageData))
	}
	page := rec.Dataset.PageData[0]
	if page.Label != "/pricing" || page.Visitors != 2 {
		t.Fatalf("unexpected page record: %+v", page)
	}

	ref := rec.Dataset.ReferrerData[0]
	if ref.Label != "google.com" {
		t.Fatalf("want referrer reduced to hostname, got %s", ref.Label)
	}

	country := rec.Dataset.CountryData[0]
	if country.Icon != "https://flagcdn.com/24x18/de.png" {
		t.Fatalf("unexpected country icon: %s", country.Icon)
	}

	other := visitorUpdate()
	other.Data.Page = "/docs"
	applyToOthers(rec, other)

	if len(rec.Dataset.PageData) != 2 {
		t.Fatalf("want two page records, got %d", len(rec.Dataset.PageData))
	}
	if rec.Dataset.PageData[1].Label != "/docs" || rec.Dataset.PageData[1].Visitors != 1 {
		t.Fatalf("fresh page record wrong: %+v", rec.Dataset.PageData[1])
	}
}

func TestApplyToOthersSkipsEmptyLabels(t *testing.T) {
	rec := &models.OthersCacheRecord{Duration: "24h"}
	update := visitorUpdate()
	update.Data.CountryCode = ""
	update.Data.Region = ""
	update.Data.City = ""

	applyToOthers(rec, update)

	if len(rec.Dataset.CountryData) != 0 || len(rec.Dataset.RegionData) != 0 || len(rec.Dataset.CityData) != 0 {
		t.Fatalf("empty geo labels must not create records: %+v", rec.Dataset)
	}
	if len(rec.Dataset.PageData) != 1 {
		t.Fatalf("page record should still be created")
	}
}

func TestApplyToGoals(t *testing.T) {
	rec := &models.GoalsCacheRecord{}

	applyToGoals(rec, "signup")
	applyToGoals(rec, "signup")
	applyToGoals(rec, "checkout")

	if len(rec.Dataset) != 2 {
		t.Fatalf("want two goals, got %d", len(rec.Dataset))
	}
	if rec.Dataset[0].Name != "signup" || rec.Dataset[0].Count != 2 {
		t.Fatalf("unexpected goal bucket: %+v", rec.Dataset[0])
	}
	if rec.Dataset[1].Name != "checkout" || rec.Dataset[1].Count != 1 {
		t.Fatalf("unexpected goal bucket: %+v", rec.Dataset[1])
	}
}

func TestParseMainRecordRejectsNonArrayDataset(t *testing.T) {
	_, err := ParseMainRecord([]byte(`{"duration":"24h","dataset":{"oops":true}}`))
	if !errors.Is(err, errNotArray) {
		t.Fatalf("want errNotArray, got %v", err)
	}
}

func TestParseMainRecordRoundTrip(t *testing.T) {
	raw := []byte(`{"duration":"24h","dataset":[{"name":"2026-03-07-09","visitors":3,"revenue":49}],"computedAt":"2026-03-07T09:00:00Z"}`)
	rec, err := ParseMainRecord(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Duration != "24h" || len(rec.Dataset) != 1 || rec.Dataset[0].Visitors != 3 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestParseMainRecordRejectsGarbage(t *testing.T) {
	_, err := ParseMainRecord([]byte(`not json`))
	if err == nil {
		t.Fatal("want error for garbage input")
	}
	if errors.Is(err, errNotArray) {
		t.Fatal("garbage must not be classified as a shape mismatch")
	}
}

func TestParseOthersRecordRejectsArrayDataset(t *testing.T) {
	if _, err := ParseOthersRecord([]byte(`{"duration":"24h","dataset":[]}`)); err == nil {
		t.Fatal("want error for array-shaped others dataset")
	}
}

func TestParseGoalsRecordRoundTrip(t *testing.T) {
	rec, err := ParseGoalsRecord([]byte(`{"dataset":[{"name":"signup","count":7}],"computedAt":"2026-03-07T09:00:00Z"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Dataset) != 1 || rec.Dataset[0].Count != 7 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDurationFromKey(t *testing.T) {
	if got := durationFromKey("site-1:main:24h"); got != "24h" {
		t.Fatalf("want 24h, got %s", got)
	}
	if got := durationFromKey(OthersKey("site-1", "30d")); got != "30d" {
		t.Fatalf("want 30d, got %s", got)
	}
}

func TestDisabledManagerNoOps(t *testing.T) {
	m := &Manager{}
	if m.Enabled() {
		t.Fatal("zero manager must report disabled")
	}
	err := m.UpdateCache(context.Background(), &models.CacheUpdate{WebsiteID: "site-1", Type: TypeVisitors})
	if err != nil {
		t.Fatalf("disabled manager must no-op, got %v", err)
	}
}
