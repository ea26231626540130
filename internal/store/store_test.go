package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aovlift/aovlift/internal/recommend"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureStoreIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureStore(ctx, "demo.myshopify.com")
	if err != nil {
		t.Fatalf("ensure store: %v", err)
	}
	second, err := s.EnsureStore(ctx, "demo.myshopify.com")
	if err != nil {
		t.Fatalf("ensure store again: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable store id, got %q and %q", first, second)
	}

	other, err := s.EnsureStore(ctx, "other.myshopify.com")
	if err != nil {
		t.Fatalf("ensure other store: %v", err)
	}
	if other == first {
		t.Fatal("distinct shops must get distinct store ids")
	}
}

func TestBundleRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	storeID, _ := s.EnsureStore(ctx, "demo.myshopify.com")

	candidate := recommend.BundleCandidate{
		Name:          "Tee + Hoodie Bundle",
		Description:   "Recommended bundle based on purchase patterns",
		MainProductID: "1",
		Members: []recommend.BundleMember{
			{ProductID: "1", Quantity: 1},
			{ProductID: "2", Quantity: 1},
		},
		DiscountPercent: 10,
		Priority:        2,
		Source:          recommend.SourceHeuristic,
	}
	id, err := s.CreateBundle(ctx, storeID, candidate)
	if err != nil {
		t.Fatalf("create bundle: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	records, err := s.ListBundles(ctx, "demo.myshopify.com")
	if err != nil {
		t.Fatalf("list bundles: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(records))
	}
	rec := records[0]
	if rec.Name != candidate.Name || rec.Source != string(recommend.SourceHeuristic) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !rec.IsActive {
		t.Fatal("new records start active")
	}
	members := rec.Members()
	if len(members) != 2 || members[0].ProductID != "1" || members[1].ProductID != "2" {
		t.Fatalf("unexpected members %+v", members)
	}

	if err := s.SetBundleActive(ctx, id, false); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	records, _ = s.ListBundles(ctx, "demo.myshopify.com")
	if records[0].IsActive {
		t.Fatal("expected inactive after toggle")
	}

	if err := s.DeleteBundle(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	records, _ = s.ListBundles(ctx, "demo.myshopify.com")
	if len(records) != 0 {
		t.Fatalf("expected no bundles after delete, got %d", len(records))
	}
}

func TestUpsellRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	storeID, _ := s.EnsureStore(ctx, "demo.myshopify.com")

	id, err := s.CreateUpsell(ctx, storeID, recommend.UpsellCandidate{
		Name:             "Upgrade to Hoodie",
		TriggerProductID: "1",
		UpsellProductID:  "2",
		Trigger:          recommend.TriggerCart,
		DiscountPercent:  5,
		Priority:         125,
		Source:           recommend.SourceHeuristic,
	})
	if err != nil {
		t.Fatalf("create upsell: %v", err)
	}

	records, err := s.ListUpsells(ctx, "demo.myshopify.com")
	if err != nil {
		t.Fatalf("list upsells: %v", err)
	}
	if len(records) != 1 || records[0].UpsellID != id {
		t.Fatalf("unexpected records %+v", records)
	}
	if records[0].TriggerContext != "cart" || records[0].Priority != 125 {
		t.Fatalf("unexpected record %+v", records[0])
	}

	if err := s.SetUpsellActive(ctx, id, false); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := s.DeleteUpsell(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestListBundlesByPriority(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	storeID, _ := s.EnsureStore(ctx, "demo.myshopify.com")

	for _, priority := range []int{3, 9, 6} {
		if _, err := s.CreateBundle(ctx, storeID, recommend.BundleCandidate{
			Name:          "b",
			MainProductID: "1",
			Members:       []recommend.BundleMember{{ProductID: "1", Quantity: 1}},
			Priority:      priority,
			Source:        recommend.SourceHeuristic,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	records, _ := s.ListBundles(ctx, "demo.myshopify.com")
	if records[0].Priority != 9 || records[1].Priority != 6 || records[2].Priority != 3 {
		t.Fatalf("expected priority-descending order, got %+v", records)
	}
}

func TestToggleUnknownRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetBundleActive(ctx, "missing", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteUpsell(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyticsUpsertAndLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// No snapshot yet: zero-valued summary, no error.
	snap, err := s.LatestAnalytics(ctx, "demo.myshopify.com")
	if err != nil {
		t.Fatalf("latest analytics: %v", err)
	}
	if snap.TotalRevenue != 0 {
		t.Fatalf("expected zero summary, got %+v", snap)
	}

	if _, err := s.EnsureStore(ctx, "demo.myshopify.com"); err != nil {
		t.Fatalf("ensure store: %v", err)
	}
	if err := s.UpsertAnalytics(ctx, "demo.myshopify.com", AnalyticsSnapshot{
		Date:              "2026-08-27",
		TotalRevenue:      1000,
		BundleRevenue:     200,
		AverageOrderValue: 50,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Same day again: replaces, does not duplicate.
	if err := s.UpsertAnalytics(ctx, "demo.myshopify.com", AnalyticsSnapshot{
		Date:          "2026-08-27",
		TotalRevenue:  1100,
		BundleRevenue: 250,
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if err := s.UpsertAnalytics(ctx, "demo.myshopify.com", AnalyticsSnapshot{
		Date:         "2026-08-26",
		TotalRevenue: 900,
	}); err != nil {
		t.Fatalf("older upsert: %v", err)
	}

	snap, err = s.LatestAnalytics(ctx, "demo.myshopify.com")
	if err != nil {
		t.Fatalf("latest analytics: %v", err)
	}
	if snap.Date != "2026-08-27" || snap.TotalRevenue != 1100 || snap.BundleRevenue != 250 {
		t.Fatalf("expected newest replaced snapshot, got %+v", snap)
	}
}

func TestAnalyticsUnknownShopIgnored(t *testing.T) {
	s := openTestStore(t)
	if err := s.UpsertAnalytics(context.Background(), "ghost.myshopify.com", AnalyticsSnapshot{TotalRevenue: 1}); err != nil {
		t.Fatalf("unknown shop must be a no-op, got %v", err)
	}
}
