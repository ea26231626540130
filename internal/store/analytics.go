package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AnalyticsSnapshot is one per-store, per-day metrics row.
type AnalyticsSnapshot struct {
	StoreID           string  `db:"store_id" json:"-"`
	Date              string  `db:"date" json:"date"`
	TotalRevenue      float64 `db:"total_revenue" json:"total_revenue"`
	BundleRevenue     float64 `db:"bundle_revenue" json:"bundle_revenue"`
	UpsellRevenue     float64 `db:"upsell_revenue" json:"upsell_revenue"`
	AverageOrderValue float64 `db:"average_order_value" json:"average_order_value"`
	BundleAOV         float64 `db:"bundle_aov" json:"bundle_aov"`
	UpsellAOV         float64 `db:"upsell_aov" json:"upsell_aov"`
}

// UpsertAnalytics writes today's snapshot for a shop, replacing any earlier
// snapshot for the same day. Unknown shops are ignored.
func (s *Store) UpsertAnalytics(ctx context.Context, shopDomain string, snap AnalyticsSnapshot) error {
	var storeID string
	err := s.db.GetContext(ctx, &storeID, `SELECT store_id FROM stores WHERE shop_domain = ?`, shopDomain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup store: %w", err)
	}
	date := snap.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analytics (store_id, date, total_revenue, bundle_revenue, upsell_revenue,
			average_order_value, bundle_aov, upsell_aov)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (store_id, date) DO UPDATE SET
			total_revenue = excluded.total_revenue,
			bundle_revenue = excluded.bundle_revenue,
			upsell_revenue = excluded.upsell_revenue,
			average_order_value = excluded.average_order_value,
			bundle_aov = excluded.bundle_aov,
			upsell_aov = excluded.upsell_aov`,
		storeID, date, snap.TotalRevenue, snap.BundleRevenue, snap.UpsellRevenue,
		snap.AverageOrderValue, snap.BundleAOV, snap.UpsellAOV)
	if err != nil {
		return fmt.Errorf("upsert analytics: %w", err)
	}
	return nil
}

// LatestAnalytics returns the newest snapshot for a shop, or a zero-valued
// snapshot when none exists.
func (s *Store) LatestAnalytics(ctx context.Context, shopDomain string) (AnalyticsSnapshot, error) {
	var snap AnalyticsSnapshot
	err := s.db.GetContext(ctx, &snap, `
		SELECT a.* FROM analytics a
		JOIN stores s ON s.store_id = a.store_id
		WHERE s.shop_domain = ?
		ORDER BY a.date DESC
		LIMIT 1`, shopDomain)
	if errors.Is(err, sql.ErrNoRows) {
		return AnalyticsSnapshot{}, nil
	}
	if err != nil {
		return AnalyticsSnapshot{}, fmt.Errorf("latest analytics: %w", err)
	}
	return snap, nil
}
