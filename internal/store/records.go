package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/aovlift/aovlift/internal/recommend"
)

type Member struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type BundleRecord struct {
	BundleID        string `db:"bundle_id" json:"bundle_id"`
	StoreID         string `db:"store_id" json:"store_id"`
	Name            string `db:"name" json:"name"`
	Description     string `db:"description" json:"description"`
	MainProductID   string `db:"main_product_id" json:"main_product_id"`
	MemberProducts  string `db:"member_products" json:"-"`
	DiscountPercent int    `db:"discount_percent" json:"discount_percent"`
	Priority        int    `db:"priority" json:"priority"`
	Source          string `db:"source" json:"source"`
	Rationale       string `db:"rationale" json:"rationale,omitempty"`
	IsActive        bool   `db:"is_active" json:"is_active"`
	CreatedAt       string `db:"created_at" json:"created_at"`
}

// Members decodes the serialized member list.
func (r BundleRecord) Members() []Member {
	var members []Member
	_ = json.Unmarshal([]byte(r.MemberProducts), &members)
	return members
}

type UpsellRecord struct {
	UpsellID         string `db:"upsell_id" json:"upsell_id"`
	StoreID          string `db:"store_id" json:"store_id"`
	Name             string `db:"name" json:"name"`
	TriggerProductID string `db:"trigger_product_id" json:"trigger_product_id"`
	UpsellProductID  string `db:"upsell_product_id" json:"upsell_product_id"`
	TriggerContext   string `db:"trigger_context" json:"trigger_context"`
	DiscountPercent  int    `db:"discount_percent" json:"discount_percent"`
	Priority         int    `db:"priority" json:"priority"`
	Source           string `db:"source" json:"source"`
	Rationale        string `db:"rationale" json:"rationale,omitempty"`
	IsActive         bool   `db:"is_active" json:"is_active"`
	CreatedAt        string `db:"created_at" json:"created_at"`
}

// CreateBundle inserts a fresh bundle record and returns its id.
func (s *Store) CreateBundle(ctx context.Context, storeID string, c recommend.BundleCandidate) (string, error) {
	members := make([]Member, 0, len(c.Members))
	for _, m := range c.Members {
		members = append(members, Member{ProductID: m.ProductID, Quantity: m.Quantity})
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bundles (bundle_id, store_id, name, description, main_product_id,
			member_products, discount_percent, priority, source, rationale, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		id, storeID, c.Name, c.Description, c.MainProductID,
		marshalMembers(members), c.DiscountPercent, c.Priority, string(c.Source), c.Rationale, now())
	if err != nil {
		return "", fmt.Errorf("insert bundle: %w", err)
	}
	return id, nil
}

// CreateUpsell inserts a fresh upsell record and returns its id.
func (s *Store) CreateUpsell(ctx context.Context, storeID string, c recommend.UpsellCandidate) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO upsells (upsell_id, store_id, name, trigger_product_id, upsell_product_id,
			trigger_context, discount_percent, priority, source, rationale, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		id, storeID, c.Name, c.TriggerProductID, c.UpsellProductID,
		string(c.Trigger), c.DiscountPercent, c.Priority, string(c.Source), c.Rationale, now())
	if err != nil {
		return "", fmt.Errorf("insert upsell: %w", err)
	}
	return id, nil
}

// ListBundles returns a shop's bundles, highest priority first.
func (s *Store) ListBundles(ctx context.Context, shopDomain string) ([]BundleRecord, error) {
	var records []BundleRecord
	err := s.db.SelectContext(ctx, &records, `
		SELECT b.* FROM bundles b
		JOIN stores s ON s.store_id = b.store_id
		WHERE s.shop_domain = ?
		ORDER BY b.priority DESC, b.created_at DESC`, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	return records, nil
}

// ListUpsells returns a shop's upsells, highest priority first.
func (s *Store) ListUpsells(ctx context.Context, shopDomain string) ([]UpsellRecord, error) {
	var records []UpsellRecord
	err := s.db.SelectContext(ctx, &records, `
		SELECT u.* FROM upsells u
		JOIN stores s ON s.store_id = u.store_id
		WHERE s.shop_domain = ?
		ORDER BY u.priority DESC, u.created_at DESC`, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("list upsells: %w", err)
	}
	return records, nil
}

func (s *Store) SetBundleActive(ctx context.Context, bundleID string, active bool) error {
	return s.setActive(ctx, `UPDATE bundles SET is_active = ? WHERE bundle_id = ?`, bundleID, active)
}

func (s *Store) SetUpsellActive(ctx context.Context, upsellID string, active bool) error {
	return s.setActive(ctx, `UPDATE upsells SET is_active = ? WHERE upsell_id = ?`, upsellID, active)
}

func (s *Store) setActive(ctx context.Context, query, id string, active bool) error {
	res, err := s.db.ExecContext(ctx, query, boolInt(active), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) DeleteBundle(ctx context.Context, bundleID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bundles WHERE bundle_id = ?`, bundleID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) DeleteUpsell(ctx context.Context, upsellID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM upsells WHERE upsell_id = ?`, upsellID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
