// Package report renders a shop's persisted recommendations as a
// merchant-facing markdown report, optionally printed to PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/aovlift/aovlift/internal/store"
)

// BuildOfferReport produces the markdown offer report for one shop.
func BuildOfferReport(shopDomain string, bundles []store.BundleRecord, upsells []store.UpsellRecord, analytics store.AnalyticsSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Offer Report\n\n")
	fmt.Fprintf(&b, "- Shop: %s\n", shopDomain)
	fmt.Fprintf(&b, "- Date: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Active bundles: %d of %d\n", countActiveBundles(bundles), len(bundles))
	fmt.Fprintf(&b, "- Active upsells: %d of %d\n\n", countActiveUpsells(upsells), len(upsells))

	buildAnalyticsSection(&b, analytics)
	buildBundleSection(&b, bundles)
	buildUpsellSection(&b, upsells)
	return b.String()
}

func buildAnalyticsSection(b *strings.Builder, a store.AnalyticsSnapshot) {
	fmt.Fprintf(b, "## Store Performance\n\n")
	if a.Date == "" {
		fmt.Fprintf(b, "No analytics snapshot recorded yet.\n\n")
		return
	}
	fmt.Fprintf(b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Total revenue | $%.2f |\n", a.TotalRevenue)
	fmt.Fprintf(b, "| Bundle revenue | $%.2f |\n", a.BundleRevenue)
	fmt.Fprintf(b, "| Upsell revenue | $%.2f |\n", a.UpsellRevenue)
	fmt.Fprintf(b, "| Average order value | $%.2f |\n", a.AverageOrderValue)
	if a.TotalRevenue > 0 {
		share := (a.BundleRevenue + a.UpsellRevenue) / a.TotalRevenue * 100
		fmt.Fprintf(b, "| Offer share of revenue | %.1f%% |\n", share)
	}
	fmt.Fprintf(b, "\n")
}

func buildBundleSection(b *strings.Builder, bundles []store.BundleRecord) {
	fmt.Fprintf(b, "## Bundles\n\n")
	if len(bundles) == 0 {
		fmt.Fprintf(b, "No bundle recommendations on record.\n\n")
		return
	}
	for _, rec := range bundles {
		fmt.Fprintf(b, "### %s\n\n", safe(rec.Name))
		fmt.Fprintf(b, "- Status: %s\n", activeLabel(rec.IsActive))
		fmt.Fprintf(b, "- Discount: %d%%\n", rec.DiscountPercent)
		fmt.Fprintf(b, "- Priority: %d\n", rec.Priority)
		fmt.Fprintf(b, "- Source: %s\n", rec.Source)
		var ids []string
		for _, m := range rec.Members() {
			ids = append(ids, fmt.Sprintf("%s x%d", m.ProductID, m.Quantity))
		}
		fmt.Fprintf(b, "- Products: %s\n", strings.Join(ids, ", "))
		if rec.Rationale != "" {
			fmt.Fprintf(b, "- Rationale: %s\n", safe(rec.Rationale))
		}
		fmt.Fprintf(b, "\n")
	}
}

func buildUpsellSection(b *strings.Builder, upsells []store.UpsellRecord) {
	fmt.Fprintf(b, "## Upsells\n\n")
	if len(upsells) == 0 {
		fmt.Fprintf(b, "No upsell recommendations on record.\n\n")
		return
	}
	fmt.Fprintf(b, "| Offer | Trigger | Upsell | Context | Discount | Priority | Status | Source |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|---|---|\n")
	for _, rec := range upsells {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %d%% | %d | %s | %s |\n",
			safe(rec.Name), rec.TriggerProductID, rec.UpsellProductID,
			rec.TriggerContext, rec.DiscountPercent, rec.Priority,
			activeLabel(rec.IsActive), rec.Source)
	}
	fmt.Fprintf(b, "\n")
}

func countActiveBundles(bundles []store.BundleRecord) int {
	n := 0
	for _, rec := range bundles {
		if rec.IsActive {
			n++
		}
	}
	return n
}

func countActiveUpsells(upsells []store.UpsellRecord) int {
	n := 0
	for _, rec := range upsells {
		if rec.IsActive {
			n++
		}
	}
	return n
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func safe(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", "\\|")
}
