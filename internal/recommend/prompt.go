package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aovlift/aovlift/internal/catalog"
)

const bundleSchemaPrompt = `Required JSON schema:
{
  "bundles": [
    {
      "name": "string",
      "products": ["product id strings, 2-4 entries, first entry is the main product"],
      "discount": "integer percent, 5-15",
      "reason": "string, why this bundle works"
    }
  ]
}`

const upsellSchemaPrompt = `Required JSON schema:
{
  "upsells": [
    {
      "name": "string",
      "triggerProductId": "product id string",
      "upsellProductId": "product id string, must differ from triggerProductId",
      "triggerType": "cart | product_page | post_purchase",
      "discount": "integer percent, 0-10",
      "reason": "string, why this upsell converts"
    }
  ]
}`

type promptProduct struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Vendor   string   `json:"vendor,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Price    float64  `json:"price"`
}

type promptOrder struct {
	Total float64  `json:"total"`
	Items []string `json:"items"`
}

// BuildBundlePrompt embeds the catalog and per-order line items so the model
// can reason about co-purchase patterns. Top co-purchase pairs are included
// as a ranking signal.
func BuildBundlePrompt(products []catalog.Product, orders []catalog.Order) string {
	var b strings.Builder
	b.WriteString("Analyze this store's catalog and order history and propose product bundles that increase average order value.\n\n")
	writeCatalog(&b, products)

	b.WriteString("Order line items (product ids per order):\n")
	for _, o := range orders {
		var ids []string
		for _, li := range o.LineItems {
			ids = append(ids, li.ProductID)
		}
		fmt.Fprintf(&b, "- [%s]\n", strings.Join(ids, ", "))
	}
	b.WriteString("\nMost frequent co-purchase pairs (id|id frequency):\n")
	for _, pair := range TopPairs(orders, MaxBundleCandidates) {
		fmt.Fprintf(&b, "- %s|%s %d\n", pair.A, pair.B, pair.Frequency)
	}

	fmt.Fprintf(&b, "\nPropose 3-5 bundles, strongest first. Only use product ids from the catalog above.\n\n%s\n", bundleSchemaPrompt)
	return b.String()
}

// BuildUpsellPrompt embeds the catalog with prices plus order totals so the
// model can judge which upgrade steps are plausible.
func BuildUpsellPrompt(products []catalog.Product, orders []catalog.Order) string {
	var b strings.Builder
	b.WriteString("Analyze this store's catalog and order totals and propose upsell offers that move shoppers to higher-value products.\n\n")
	writeCatalog(&b, products)

	b.WriteString("Recent order totals:\n")
	summaries := make([]promptOrder, 0, len(orders))
	for _, o := range orders {
		var ids []string
		for _, li := range o.LineItems {
			ids = append(ids, li.ProductID)
		}
		summaries = append(summaries, promptOrder{Total: o.TotalAmount, Items: ids})
	}
	if blob, err := json.Marshal(summaries); err == nil {
		b.Write(blob)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nPropose up to 10 upsells, strongest first. Each must upgrade within a category; trigger and upsell product must differ.\n\n%s\n", upsellSchemaPrompt)
	return b.String()
}

func writeCatalog(b *strings.Builder, products []catalog.Product) {
	summaries := make([]promptProduct, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, promptProduct{
			ID:       p.ID,
			Title:    p.Title,
			Category: p.Category,
			Vendor:   p.Vendor,
			Tags:     p.Tags,
			Price:    p.Price,
		})
	}
	b.WriteString("Catalog:\n")
	if blob, err := json.Marshal(summaries); err == nil {
		b.Write(blob)
	}
	b.WriteString("\n\n")
}
