package catalog

import (
	"strconv"
	"strings"
	"time"
)

// NormalizeProductID strips platform URI prefixes such as
// "gid://shopify/Product/123" down to the bare identifier. Downstream code
// compares IDs by string equality, so every entry point into the engine
// funnels IDs through here.
func NormalizeProductID(id string) string {
	id = strings.TrimSpace(id)
	if !strings.Contains(id, "://") {
		return id
	}
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// NormalizeProducts flattens raw platform products into engine Products.
// Missing fields degrade to defaults: absent product type becomes
// DefaultCategory, absent or unparseable price becomes 0. It never fails.
func NormalizeProducts(raw []RawProduct) []Product {
	products := make([]Product, 0, len(raw))
	for _, rp := range raw {
		p := Product{
			ID:       NormalizeProductID(rp.ID),
			Title:    strings.TrimSpace(rp.Title),
			Category: strings.TrimSpace(rp.ProductType),
			Vendor:   strings.TrimSpace(rp.Vendor),
			Tags:     rp.Tags,
		}
		if p.Category == "" {
			p.Category = DefaultCategory
		}
		if len(rp.Variants.Edges) > 0 {
			p.Price = parsePrice(rp.Variants.Edges[0].Node.Price)
		}
		products = append(products, p)
	}
	return products
}

// NormalizeOrders flattens raw platform orders. Line items without a
// resolvable product are dropped; quantities below 1 are treated as 1.
func NormalizeOrders(raw []RawOrder) []Order {
	orders := make([]Order, 0, len(raw))
	for _, ro := range raw {
		o := Order{
			ID:          NormalizeProductID(ro.ID),
			TotalAmount: parsePrice(ro.TotalPriceSet.ShopMoney.Amount),
		}
		if t, err := time.Parse(time.RFC3339, ro.CreatedAt); err == nil {
			o.CreatedAt = t
		}
		for _, edge := range ro.LineItems.Edges {
			pid := NormalizeProductID(edge.Node.Variant.Product.ID)
			if pid == "" {
				continue
			}
			qty := edge.Node.Quantity
			if qty < 1 {
				qty = 1
			}
			o.LineItems = append(o.LineItems, LineItem{ProductID: pid, Quantity: qty})
		}
		orders = append(orders, o)
	}
	return orders
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
