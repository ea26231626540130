package catalog

import "testing"

func TestNormalizeProductIDStripsPlatformPrefix(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{in: "gid://shopify/Product/12345", want: "12345"},
		{in: "12345", want: "12345"},
		{in: "  12345  ", want: "12345"},
		{in: "gid://shopify/Order/99", want: "99"},
		{in: "", want: ""},
	} {
		if got := NormalizeProductID(tc.in); got != tc.want {
			t.Fatalf("NormalizeProductID(%q) got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeProductsDefaults(t *testing.T) {
	raw := []RawProduct{
		{ID: "gid://shopify/Product/1", Title: "Tee"},
	}
	products := NormalizeProducts(raw)
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.ID != "1" {
		t.Fatalf("expected bare id, got %q", p.ID)
	}
	if p.Category != DefaultCategory {
		t.Fatalf("expected default category, got %q", p.Category)
	}
	if p.Price != 0 {
		t.Fatalf("expected zero price without variants, got %v", p.Price)
	}
}

func TestNormalizeProductsTakesFirstVariantPrice(t *testing.T) {
	var rp RawProduct
	rp.ID = "1"
	rp.ProductType = "Apparel"
	rp.Variants.Edges = []struct {
		Node RawVariant `json:"node"`
	}{
		{Node: RawVariant{Price: "19.99"}},
		{Node: RawVariant{Price: "29.99"}},
	}
	products := NormalizeProducts([]RawProduct{rp})
	if products[0].Price != 19.99 {
		t.Fatalf("expected first variant price, got %v", products[0].Price)
	}
	if products[0].Category != "Apparel" {
		t.Fatalf("unexpected category %q", products[0].Category)
	}
}

func TestNormalizeProductsMalformedPriceDegradesToZero(t *testing.T) {
	var rp RawProduct
	rp.ID = "1"
	rp.Variants.Edges = []struct {
		Node RawVariant `json:"node"`
	}{
		{Node: RawVariant{Price: "not-a-number"}},
	}
	if got := NormalizeProducts([]RawProduct{rp})[0].Price; got != 0 {
		t.Fatalf("expected 0 for malformed price, got %v", got)
	}
}

func TestNormalizeOrders(t *testing.T) {
	var ro RawOrder
	ro.ID = "gid://shopify/Order/7"
	ro.CreatedAt = "2026-01-15T10:00:00Z"
	ro.TotalPriceSet.ShopMoney.Amount = "65.00"
	ro.LineItems.Edges = make([]struct {
		Node RawLineItem `json:"node"`
	}, 2)
	ro.LineItems.Edges[0].Node.Quantity = 2
	ro.LineItems.Edges[0].Node.Variant.Product.ID = "gid://shopify/Product/1"
	ro.LineItems.Edges[1].Node.Variant.Product.ID = "gid://shopify/Product/2"

	orders := NormalizeOrders([]RawOrder{ro})
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0]
	if o.TotalAmount != 65 {
		t.Fatalf("unexpected total %v", o.TotalAmount)
	}
	if len(o.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(o.LineItems))
	}
	if o.LineItems[0].ProductID != "1" || o.LineItems[0].Quantity != 2 {
		t.Fatalf("unexpected first line item %+v", o.LineItems[0])
	}
	// Missing quantity degrades to 1, never 0.
	if o.LineItems[1].Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", o.LineItems[1].Quantity)
	}
}

func TestNormalizeOrdersDropsUnresolvableLineItems(t *testing.T) {
	var ro RawOrder
	ro.LineItems.Edges = make([]struct {
		Node RawLineItem `json:"node"`
	}, 1)
	// no product id on the line item's variant
	orders := NormalizeOrders([]RawOrder{ro})
	if len(orders[0].LineItems) != 0 {
		t.Fatalf("expected line item without product to be dropped")
	}
}
