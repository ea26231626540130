package recommend

import (
	"testing"

	"github.com/aovlift/aovlift/internal/catalog"
)

func orderOf(ids ...string) catalog.Order {
	o := catalog.Order{}
	for _, id := range ids {
		o.LineItems = append(o.LineItems, catalog.LineItem{ProductID: id, Quantity: 1})
	}
	return o
}

func TestPairKeySymmetry(t *testing.T) {
	if PairKey("a", "b") != PairKey("b", "a") {
		t.Fatal("pair key must be order-independent")
	}
	if PairKey("a", "b") != "a|b" {
		t.Fatalf("unexpected key %q", PairKey("a", "b"))
	}
}

func TestTopPairsOrderIndependent(t *testing.T) {
	forward := TopPairs([]catalog.Order{orderOf("A", "B"), orderOf("A", "B")}, 10)
	reversed := TopPairs([]catalog.Order{orderOf("B", "A"), orderOf("B", "A")}, 10)
	if len(forward) != 1 || len(reversed) != 1 {
		t.Fatalf("expected one pair each, got %d and %d", len(forward), len(reversed))
	}
	if forward[0] != reversed[0] {
		t.Fatalf("pair differs by line-item order: %+v vs %+v", forward[0], reversed[0])
	}
}

func TestTopPairsFrequencyThreshold(t *testing.T) {
	// (A,B) appears twice, (A,C) only once; the single-order pair is noise.
	orders := []catalog.Order{orderOf("A", "B"), orderOf("A", "B"), orderOf("A", "C")}
	pairs := TopPairs(orders, 10)
	if len(pairs) != 1 {
		t.Fatalf("expected single qualifying pair, got %+v", pairs)
	}
	if pairs[0].A != "A" || pairs[0].B != "B" || pairs[0].Frequency != 2 {
		t.Fatalf("unexpected pair %+v", pairs[0])
	}
}

func TestTopPairsStableTieBreak(t *testing.T) {
	// (A,B) and (C,D) both have frequency 2; (A,B) was encountered first.
	orders := []catalog.Order{
		orderOf("A", "B"),
		orderOf("C", "D"),
		orderOf("A", "B"),
		orderOf("C", "D"),
	}
	pairs := TopPairs(orders, 10)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].A != "A" || pairs[1].A != "C" {
		t.Fatalf("tie not broken by first encounter: %+v", pairs)
	}
}

func TestTopPairsIgnoresDuplicateLineItems(t *testing.T) {
	// The same product on two line items of one order is not a pair.
	orders := []catalog.Order{orderOf("A", "A"), orderOf("A", "A")}
	if pairs := TopPairs(orders, 10); len(pairs) != 0 {
		t.Fatalf("expected no self pairs, got %+v", pairs)
	}
}

func TestTopPairsCap(t *testing.T) {
	var orders []catalog.Order
	// 6 distinct pairs, each in two orders.
	ids := [][2]string{{"a", "b"}, {"c", "d"}, {"e", "f"}, {"g", "h"}, {"i", "j"}, {"k", "l"}}
	for _, pair := range ids {
		orders = append(orders, orderOf(pair[0], pair[1]), orderOf(pair[0], pair[1]))
	}
	if got := len(TopPairs(orders, 5)); got != 5 {
		t.Fatalf("expected cap of 5, got %d", got)
	}
}

func TestHeuristicBundles(t *testing.T) {
	products := []catalog.Product{
		{ID: "1", Title: "Tee", Category: "Apparel", Price: 20},
		{ID: "2", Title: "Hoodie", Category: "Apparel", Price: 45},
	}
	orders := []catalog.Order{orderOf("1", "2"), orderOf("1", "2")}

	bundles := HeuristicBundles(products, orders)
	if len(bundles) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(bundles))
	}
	b := bundles[0]
	if b.Name != "Tee + Hoodie Bundle" {
		t.Fatalf("unexpected name %q", b.Name)
	}
	if b.DiscountPercent != HeuristicBundleDiscount {
		t.Fatalf("expected fixed heuristic discount, got %d", b.DiscountPercent)
	}
	if b.Source != SourceHeuristic {
		t.Fatalf("expected heuristic source tag, got %q", b.Source)
	}
	if b.MainProductID != "1" || len(b.Members) != 2 {
		t.Fatalf("unexpected members %+v", b)
	}
	if b.Priority != 2 {
		t.Fatalf("priority should carry frequency, got %d", b.Priority)
	}
}

func TestHeuristicBundlesSkipsUnknownProducts(t *testing.T) {
	products := []catalog.Product{{ID: "1", Title: "Tee"}}
	orders := []catalog.Order{orderOf("1", "2"), orderOf("1", "2")}
	if bundles := HeuristicBundles(products, orders); len(bundles) != 0 {
		t.Fatalf("pair with uncataloged product must be dropped, got %+v", bundles)
	}
}
