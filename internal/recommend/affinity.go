package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aovlift/aovlift/internal/catalog"
)

// ProductPair is an unordered co-purchase pair. A holds the lexicographically
// smaller ID.
type ProductPair struct {
	A         string
	B         string
	Frequency int
}

// PairKey canonicalizes an unordered ID pair: the two IDs sorted
// lexicographically and joined, so (a,b) and (b,a) hit the same counter.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// TopPairs counts, per order, every unordered pair of distinct product IDs in
// the order's line items, then returns the up-to-limit most frequent pairs.
// Pairs seen in only one order are excluded as noise. Sorting is stable:
// frequency descending, ties broken by first encounter.
func TopPairs(orders []catalog.Order, limit int) []ProductPair {
	counts := map[string]int{}
	var seen []string

	for _, order := range orders {
		ids := distinctProductIDs(order)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				key := PairKey(ids[i], ids[j])
				if _, ok := counts[key]; !ok {
					seen = append(seen, key)
				}
				counts[key]++
			}
		}
	}

	pairs := make([]ProductPair, 0, len(seen))
	for _, key := range seen {
		if counts[key] < MinPairFrequency {
			continue
		}
		a, b, _ := strings.Cut(key, "|")
		pairs = append(pairs, ProductPair{A: a, B: b, Frequency: counts[key]})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Frequency > pairs[j].Frequency
	})
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func distinctProductIDs(order catalog.Order) []string {
	var ids []string
	present := map[string]struct{}{}
	for _, li := range order.LineItems {
		if li.ProductID == "" {
			continue
		}
		if _, ok := present[li.ProductID]; ok {
			continue
		}
		present[li.ProductID] = struct{}{}
		ids = append(ids, li.ProductID)
	}
	return ids
}

// HeuristicBundles turns the top co-purchase pairs into bundle candidates.
// Pairs referencing products missing from the catalog are dropped. Priority
// carries the raw co-purchase frequency; the ranker re-numbers it later.
func HeuristicBundles(products []catalog.Product, orders []catalog.Order) []BundleCandidate {
	byID := map[string]catalog.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}

	var out []BundleCandidate
	for _, pair := range TopPairs(orders, MaxBundleCandidates) {
		pa, okA := byID[pair.A]
		pb, okB := byID[pair.B]
		if !okA || !okB {
			continue
		}
		out = append(out, BundleCandidate{
			Name:          fmt.Sprintf("%s + %s Bundle", pa.Title, pb.Title),
			Description:   "Recommended bundle based on purchase patterns",
			MainProductID: pair.A,
			Members: []BundleMember{
				{ProductID: pair.A, Quantity: 1},
				{ProductID: pair.B, Quantity: 1},
			},
			DiscountPercent: HeuristicBundleDiscount,
			Priority:        pair.Frequency,
			Source:          SourceHeuristic,
		})
	}
	return out
}
