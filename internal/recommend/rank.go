package recommend

import (
	"sort"
	"strings"
)

// RankBundles drops duplicate bundles (same member set regardless of order)
// and re-numbers priorities. First occurrence wins; relative order is
// preserved.
func RankBundles(candidates []BundleCandidate) []BundleCandidate {
	out := dedupBy(candidates, func(c BundleCandidate) string {
		ids := make([]string, 0, len(c.Members))
		for _, m := range c.Members {
			ids = append(ids, m.ProductID)
		}
		sort.Strings(ids)
		return strings.Join(ids, "|")
	})
	rerank(out, func(c *BundleCandidate) *int { return &c.Priority })
	return out
}

// RankUpsells drops duplicate (trigger, upsell) pairs and re-numbers
// priorities.
func RankUpsells(candidates []UpsellCandidate) []UpsellCandidate {
	out := dedupBy(candidates, func(c UpsellCandidate) string {
		return c.TriggerProductID + "|" + c.UpsellProductID
	})
	rerank(out, func(c *UpsellCandidate) *int { return &c.Priority })
	return out
}

func dedupBy[T any](items []T, key func(T) string) []T {
	out := make([]T, 0, len(items))
	seen := map[string]struct{}{}
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// rerank rewrites priorities to a strictly descending sequence with no gaps,
// starting from the highest surviving value, so priority is a total order
// even after duplicates were dropped. Applying it twice is a no-op.
func rerank[T any](items []T, priority func(*T) *int) {
	if len(items) == 0 {
		return
	}
	top := *priority(&items[0])
	for i := range items {
		if p := *priority(&items[i]); p > top {
			top = p
		}
	}
	for i := range items {
		*priority(&items[i]) = top - i
	}
}
