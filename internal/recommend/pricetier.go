package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/aovlift/aovlift/internal/catalog"
)

// UpgradePath is an adjacent lower→higher price step inside one category
// whose price ratio falls inside the offer window.
type UpgradePath struct {
	Trigger catalog.Product
	Upsell  catalog.Product
	Ratio   float64
}

// UpgradePaths groups products by category, sorts each category ascending by
// price, and emits every adjacent pair whose relative price step is within
// [MinUpgradeRatio, MaxUpgradeRatio]. A zero-priced lower member has no
// defined ratio and is skipped. Categories are visited in first-encounter
// order of the input, so output is deterministic for a given catalog order.
func UpgradePaths(products []catalog.Product, limit int) []UpgradePath {
	grouped := map[string][]catalog.Product{}
	var categories []string
	for _, p := range products {
		if _, ok := grouped[p.Category]; !ok {
			categories = append(categories, p.Category)
		}
		grouped[p.Category] = append(grouped[p.Category], p)
	}

	var out []UpgradePath
	for _, cat := range categories {
		members := grouped[cat]
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Price < members[j].Price
		})
		for i := 0; i < len(members)-1; i++ {
			lower, higher := members[i], members[i+1]
			if lower.Price == 0 {
				continue
			}
			ratio := (higher.Price - lower.Price) / lower.Price
			if ratio < MinUpgradeRatio || ratio > MaxUpgradeRatio {
				continue
			}
			out = append(out, UpgradePath{Trigger: lower, Upsell: higher, Ratio: ratio})
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// HeuristicUpsells turns upgrade paths into upsell candidates. Priority is
// floor(ratio*100) so a bigger relative step ranks higher.
func HeuristicUpsells(products []catalog.Product) []UpsellCandidate {
	var out []UpsellCandidate
	for _, path := range UpgradePaths(products, MaxUpsellCandidates) {
		out = append(out, UpsellCandidate{
			Name:             fmt.Sprintf("Upgrade to %s", path.Upsell.Title),
			TriggerProductID: path.Trigger.ID,
			UpsellProductID:  path.Upsell.ID,
			Trigger:          TriggerCart,
			DiscountPercent:  HeuristicUpsellDiscount,
			Priority:         int(math.Floor(path.Ratio * 100)),
			Source:           SourceHeuristic,
		})
	}
	return out
}
