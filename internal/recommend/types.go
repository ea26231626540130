package recommend

// SourceTag records which path produced a candidate. It is set once at
// construction and never changes afterward.
type SourceTag string

const (
	SourceGenerated SourceTag = "generated"
	SourceHeuristic SourceTag = "heuristic"
)

// TriggerContext is where an upsell offer is shown to the shopper.
type TriggerContext string

const (
	TriggerCart         TriggerContext = "cart"
	TriggerProductPage  TriggerContext = "product_page"
	TriggerPostPurchase TriggerContext = "post_purchase"
)

const (
	// MaxBundleCandidates and MaxUpsellCandidates cap each candidate list.
	// The same cap applies on the generative-context and fallback paths.
	MaxBundleCandidates = 10
	MaxUpsellCandidates = 20

	// MinPairFrequency is the co-purchase count below which a product pair
	// is treated as noise.
	MinPairFrequency = 2

	// Upgrade-path ratio bounds, inclusive. Below the floor the upgrade is
	// too marginal to offer; above the ceiling the price gap will not
	// convert.
	MinUpgradeRatio = 0.2
	MaxUpgradeRatio = 2.0

	// Fixed discounts on the heuristic path.
	HeuristicBundleDiscount = 10
	HeuristicUpsellDiscount = 5

	// Clamp ranges for discounts coming back from the generative model.
	MinBundleDiscount = 5
	MaxBundleDiscount = 15
	MinUpsellDiscount = 0
	MaxUpsellDiscount = 10
)

type BundleMember struct {
	ProductID string
	Quantity  int
}

// BundleCandidate is an in-memory recommendation produced by one generation
// run. Members contain no duplicate product IDs and always include
// MainProductID.
type BundleCandidate struct {
	Name            string
	Description     string
	MainProductID   string
	Members         []BundleMember
	DiscountPercent int
	Priority        int
	Source          SourceTag
	Rationale       string
}

// UpsellCandidate proposes upgrading from TriggerProductID to
// UpsellProductID; the two are always distinct.
type UpsellCandidate struct {
	Name             string
	TriggerProductID string
	UpsellProductID  string
	Trigger          TriggerContext
	DiscountPercent  int
	Priority         int
	Source           SourceTag
	Rationale        string
}

func validTrigger(t TriggerContext) bool {
	switch t {
	case TriggerCart, TriggerProductPage, TriggerPostPurchase:
		return true
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
