package recommend

import (
	"encoding/json"
	"strings"

	"github.com/aovlift/aovlift/internal/catalog"
)

// The generative response is an untrusted, loosely-typed payload. These raw
// shapes exist only inside this file; everything downstream sees the strict
// candidate types.

type rawBundle struct {
	Name     string   `json:"name"`
	Products []string `json:"products"`
	Discount *int     `json:"discount"`
	Reason   string   `json:"reason"`
}

type rawUpsell struct {
	Name             string `json:"name"`
	TriggerProductID string `json:"triggerProductId"`
	UpsellProductID  string `json:"upsellProductId"`
	TriggerType      string `json:"triggerType"`
	Discount         *int   `json:"discount"`
	Reason           string `json:"reason"`
}

// ParseBundles validates the model's raw text into bundle candidates.
// Individually malformed entries are discarded; a response that parses to a
// non-empty list with no valid entry at all is a hard ValidationError, as is
// text that is not the expected JSON shape. An empty parsed list is a valid
// zero-candidate result.
func ParseBundles(raw string) ([]BundleCandidate, error) {
	var envelope struct {
		Bundles []rawBundle `json:"bundles"`
	}
	var list []rawBundle
	clean := stripCodeFences(raw)
	if err := json.Unmarshal([]byte(clean), &envelope); err == nil && envelope.Bundles != nil {
		list = envelope.Bundles
	} else if err := json.Unmarshal([]byte(clean), &list); err != nil {
		return nil, &ValidationError{Reason: "bundle response is not a JSON list", Err: err}
	}

	out := make([]BundleCandidate, 0, len(list))
	for i, rb := range list {
		members := bundleMembers(rb.Products)
		if strings.TrimSpace(rb.Name) == "" || len(members) == 0 {
			continue
		}
		discount := HeuristicBundleDiscount
		if rb.Discount != nil {
			discount = *rb.Discount
		}
		out = append(out, BundleCandidate{
			Name:            strings.TrimSpace(rb.Name),
			Description:     strings.TrimSpace(rb.Reason),
			MainProductID:   members[0].ProductID,
			Members:         members,
			DiscountPercent: clampInt(discount, MinBundleDiscount, MaxBundleDiscount),
			Priority:        100 - i,
			Source:          SourceGenerated,
			Rationale:       strings.TrimSpace(rb.Reason),
		})
	}
	if len(list) > 0 && len(out) == 0 {
		return nil, &ValidationError{Reason: "no bundle entry had the required fields"}
	}
	return out, nil
}

// ParseUpsells is the upsell counterpart of ParseBundles. Missing triggerType
// defaults to cart; unknown values are repaired to cart rather than dropped.
func ParseUpsells(raw string) ([]UpsellCandidate, error) {
	var envelope struct {
		Upsells []rawUpsell `json:"upsells"`
	}
	var list []rawUpsell
	clean := stripCodeFences(raw)
	if err := json.Unmarshal([]byte(clean), &envelope); err == nil && envelope.Upsells != nil {
		list = envelope.Upsells
	} else if err := json.Unmarshal([]byte(clean), &list); err != nil {
		return nil, &ValidationError{Reason: "upsell response is not a JSON list", Err: err}
	}

	out := make([]UpsellCandidate, 0, len(list))
	for i, ru := range list {
		trigger := catalog.NormalizeProductID(ru.TriggerProductID)
		upsell := catalog.NormalizeProductID(ru.UpsellProductID)
		if trigger == "" || upsell == "" || trigger == upsell {
			continue
		}
		context := TriggerContext(strings.TrimSpace(ru.TriggerType))
		if !validTrigger(context) {
			context = TriggerCart
		}
		discount := HeuristicUpsellDiscount
		if ru.Discount != nil {
			discount = *ru.Discount
		}
		name := strings.TrimSpace(ru.Name)
		if name == "" {
			name = "Upgrade offer"
		}
		out = append(out, UpsellCandidate{
			Name:             name,
			TriggerProductID: trigger,
			UpsellProductID:  upsell,
			Trigger:          context,
			DiscountPercent:  clampInt(discount, MinUpsellDiscount, MaxUpsellDiscount),
			Priority:         100 - i,
			Source:           SourceGenerated,
			Rationale:        strings.TrimSpace(ru.Reason),
		})
	}
	if len(list) > 0 && len(out) == 0 {
		return nil, &ValidationError{Reason: "no upsell entry had the required fields"}
	}
	return out, nil
}

func bundleMembers(ids []string) []BundleMember {
	var members []BundleMember
	present := map[string]struct{}{}
	for _, raw := range ids {
		id := catalog.NormalizeProductID(raw)
		if id == "" {
			continue
		}
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		members = append(members, BundleMember{ProductID: id, Quantity: 1})
	}
	return members
}
