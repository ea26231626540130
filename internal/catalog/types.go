package catalog

import "time"

// DefaultCategory is assigned to products whose platform record carries no
// product type.
const DefaultCategory = "General"

// RawProduct mirrors the nested connection shape returned by the commerce
// platform's GraphQL Admin API. It is normalized into Product before any
// analysis touches it.
type RawProduct struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Handle      string   `json:"handle"`
	ProductType string   `json:"productType"`
	Vendor      string   `json:"vendor"`
	Tags        []string `json:"tags"`
	Variants    struct {
		Edges []struct {
			Node RawVariant `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type RawVariant struct {
	ID                string `json:"id"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventoryQuantity"`
}

// RawOrder mirrors the platform's order connection shape.
type RawOrder struct {
	ID            string `json:"id"`
	CreatedAt     string `json:"createdAt"`
	TotalPriceSet struct {
		ShopMoney struct {
			Amount string `json:"amount"`
		} `json:"shopMoney"`
	} `json:"totalPriceSet"`
	LineItems struct {
		Edges []struct {
			Node RawLineItem `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

type RawLineItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Variant  struct {
		ID      string `json:"id"`
		Product struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"product"`
	} `json:"variant"`
}

// Product is the flat, engine-internal product record. IDs are bare strings
// with any platform URI prefix stripped.
type Product struct {
	ID       string
	Title    string
	Category string
	Vendor   string
	Tags     []string
	Price    float64
}

type LineItem struct {
	ProductID string
	Quantity  int
}

type Order struct {
	ID          string
	CreatedAt   time.Time
	TotalAmount float64
	LineItems   []LineItem
}
