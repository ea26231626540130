package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Source is the commerce-platform data source the engine reads from. Both
// methods return the raw nested shape; callers normalize via NormalizeProducts
// and NormalizeOrders.
type Source interface {
	FetchProducts(ctx context.Context, limit int) ([]RawProduct, error)
	FetchOrders(ctx context.Context, limit int) ([]RawOrder, error)
}

const productsQuery = `query getProducts($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        handle
        productType
        vendor
        tags
        variants(first: 10) {
          edges { node { id price inventoryQuantity } }
        }
      }
    }
  }
}`

const ordersQuery = `query getOrders($first: Int!) {
  orders(first: $first) {
    edges {
      node {
        id
        createdAt
        totalPriceSet { shopMoney { amount } }
        lineItems(first: 10) {
          edges {
            node {
              id
              quantity
              variant { id product { id title } }
            }
          }
        }
      }
    }
  }
}`

// AdminClient implements Source against the platform's GraphQL Admin API.
type AdminClient struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	http        *http.Client
}

func NewAdminClient(shopDomain, accessToken string) *AdminClient {
	return &AdminClient{
		shopDomain:  strings.TrimSuffix(strings.TrimSpace(shopDomain), "/"),
		accessToken: accessToken,
		apiVersion:  "2024-10",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *AdminClient) FetchProducts(ctx context.Context, limit int) ([]RawProduct, error) {
	var data struct {
		Products struct {
			Edges []struct {
				Node RawProduct `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.query(ctx, productsQuery, limit, &data); err != nil {
		return nil, err
	}
	out := make([]RawProduct, 0, len(data.Products.Edges))
	for _, e := range data.Products.Edges {
		out = append(out, e.Node)
	}
	return out, nil
}

func (c *AdminClient) FetchOrders(ctx context.Context, limit int) ([]RawOrder, error) {
	var data struct {
		Orders struct {
			Edges []struct {
				Node RawOrder `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	if err := c.query(ctx, ordersQuery, limit, &data); err != nil {
		return nil, err
	}
	out := make([]RawOrder, 0, len(data.Orders.Edges))
	for _, e := range data.Orders.Edges {
		out = append(out, e.Node)
	}
	return out, nil
}

func (c *AdminClient) query(ctx context.Context, query string, first int, out any) error {
	body, _ := json.Marshal(map[string]any{
		"query":     query,
		"variables": map[string]any{"first": first},
	})
	url := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.shopDomain, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	blob, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("admin graphql failed status=%d body=%s", resp.StatusCode, clampBody(blob))
	}

	var env graphqlEnvelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return fmt.Errorf("decode admin graphql response: %w", err)
	}
	if len(env.Errors) > 0 {
		return fmt.Errorf("admin graphql error: %s", env.Errors[0].Message)
	}
	return json.Unmarshal(env.Data, out)
}

func clampBody(b []byte) string {
	s := string(b)
	if len(s) > 300 {
		return s[:300]
	}
	return s
}
