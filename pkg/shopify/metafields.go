package shopify

import (
	"context"
	"fmt"
)

// Metafield namespace/key under which the bundle snapshot lives on the buy
// product. The storefront theme reads this to render the promotion.
const (
	MetafieldNamespace = "bxgy"
	MetafieldKey       = "discounts"
	MetafieldTypeJSON  = "json"
)

// Metafield is the Admin REST representation of a product metafield.
type Metafield struct {
	ID        int64  `json:"id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// MetafieldInput is the payload for creating a product metafield.
type MetafieldInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// ListProductMetafields returns all metafields attached to the product.
func (c *Client) ListProductMetafields(ctx context.Context, productID string) ([]Metafield, error) {
	c.log(ctx, "list_product_metafields", map[string]any{"product_id": productID})

	var resp struct {
		Metafields []Metafield `json:"metafields"`
	}
	if err := c.get(ctx, fmt.Sprintf("/products/%s/metafields.json", productID), &resp); err != nil {
		return nil, err
	}
	return resp.Metafields, nil
}

// FindBundleMetafield scans the product's metafields for the bxgy/discounts
// entry. Absence is not an error; the bool reports whether it was found.
func (c *Client) FindBundleMetafield(ctx context.Context, productID string) (Metafield, bool, error) {
	metafields, err := c.ListProductMetafields(ctx, productID)
	if err != nil {
		return Metafield{}, false, err
	}
	for _, mf := range metafields {
		if mf.Namespace == MetafieldNamespace && mf.Key == MetafieldKey {
			return mf, true, nil
		}
	}
	return Metafield{}, false, nil
}

// CreateProductMetafield attaches a metafield to the product.
func (c *Client) CreateProductMetafield(ctx context.Context, productID string, in MetafieldInput) (*Metafield, error) {
	c.log(ctx, "create_product_metafield", map[string]any{
		"product_id": productID,
		"namespace":  in.Namespace,
		"key":        in.Key,
	})

	payload := map[string]any{"metafield": in}
	var resp struct {
		Metafield Metafield `json:"metafield"`
	}
	if err := c.post(ctx, fmt.Sprintf("/products/%s/metafields.json", productID), payload, &resp); err != nil {
		return nil, err
	}
	return &resp.Metafield, nil
}

// DeleteProductMetafield removes the metafield from the product.
func (c *Client) DeleteProductMetafield(ctx context.Context, productID string, metafieldID int64) error {
	c.log(ctx, "delete_product_metafield", map[string]any{
		"product_id":   productID,
		"metafield_id": metafieldID,
	})
	return c.delete(ctx, fmt.Sprintf("/products/%s/metafields/%d.json", productID, metafieldID))
}
