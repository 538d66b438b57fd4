package shopify

import "context"

const productListPath = "/products.json?limit=250&fields=id,title,handle,images,variants"

// ProductVariant is the subset of the Admin REST variant payload the admin
// UI needs; at minimum the variant id must be present.
type ProductVariant struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
}

// ProductImage carries the image source used as the catalog thumbnail.
type ProductImage struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	Src      string `json:"src"`
}

// Product mirrors the Admin REST product fields requested by ListProducts.
type Product struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Handle   string           `json:"handle"`
	Images   []ProductImage   `json:"images"`
	Variants []ProductVariant `json:"variants"`
}

// ListProducts fetches the catalog (first 250 products) with variants and
// images included.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	c.log(ctx, "list_products", nil)

	var resp struct {
		Products []Product `json:"products"`
	}
	if err := c.get(ctx, productListPath, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}
