package shopify

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/merchkit/bxgy-backend/pkg/errors"
)

const discountAutomaticBxgyCreateMutation = `
mutation discountAutomaticBxgyCreate(
  $automaticBxgyDiscount: DiscountAutomaticBxgyInput!
) {
  discountAutomaticBxgyCreate(
    automaticBxgyDiscount: $automaticBxgyDiscount
  ) {
    automaticDiscountNode { id }
    userErrors { field message }
  }
}
`

const discountAutomaticDeleteMutation = `
mutation deleteBxgy($id: ID!) {
  discountAutomaticDelete(id: $id) {
    deletedAutomaticDiscountId
    userErrors { field message }
  }
}
`

// BxgyDiscountInput describes the automatic buy-X-get-Y promotion: buying one
// of the buy product triggers PercentOff percent off one of the get product.
type BxgyDiscountInput struct {
	Title        string
	PercentOff   int
	BuyProductID string
	GetProductID string
}

// ProductGid converts a numeric Admin REST product id into the GraphQL gid.
func ProductGid(productID string) string {
	return fmt.Sprintf("gid://shopify/Product/%s", productID)
}

// CreateBxgyDiscount submits the discountAutomaticBxgyCreate mutation and
// returns the opaque id of the created automatic discount node. Platform
// userErrors surface as a VALIDATION error; transport and top-level GraphQL
// errors surface as DEPENDENCY errors.
func (c *Client) CreateBxgyDiscount(ctx context.Context, in BxgyDiscountInput) (string, error) {
	percentage := decimal.NewFromInt(int64(in.PercentOff)).
		Div(decimal.NewFromInt(100)).
		InexactFloat64()

	variables := map[string]any{
		"automaticBxgyDiscount": map[string]any{
			"title":    in.Title,
			"startsAt": time.Now().UTC().Format(time.RFC3339),
			"customerBuys": map[string]any{
				"items": map[string]any{
					"products": map[string]any{"productsToAdd": ProductGid(in.BuyProductID)},
				},
				"value": map[string]any{"quantity": "1"},
			},
			"customerGets": map[string]any{
				"items": map[string]any{
					"products": map[string]any{"productsToAdd": ProductGid(in.GetProductID)},
				},
				"value": map[string]any{
					"discountOnQuantity": map[string]any{
						"quantity": "1",
						"effect":   map[string]any{"percentage": percentage},
					},
				},
			},
			"combinesWith": map[string]any{
				"orderDiscounts":    true,
				"productDiscounts":  true,
				"shippingDiscounts": true,
			},
		},
	}

	c.log(ctx, "create_bxgy_discount", map[string]any{
		"title":          in.Title,
		"percent_off":    in.PercentOff,
		"buy_product_id": in.BuyProductID,
		"get_product_id": in.GetProductID,
	})

	var resp struct {
		DiscountAutomaticBxgyCreate struct {
			AutomaticDiscountNode struct {
				ID string `json:"id"`
			} `json:"automaticDiscountNode"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"discountAutomaticBxgyCreate"`
	}
	if err := c.GraphQL(ctx, discountAutomaticBxgyCreateMutation, variables, &resp); err != nil {
		return "", err
	}

	result := resp.DiscountAutomaticBxgyCreate
	if len(result.UserErrors) > 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "shopify rejected bxgy discount").
			WithDetails(result.UserErrors)
	}
	if result.AutomaticDiscountNode.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "shopify returned no discount id")
	}
	return result.AutomaticDiscountNode.ID, nil
}

// DeleteAutomaticDiscount removes the automatic discount identified by gid.
func (c *Client) DeleteAutomaticDiscount(ctx context.Context, gid string) error {
	c.log(ctx, "delete_automatic_discount", map[string]any{"discount_gid": gid})

	var resp struct {
		DiscountAutomaticDelete struct {
			DeletedAutomaticDiscountID string      `json:"deletedAutomaticDiscountId"`
			UserErrors                 []UserError `json:"userErrors"`
		} `json:"discountAutomaticDelete"`
	}
	if err := c.GraphQL(ctx, discountAutomaticDeleteMutation, map[string]any{"id": gid}, &resp); err != nil {
		return err
	}

	if errs := resp.DiscountAutomaticDelete.UserErrors; len(errs) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shopify rejected discount deletion").
			WithDetails(errs)
	}
	return nil
}
