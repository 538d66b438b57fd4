package bundles

import (
	"time"

	"github.com/merchkit/bxgy-backend/pkg/db/models"
)

// BundleDTO is the read model for a stored promotional bundle.
type BundleDTO struct {
	ID           uint      `json:"id"`
	DiscountGid  string    `json:"discountGid"`
	Title        string    `json:"title"`
	Heading      string    `json:"heading"`
	Description  string    `json:"description"`
	PercentOff   int       `json:"percentOff"`
	BuyProductID string    `json:"buyProductId"`
	BuyVariantID string    `json:"buyVariantId"`
	GetProductID string    `json:"getProductId"`
	GetVariantID string    `json:"getVariantId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewBundleDTO maps a bundle row to its read model.
func NewBundleDTO(bundle *models.Bundle) *BundleDTO {
	if bundle == nil {
		return nil
	}
	return &BundleDTO{
		ID:           bundle.ID,
		DiscountGid:  bundle.DiscountGid,
		Title:        bundle.Title,
		Heading:      bundle.Heading,
		Description:  bundle.Description,
		PercentOff:   bundle.PercentOff,
		BuyProductID: bundle.BuyProductID,
		BuyVariantID: bundle.BuyVariantID,
		GetProductID: bundle.GetProductID,
		GetVariantID: bundle.GetVariantID,
		CreatedAt:    bundle.CreatedAt,
		UpdatedAt:    bundle.UpdatedAt,
	}
}

// NewBundleDTOs maps a slice of bundle rows.
func NewBundleDTOs(rows []models.Bundle) []BundleDTO {
	out := make([]BundleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewBundleDTO(&rows[i]))
	}
	return out
}
