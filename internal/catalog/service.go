package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/merchkit/bxgy-backend/pkg/shopify"
)

// ProductLister is the slice of the Admin API the catalog reads from.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]shopify.Product, error)
}

// Service exposes the live product catalog used by the bundle admin UI.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
}

// VariantDTO is a slim view of a product variant.
type VariantDTO struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
}

// ProductDTO is the shape the admin UI consumes when picking bundle sides.
type ProductDTO struct {
	ID        int64        `json:"id"`
	Gid       string       `json:"gid"`
	Title     string       `json:"title"`
	Handle    string       `json:"handle"`
	Image     *string      `json:"image"`
	VariantID int64        `json:"variantId"`
	Variants  []VariantDTO `json:"variants"`
}

type service struct {
	commerce ProductLister
}

// NewService constructs a catalog service instance.
func NewService(commerce ProductLister) (Service, error) {
	if commerce == nil {
		return nil, fmt.Errorf("commerce client required")
	}
	return &service{commerce: commerce}, nil
}

// ListProducts fetches live products and maps them to the admin UI shape.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.commerce.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dto := ProductDTO{
			ID:       p.ID,
			Gid:      shopify.ProductGid(strconv.FormatInt(p.ID, 10)),
			Title:    p.Title,
			Handle:   p.Handle,
			Variants: make([]VariantDTO, 0, len(p.Variants)),
		}
		if len(p.Images) > 0 {
			src := p.Images[0].Src
			dto.Image = &src
		}
		// first-variant convenience id for single-variant products
		if len(p.Variants) > 0 {
			dto.VariantID = p.Variants[0].ID
		}
		for _, v := range p.Variants {
			dto.Variants = append(dto.Variants, VariantDTO{ID: v.ID, Title: v.Title, Price: v.Price})
		}
		out = append(out, dto)
	}
	return out, nil
}
