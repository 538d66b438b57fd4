package models

import "time"

// Bundle is the persisted record of one buy-X-get-Y promotion. It links the
// internal row id to the Shopify automatic discount (DiscountGid) plus the
// display copy mirrored into the buy product's metafield.
//
// A row exists iff the corresponding automatic discount exists on Shopify,
// except after a partial creation failure; the reconciler reports that drift.
type Bundle struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DiscountGid string `gorm:"column:discount_gid;not null" json:"discountGid"`
	Title       string `gorm:"column:title;not null" json:"title"`
	Heading     string `gorm:"column:heading;not null" json:"heading"`
	Description string `gorm:"column:description;not null" json:"description"`
	PercentOff  int    `gorm:"column:percent_off;not null" json:"percentOff"`

	// Shopify product/variant ids, stored as strings; existence is only
	// validated by whatever the platform rejects.
	BuyProductID string `gorm:"column:buy_product_id;not null" json:"buyProductId"`
	BuyVariantID string `gorm:"column:buy_variant_id;not null" json:"buyVariantId"`
	GetProductID string `gorm:"column:get_product_id;not null" json:"getProductId"`
	GetVariantID string `gorm:"column:get_variant_id;not null" json:"getVariantId"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName pins the table name used by the goose migrations.
func (Bundle) TableName() string {
	return "bundles"
}
