package bundles

import (
	"fmt"
	"strings"
	"testing"

	"github.com/merchkit/bxgy-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Bundle{}); err != nil {
		t.Fatalf("failed to migrate bundles table: %v", err)
	}
	return conn
}

func mustCreateTestBundle(t *testing.T, db *gorm.DB, gid string) *models.Bundle {
	t.Helper()
	bundle := &models.Bundle{
		DiscountGid:  gid,
		Title:        "big1-31off",
		Heading:      "Buy One Get One",
		Description:  "31% off the second item",
		PercentOff:   31,
		BuyProductID: "111",
		BuyVariantID: "222",
		GetProductID: "333",
		GetVariantID: "444",
	}
	if err := db.Create(bundle).Error; err != nil {
		t.Fatalf("create bundle: %v", err)
	}
	return bundle
}
