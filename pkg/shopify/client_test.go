package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merchkit/bxgy-backend/pkg/config"
	pkgerrors "github.com/merchkit/bxgy-backend/pkg/errors"
	"github.com/merchkit/bxgy-backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client, err := NewClient(config.ShopifyConfig{
		StoreDomain: "test-shop.myshopify.com",
		AccessToken: "shpat_test",
	}, logg, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(config.ShopifyConfig{AccessToken: "tok"}, nil); err == nil {
		t.Fatal("expected error for missing store domain")
	}
	if _, err := NewClient(config.ShopifyConfig{StoreDomain: "s.myshopify.com"}, nil); err == nil {
		t.Fatal("expected error for missing access token")
	}
}

func TestCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeUnauthorized},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusUnprocessableEntity, pkgerrors.CodeValidation},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
		{http.StatusBadGateway, pkgerrors.CodeDependency},
	}
	for _, tt := range tests {
		if got := codeForStatus(tt.status); got != tt.code {
			t.Fatalf("status %d expected %s got %s", tt.status, tt.code, got)
		}
	}
}

func TestCreateBxgyDiscountSendsExpectedMutation(t *testing.T) {
	var captured struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get(accessTokenHeader); got != "shpat_test" {
			t.Fatalf("missing access token header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"discountAutomaticBxgyCreate":{"automaticDiscountNode":{"id":"gid://shopify/DiscountAutomaticNode/123"},"userErrors":[]}}}`))
	}))

	gid, err := client.CreateBxgyDiscount(context.Background(), BxgyDiscountInput{
		Title:        "big1-31off",
		PercentOff:   31,
		BuyProductID: "111",
		GetProductID: "333",
	})
	if err != nil {
		t.Fatalf("CreateBxgyDiscount: %v", err)
	}
	if gid != "gid://shopify/DiscountAutomaticNode/123" {
		t.Fatalf("unexpected gid %q", gid)
	}

	discount, ok := captured.Variables["automaticBxgyDiscount"].(map[string]any)
	if !ok {
		t.Fatalf("missing automaticBxgyDiscount variable: %v", captured.Variables)
	}
	if discount["title"] != "big1-31off" {
		t.Fatalf("unexpected title %v", discount["title"])
	}

	buys := discount["customerBuys"].(map[string]any)
	if qty := buys["value"].(map[string]any)["quantity"]; qty != "1" {
		t.Fatalf("expected buy quantity \"1\", got %v", qty)
	}
	buyTarget := buys["items"].(map[string]any)["products"].(map[string]any)["productsToAdd"]
	if buyTarget != "gid://shopify/Product/111" {
		t.Fatalf("unexpected buy product gid %v", buyTarget)
	}

	gets := discount["customerGets"].(map[string]any)
	onQty := gets["value"].(map[string]any)["discountOnQuantity"].(map[string]any)
	if onQty["quantity"] != "1" {
		t.Fatalf("expected get quantity \"1\", got %v", onQty["quantity"])
	}
	if pct := onQty["effect"].(map[string]any)["percentage"]; pct != 0.31 {
		t.Fatalf("expected percentage 0.31, got %v", pct)
	}

	combines := discount["combinesWith"].(map[string]any)
	for _, key := range []string{"orderDiscounts", "productDiscounts", "shippingDiscounts"} {
		if combines[key] != true {
			t.Fatalf("expected combinesWith.%s true", key)
		}
	}
}

func TestCreateBxgyDiscountUserErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"discountAutomaticBxgyCreate":{"automaticDiscountNode":null,"userErrors":[{"field":["title"],"message":"Title has already been taken"}]}}}`))
	}))

	_, err := client.CreateBxgyDiscount(context.Background(), BxgyDiscountInput{Title: "dup", PercentOff: 10, BuyProductID: "1", GetProductID: "2"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for userErrors, got %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("expected userErrors carried in details")
	}
}

func TestGraphQLTopLevelErrorsAreDependencyErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"Throttled"}]}`))
	}))

	err := client.GraphQL(context.Background(), "query { shop { id } }", nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error for top-level errors, got %v", err)
	}
}

func TestGraphQLUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := client.GraphQL(context.Background(), "query { shop { id } }", nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestDeleteAutomaticDiscountUserErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"discountAutomaticDelete":{"deletedAutomaticDiscountId":null,"userErrors":[{"field":["id"],"message":"Discount not found"}]}}}`))
	}))

	err := client.DeleteAutomaticDiscount(context.Background(), "gid://shopify/DiscountAutomaticNode/404")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFindBundleMetafield(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/111/metafields.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"metafields":[{"id":9,"namespace":"other","key":"thing","type":"json","value":"{}"},{"id":10,"namespace":"bxgy","key":"discounts","type":"json","value":"{\"percentOff\":31}"}]}`))
	}))

	mf, found, err := client.FindBundleMetafield(context.Background(), "111")
	if err != nil {
		t.Fatalf("FindBundleMetafield: %v", err)
	}
	if !found || mf.ID != 10 {
		t.Fatalf("expected bxgy/discounts metafield id 10, got found=%v id=%d", found, mf.ID)
	}
}

func TestFindBundleMetafieldAbsentIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"metafields":[]}`))
	}))

	_, found, err := client.FindBundleMetafield(context.Background(), "111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected metafield to be absent")
	}
}

func TestListProducts(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != "id,title,handle,images,variants" {
			t.Fatalf("unexpected fields query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":111,"title":"Big One","handle":"big-one","images":[{"id":1,"position":1,"src":"https://cdn/img.png"}],"variants":[{"id":222,"product_id":111,"title":"Default","price":"10.00"}]}]}`))
	}))

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 || products[0].Variants[0].ID != 222 {
		t.Fatalf("unexpected products %+v", products)
	}
}
