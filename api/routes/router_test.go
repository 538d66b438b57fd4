package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/merchkit/bxgy-backend/internal/bundles"
	"github.com/merchkit/bxgy-backend/internal/catalog"
	"github.com/merchkit/bxgy-backend/pkg/config"
	pkgerrors "github.com/merchkit/bxgy-backend/pkg/errors"
	"github.com/merchkit/bxgy-backend/pkg/logger"
)

type stubBundleService struct {
	deletedID uint
}

func (s *stubBundleService) Create(ctx context.Context, input bundles.CreateBundleInput) (*bundles.CreateBundleResult, error) {
	return &bundles.CreateBundleResult{BundleID: 1, DiscountGid: "gid://shopify/DiscountAutomaticNode/1"}, nil
}

func (s *stubBundleService) Delete(ctx context.Context, id uint) error {
	s.deletedID = id
	if id == 404 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "bundle not found")
	}
	return nil
}

func (s *stubBundleService) List(ctx context.Context) ([]bundles.BundleDTO, error) {
	return []bundles.BundleDTO{{ID: 1, Title: "big1-31off"}}, nil
}

type stubCatalogService struct{}

func (s *stubCatalogService) ListProducts(ctx context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{{ID: 111, Title: "Big One"}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *stubBundleService) {
	t.Helper()
	svc := &stubBundleService{}
	router := NewRouter(Params{
		Config:         &config.Config{App: config.AppConfig{Env: "development"}},
		Logger:         logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		BundleService:  svc,
		CatalogService: &stubCatalogService{},
	})
	return router, svc
}

func TestRouterWiresHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRouterDiscountLifecycleRoutes(t *testing.T) {
	router, svc := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/discounts", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}

	body := `{"title":"big1-31off","heading":"h","description":"d","percentOff":31,"buyProduct":{"value":111,"variantID":222},"getProduct":{"value":333,"variantID":444}}`
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/discounts", strings.NewReader(body)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create body: %v", err)
	}
	if created["discountGid"] == "" {
		t.Fatalf("expected discountGid, got %v", created)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/discounts/9", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.Code)
	}
	if svc.deletedID != 9 {
		t.Fatalf("expected url param parsed to 9, got %d", svc.deletedID)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/discounts/404", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("delete missing: expected 404, got %d", resp.Code)
	}
}

func TestRouterProductsRoute(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
