package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/merchkit/bxgy-backend/pkg/errors"
)

type bundleRequest struct {
	Title      string `json:"title" validate:"required,min=1"`
	PercentOff int    `json:"percentOff" validate:"required,gt=0"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"big1-31off","percentOff":31}`))
	var dest bundleRequest
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.PercentOff != 31 {
		t.Fatalf("expected percentOff 31, got %d", dest.PercentOff)
	}
}

func TestDecodeJSONBodyReportsAllFieldViolations(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"","percentOff":-5}`))
	var dest bundleRequest
	err := DecodeJSONBody(r, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details map, got %T", typed.Details())
	}
	if _, ok := details["title"]; !ok {
		t.Fatalf("expected title violation, got %v", details)
	}
	if _, ok := details["percentOff"]; !ok {
		t.Fatalf("expected percentOff violation, got %v", details)
	}
}

func TestDecodeJSONBodyKeysNestedViolationsByPath(t *testing.T) {
	type selection struct {
		Value     int64 `json:"value" validate:"required"`
		VariantID int64 `json:"variantID" validate:"required"`
	}
	type nestedRequest struct {
		Title string    `json:"title" validate:"required"`
		Buy   selection `json:"buyProduct"`
		Get   selection `json:"getProduct"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"x","buyProduct":{},"getProduct":{"value":3}}`))
	var dest nestedRequest
	err := DecodeJSONBody(r, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details map, got %T", typed.Details())
	}
	// sibling selections must not collapse into one leaf key
	for _, field := range []string{"buyProduct.value", "buyProduct.variantID", "getProduct.variantID"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("expected %s violation, got %v", field, details)
		}
	}
	if _, ok := details["getProduct.value"]; ok {
		t.Fatalf("getProduct.value was provided, got violation anyway: %v", details)
	}
	if _, ok := details["value"]; ok {
		t.Fatalf("leaf key must not appear, got %v", details)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":`))
	var dest bundleRequest
	err := DecodeJSONBody(r, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"x","percentOff":1,"bogus":true}`))
	var dest bundleRequest
	if err := DecodeJSONBody(r, &dest); err == nil {
		t.Fatal("expected error for unknown field")
	}
}
