package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merchkit/bxgy-backend/pkg/config"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "development"}}
}

func TestHealthLive(t *testing.T) {
	handler := HealthLive(testConfig())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("X-Bxgy-Env") != "development" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-Bxgy-Env"))
	}
}

func TestHealthReadyAllHealthy(t *testing.T) {
	handler := HealthReady(testConfig(), nil, &stubPinger{}, &stubPinger{})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestHealthReadySkipsNilPingers(t *testing.T) {
	handler := HealthReady(testConfig(), nil, &stubPinger{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with redis unconfigured, got %d", resp.Code)
	}
}

func TestHealthReadyFailsWhenDBUnreachable(t *testing.T) {
	handler := HealthReady(testConfig(), nil, &stubPinger{err: errors.New("down")}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
