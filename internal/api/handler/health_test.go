package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil)

	c, rec := newContext(http.MethodGet, "/health", "")
	if err := h.Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantCode   int
		wantStatus string
	}{
		{name: "all healthy", deps: map[string]Pinger{"mongodb": ok, "redis": ok}, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "redis down", deps: map[string]Pinger{"mongodb": ok, "redis": down}, wantCode: http.StatusServiceUnavailable, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.deps)

			c, rec := newContext(http.MethodGet, "/health/ready", "")
			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Fatalf("expected status %q, got %q", tt.wantStatus, resp.Status)
			}
			if len(resp.Dependencies) != len(tt.deps) {
				t.Fatalf("expected %d dependencies, got %d", len(tt.deps), len(resp.Dependencies))
			}
		})
	}
}
