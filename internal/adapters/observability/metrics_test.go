package observability_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nomad_hotel/internal/adapters/observability"
	"nomad_hotel/internal/domain"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveWrite("hotel", "create", domain.NewValidationError("email", "bad"))
	observability.ObserveImport("created")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"nomad_http_requests_total",
		`nomad_write_ops_total{entity="hotel",op="create",outcome="invalid"}`,
		`nomad_import_hotels_total{result="created"}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output", want)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domain.NewValidationError("name", "x"), "invalid"},
		{fmt.Errorf("get: %w", domain.ErrNotFound), "not_found"},
		{&domain.ReferenceError{Entity: "country", ID: 1, Dependent: "cities"}, "protected"},
		{&domain.UniqueError{Field: "country_code", Value: "LK"}, "duplicate"},
		{io.ErrUnexpectedEOF, "error"},
	}
	for _, tc := range tests {
		if got := observability.Outcome(tc.err); got != tc.want {
			t.Errorf("Outcome(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}
