package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/smallbiznis/telco360/internal/dashboard"
	ordersdomain "github.com/smallbiznis/telco360/internal/orders/domain"
	telcodomain "github.com/smallbiznis/telco360/internal/telco/domain"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"order id", ordersdomain.ErrInvalidOrderID, http.StatusBadRequest, "validation_error"},
		{"wrapped quantity", fmt.Errorf("form: %w", ordersdomain.ErrInvalidQuantity), http.StatusBadRequest, "validation_error"},
		{"request", invalidRequestError(), http.StatusBadRequest, "validation_error"},
		{"order missing", ordersdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"customer missing", telcodomain.ErrCustomerNotFound, http.StatusNotFound, "not_found"},
		{"unknown page", dashboard.ErrUnknownPage, http.StatusNotFound, "not_found"},
		{"record missing", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"duplicate", gorm.ErrDuplicatedKey, http.StatusConflict, "conflict"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{"dataset missing", fmt.Errorf("load: %w", telcodomain.ErrDatasetMissing), http.StatusServiceUnavailable, "service_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			if status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, status)
			}
			if payload.Type != tc.typ {
				t.Fatalf("expected type %q, got %q", tc.typ, payload.Type)
			}
		})
	}
}

func TestMapErrorValidationDetails(t *testing.T) {
	_, payload := mapError(ordersdomain.ErrInvalidUnitPrice)
	if len(payload.Errors) != 1 {
		t.Fatalf("expected one validation error, got %d", len(payload.Errors))
	}
	got := payload.Errors[0]
	if got.Field != "unit_price" || got.Code != "invalid_unit_price" {
		t.Fatalf("unexpected validation error: %+v", got)
	}
	if got.Message != "Unit price must be a number of at least 0." {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(ordersdomain.ErrInvalidLimit)
	if typ != "validation_error" || code != "invalid_limit" {
		t.Fatalf("unexpected classification %q/%q", typ, code)
	}

	typ, code = classifyErrorForLog(errors.New("boom"))
	if typ != "internal_error" || code != "boom" {
		t.Fatalf("unexpected classification %q/%q", typ, code)
	}
}

func TestTemplateHelpers(t *testing.T) {
	if got := barPercent(5, 20); got != "25.0%" {
		t.Fatalf("expected 25.0%%, got %s", got)
	}
	if got := barPercent(-1, 20); got != "0%" {
		t.Fatalf("expected 0%%, got %s", got)
	}
	if got := formatNumber(12); got != "12" {
		t.Fatalf("expected 12, got %s", got)
	}
	if got := formatNumber(0.456); got != "0.46" {
		t.Fatalf("expected 0.46, got %s", got)
	}
	if got := binsMax([]dashboard.Bin{{Count: 2}, {Count: 9}, {Count: 4}}); got != 9 {
		t.Fatalf("expected 9, got %v", got)
	}
}
