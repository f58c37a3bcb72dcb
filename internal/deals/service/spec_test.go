package service

import (
	"strings"
	"testing"

	"deal_finder_backend/internal/deals/transport"
	"deal_finder_backend/platform/apperr"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func TestParseFilterSpecDefaults(t *testing.T) {
	spec, err := ParseFilterSpec(transport.FilterRequest{})
	if err != nil {
		t.Fatalf("empty request should parse: %v", err)
	}
	if spec.Page != 1 {
		t.Errorf("default page = %d, want 1", spec.Page)
	}
	if spec.PageSize != 100 {
		t.Errorf("default page_size = %d, want 100", spec.PageSize)
	}
	if spec.MinScore != 0 {
		t.Errorf("default min_score = %v, want 0", spec.MinScore)
	}
}

func TestParseFilterSpecLimitFallback(t *testing.T) {
	// limit is the legacy page-size parameter; page_size wins when both are set.
	spec, err := ParseFilterSpec(transport.FilterRequest{Limit: intPtr(25)})
	if err != nil {
		t.Fatal(err)
	}
	if spec.PageSize != 25 {
		t.Errorf("page_size from limit = %d, want 25", spec.PageSize)
	}

	spec, err = ParseFilterSpec(transport.FilterRequest{Limit: intPtr(25), PageSize: intPtr(50)})
	if err != nil {
		t.Fatal(err)
	}
	if spec.PageSize != 50 {
		t.Errorf("page_size with both set = %d, want 50", spec.PageSize)
	}
}

func TestParseFilterSpecRejections(t *testing.T) {
	tests := []struct {
		name    string
		req     transport.FilterRequest
		wantMsg string
	}{
		{
			name:    "negative min price",
			req:     transport.FilterRequest{MinPrice: floatPtr(-1)},
			wantMsg: "min_price",
		},
		{
			name:    "min price above max price",
			req:     transport.FilterRequest{MinPrice: floatPtr(500000), MaxPrice: floatPtr(100000)},
			wantMsg: "min_price must not exceed max_price",
		},
		{
			name:    "min bedrooms above max bedrooms",
			req:     transport.FilterRequest{MinBedrooms: intPtr(4), MaxBedrooms: intPtr(2)},
			wantMsg: "min_bedrooms",
		},
		{
			name:    "min lot size above max lot size",
			req:     transport.FilterRequest{MinLotSize: floatPtr(2), MaxLotSize: floatPtr(1)},
			wantMsg: "min_lot_size",
		},
		{
			name:    "radius beyond cap",
			req:     transport.FilterRequest{Radius: floatPtr(250)},
			wantMsg: "radius",
		},
		{
			name:    "negative radius",
			req:     transport.FilterRequest{Radius: floatPtr(-5)},
			wantMsg: "radius",
		},
		{
			name:    "min score above one",
			req:     transport.FilterRequest{MinScore: floatPtr(1.5)},
			wantMsg: "min_score",
		},
		{
			name:    "zero limit",
			req:     transport.FilterRequest{Limit: intPtr(0)},
			wantMsg: "limit",
		},
		{
			name:    "limit beyond cap",
			req:     transport.FilterRequest{Limit: intPtr(5000)},
			wantMsg: "limit",
		},
		{
			name:    "page size beyond cap",
			req:     transport.FilterRequest{PageSize: intPtr(5000)},
			wantMsg: "page_size",
		},
		{
			name:    "unknown property category",
			req:     transport.FilterRequest{PropertyCategory: strPtr("castle")},
			wantMsg: "property_category",
		},
		{
			name:    "unknown market status",
			req:     transport.FilterRequest{MarketStatus: strPtr("pending")},
			wantMsg: "market_status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilterSpec(tt.req)
			if err == nil {
				t.Fatal("expected validation error, got none")
			}
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Errorf("kind = %v, want validation", apperr.GetKind(err))
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseFilterSpecEqualBoundsPass(t *testing.T) {
	// min == max is a valid single-value range, not an inversion.
	_, err := ParseFilterSpec(transport.FilterRequest{
		MinPrice:    floatPtr(250000),
		MaxPrice:    floatPtr(250000),
		MinBedrooms: intPtr(3),
		MaxBedrooms: intPtr(3),
	})
	if err != nil {
		t.Fatalf("equal bounds should pass: %v", err)
	}
}

func TestParseFilterSpecTrimsStrings(t *testing.T) {
	spec, err := ParseFilterSpec(transport.FilterRequest{
		City:  strPtr("  Atlanta "),
		State: strPtr(" GA"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if spec.City != "Atlanta" {
		t.Errorf("city = %q, want trimmed", spec.City)
	}
	if spec.State != "GA" {
		t.Errorf("state = %q, want trimmed", spec.State)
	}
}
