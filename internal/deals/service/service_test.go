package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"deal_finder_backend/internal/deals/domain"
	"deal_finder_backend/internal/deals/repository"
	"deal_finder_backend/internal/deals/transport"
	"deal_finder_backend/platform/apperr"
	"deal_finder_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	deals      []domain.Deal
	lastFilter repository.LocationFilter
	err        error
}

func (f *fakeStore) EnrichedByLocation(_ context.Context, filter repository.LocationFilter) ([]domain.Deal, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.deals, nil
}

func (f *fakeStore) Stats(context.Context, time.Duration) (repository.Stats, error) {
	if f.err != nil {
		return repository.Stats{}, f.err
	}
	return repository.Stats{TotalDeals: len(f.deals)}, nil
}

func testDeal(title string, price float64) domain.Deal {
	return domain.Deal{
		ID:               uuid.New(),
		Title:            title,
		Price:            price,
		Source:           "manual",
		City:             "Atlanta",
		State:            "GA",
		PropertyCategory: domain.CategoryResidential,
		PropertyType:     "house",
	}
}

func newTestService(store RecordStore) *Service {
	return New(store, logger.New("development"))
}

func mustSpec(t *testing.T, req transport.FilterRequest) FilterSpec {
	t.Helper()
	spec, err := ParseFilterSpec(req)
	if err != nil {
		t.Fatalf("spec should parse: %v", err)
	}
	return spec
}

func TestQueryPriceBandWithPagination(t *testing.T) {
	store := &fakeStore{deals: []domain.Deal{
		testDeal("below band", 90000),
		testDeal("low", 150000),
		testDeal("mid", 300000),
		testDeal("high", 450000),
		testDeal("above band", 600000),
	}}
	svc := newTestService(store)

	spec := mustSpec(t, transport.FilterRequest{
		MinPrice: floatPtr(100000),
		MaxPrice: floatPtr(500000),
		Page:     intPtr(1),
		PageSize: intPtr(2),
	})

	result, err := svc.Query(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}

	if result.Total != 3 {
		t.Errorf("total = %d, want 3", result.Total)
	}
	if result.Count != 2 || len(result.Deals) != 2 {
		t.Errorf("count = %d (len %d), want 2", result.Count, len(result.Deals))
	}
	if !result.HasMore {
		t.Error("has_more should be true with a third matching deal unpaged")
	}
	if result.Deals[0].Title != "low" || result.Deals[1].Title != "mid" {
		t.Errorf("page order changed: got %q, %q", result.Deals[0].Title, result.Deals[1].Title)
	}
}

func TestQueryLastPageHasMoreFalse(t *testing.T) {
	store := &fakeStore{deals: []domain.Deal{
		testDeal("a", 100000),
		testDeal("b", 200000),
		testDeal("c", 300000),
	}}
	svc := newTestService(store)

	spec := mustSpec(t, transport.FilterRequest{Page: intPtr(2), PageSize: intPtr(2)})

	result, err := svc.Query(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 1 {
		t.Errorf("count = %d, want 1", result.Count)
	}
	if result.HasMore {
		t.Error("has_more should be false on the final page")
	}
}

func TestQueryPageBeyondResults(t *testing.T) {
	store := &fakeStore{deals: []domain.Deal{testDeal("only", 100000)}}
	svc := newTestService(store)

	spec := mustSpec(t, transport.FilterRequest{Page: intPtr(9)})

	result, err := svc.Query(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 0 || len(result.Deals) != 0 {
		t.Errorf("page past the end should be empty, got %d rows", result.Count)
	}
	if result.Total != 1 {
		t.Errorf("total = %d, want 1", result.Total)
	}
	if result.HasMore {
		t.Error("has_more should be false past the end")
	}
}

func TestQueryCountNeverExceedsPageSize(t *testing.T) {
	deals := make([]domain.Deal, 0, 40)
	for i := 0; i < 40; i++ {
		deals = append(deals, testDeal(fmt.Sprintf("deal-%d", i), 100000))
	}
	store := &fakeStore{deals: deals}
	svc := newTestService(store)

	for page := 1; page <= 5; page++ {
		spec := mustSpec(t, transport.FilterRequest{Page: intPtr(page), PageSize: intPtr(15)})
		result, err := svc.Query(context.Background(), spec)
		if err != nil {
			t.Fatal(err)
		}
		if result.Count > 15 {
			t.Errorf("page %d: count %d exceeds page size", page, result.Count)
		}
		if result.Total != 40 {
			t.Errorf("page %d: total = %d, want 40", page, result.Total)
		}
		if want := result.Total > page*15; result.HasMore != want {
			t.Errorf("page %d: has_more = %v, want %v", page, result.HasMore, want)
		}
	}
}

func TestQueryMissingBedroomsNotExcluded(t *testing.T) {
	withBeds := testDeal("with beds", 200000)
	withBeds.Bedrooms = intPtr(2)
	noBeds := testDeal("land parcel", 200000)

	store := &fakeStore{deals: []domain.Deal{withBeds, noBeds}}
	svc := newTestService(store)

	spec := mustSpec(t, transport.FilterRequest{MinBedrooms: intPtr(3)})

	result, err := svc.Query(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 1 {
		t.Fatalf("total = %d, want 1", result.Total)
	}
	if result.Deals[0].Title != "land parcel" {
		t.Errorf("deal without a bedroom count must pass the bound, got %q", result.Deals[0].Title)
	}
}

func TestQueryPropertyTypeExactMatch(t *testing.T) {
	house := testDeal("house", 200000)
	condo := testDeal("condo", 200000)
	condo.PropertyType = "condo"
	capitalized := testDeal("capitalized", 200000)
	capitalized.PropertyType = "House"

	store := &fakeStore{deals: []domain.Deal{house, condo, capitalized}}
	svc := newTestService(store)

	spec := mustSpec(t, transport.FilterRequest{PropertyType: strPtr("house")})
	result, err := svc.Query(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 1 || result.Deals[0].Title != "house" {
		t.Errorf("property_type match is exact like category, total = %d", result.Total)
	}
}

func TestQueryMarketStatusDefaultsOnMarket(t *testing.T) {
	implicit := testDeal("implicit", 200000)
	off := testDeal("off", 200000)
	offFlag := false
	off.OnMarket = &offFlag

	store := &fakeStore{deals: []domain.Deal{implicit, off}}
	svc := newTestService(store)

	spec := mustSpec(t, transport.FilterRequest{MarketStatus: strPtr(domain.MarketStatusOn)})
	result, err := svc.Query(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 1 || result.Deals[0].Title != "implicit" {
		t.Errorf("deal without a market flag should count as on market, total = %d", result.Total)
	}

	spec = mustSpec(t, transport.FilterRequest{MarketStatus: strPtr(domain.MarketStatusOff)})
	result, err = svc.Query(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 1 || result.Deals[0].Title != "off" {
		t.Errorf("off-market filter should only keep flagged deals, total = %d", result.Total)
	}
}

func TestQueryMinScoreTreatsUnmatchedAsZero(t *testing.T) {
	matched := testDeal("matched", 200000)
	matched.MatchScore = floatPtr(0.8)
	unmatched := testDeal("unmatched", 200000)

	store := &fakeStore{deals: []domain.Deal{matched, unmatched}}
	svc := newTestService(store)

	spec := mustSpec(t, transport.FilterRequest{MinScore: floatPtr(0.5)})
	result, err := svc.Query(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 1 || result.Deals[0].Title != "matched" {
		t.Errorf("unmatched deal should fail a positive min_score, total = %d", result.Total)
	}
}

func TestQueryRadiusConvertedToMeters(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	spec := mustSpec(t, transport.FilterRequest{
		Lat:    floatPtr(33.75),
		Lng:    floatPtr(-84.39),
		Radius: floatPtr(10),
	})
	if _, err := svc.Query(context.Background(), spec); err != nil {
		t.Fatal(err)
	}
	if store.lastFilter.RadiusMeters != 10000 {
		t.Errorf("radius meters = %v, want 10000", store.lastFilter.RadiusMeters)
	}

	// Without coordinates the radius must not reach storage.
	spec = mustSpec(t, transport.FilterRequest{Radius: floatPtr(10)})
	if _, err := svc.Query(context.Background(), spec); err != nil {
		t.Fatal(err)
	}
	if store.lastFilter.RadiusMeters != 0 {
		t.Errorf("radius without lat/lng should be dropped, got %v", store.lastFilter.RadiusMeters)
	}
}

func TestQueryStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := newTestService(store)

	spec := mustSpec(t, transport.FilterRequest{})
	result, err := svc.Query(context.Background(), spec)
	if err == nil {
		t.Fatal("store failure must surface as an error, not an empty result")
	}
	if result != nil {
		t.Error("result should be nil on failure")
	}
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Errorf("kind = %v, want internal", apperr.GetKind(err))
	}
}
