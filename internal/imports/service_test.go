package imports

import (
	"context"
	"strings"
	"testing"

	"deal_finder_backend/internal/deals/repository"
	"deal_finder_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeCreator struct {
	created []repository.CreateDealParams
}

func (f *fakeCreator) CreateDeal(_ context.Context, params repository.CreateDealParams) (uuid.UUID, error) {
	f.created = append(f.created, params)
	return uuid.New(), nil
}

func newService(creator *fakeCreator) *Service {
	return New(creator, logger.New("development"))
}

func TestImportJSONSingleObject(t *testing.T) {
	creator := &fakeCreator{}
	svc := newService(creator)

	payload := `{
		"title": "Cabin off 9th",
		"price": 180000,
		"lat": 33.74,
		"lng": -84.41,
		"city": "Atlanta",
		"state": "GA"
	}`

	result, err := svc.ImportJSON(context.Background(), strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 || result.Skipped != 0 {
		t.Fatalf("result = %+v, want one imported", result)
	}

	deal := creator.created[0]
	if deal.Source != "manual" {
		t.Errorf("source default = %q, want manual", deal.Source)
	}
	if deal.PropertyCategory != "residential" || deal.PropertyType != "house" {
		t.Errorf("category defaults = %q/%q", deal.PropertyCategory, deal.PropertyType)
	}
	if deal.CrimeRate == nil || *deal.CrimeRate != "medium" {
		t.Errorf("crime rate default = %v, want medium", deal.CrimeRate)
	}
	if deal.FloodZone == nil || *deal.FloodZone != "X" {
		t.Errorf("flood zone default = %v, want X", deal.FloodZone)
	}
	if deal.SewageSystem == nil || *deal.SewageSystem != "municipal" {
		t.Errorf("sewage default = %v, want municipal", deal.SewageSystem)
	}
	if !deal.OnMarket {
		t.Error("on_market should default true")
	}
}

func TestImportJSONArraySkipsInvalid(t *testing.T) {
	creator := &fakeCreator{}
	svc := newService(creator)

	payload := `[
		{"title": "valid", "price": 100000, "lat": 1, "lng": 2, "city": "Austin", "state": "TX"},
		{"title": "", "price": 100000, "lat": 1, "lng": 2, "city": "Austin", "state": "TX"},
		{"title": "no price", "lat": 1, "lng": 2, "city": "Austin", "state": "TX"},
		{"title": "no coords", "price": 100000, "city": "Austin", "state": "TX"}
	]`

	result, err := svc.ImportJSON(context.Background(), strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 {
		t.Errorf("imported = %d, want 1", result.Imported)
	}
	if result.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", result.Skipped)
	}
}

func TestImportJSONMalformedDocumentFails(t *testing.T) {
	svc := newService(&fakeCreator{})
	if _, err := svc.ImportJSON(context.Background(), strings.NewReader(`{"title": `)); err == nil {
		t.Fatal("malformed json must fail the run")
	}
}

func TestImportCSV(t *testing.T) {
	creator := &fakeCreator{}
	svc := newService(creator)

	payload := "title,price,lat,lng,city,state,bedrooms,has_pool,on_market\n" +
		"Lakeview ranch,350000,33.9,-84.2,Marietta,GA,4,true,false\n" +
		"missing price,,33.9,-84.2,Marietta,GA,,,\n"

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 || result.Skipped != 1 {
		t.Fatalf("result = %+v, want 1 imported 1 skipped", result)
	}

	deal := creator.created[0]
	if deal.Title != "Lakeview ranch" || deal.Price != 350000 {
		t.Errorf("parsed deal = %+v", deal)
	}
	if deal.Bedrooms == nil || *deal.Bedrooms != 4 {
		t.Errorf("bedrooms = %v, want 4", deal.Bedrooms)
	}
	if !deal.HasPool {
		t.Error("has_pool should parse true")
	}
	if deal.OnMarket {
		t.Error("on_market=false should be honored")
	}
}
