// Package imports loads deals in bulk from JSON and CSV files.
package imports

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"deal_finder_backend/internal/deals/domain"
	"deal_finder_backend/internal/deals/repository"
	"deal_finder_backend/platform/logger"

	"github.com/google/uuid"
)

// Defaults applied to records that omit optional descriptive fields.
const (
	defaultSource       = "manual"
	defaultCategory     = domain.CategoryResidential
	defaultPropertyType = "house"
	defaultCrimeRate    = "medium"
	defaultFloodZone    = "X"
	defaultSewage       = "municipal"
)

// DealCreator persists one imported deal.
type DealCreator interface {
	CreateDeal(ctx context.Context, params repository.CreateDealParams) (uuid.UUID, error)
}

// Record is one raw deal row from an import file.
type Record struct {
	Title  string   `json:"title"`
	Price  float64  `json:"price"`
	URL    *string  `json:"url"`
	Source string   `json:"source"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`

	City   string  `json:"city"`
	State  string  `json:"state"`
	County *string `json:"county"`

	PropertyCategory string   `json:"property_category"`
	PropertyType     string   `json:"property_type"`
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *float64 `json:"bathrooms"`
	SquareFeet       *int     `json:"square_feet"`
	LotSize          *float64 `json:"lot_size"`

	HasPool     bool `json:"has_pool"`
	HasGym      bool `json:"has_gym"`
	PetFriendly bool `json:"pet_friendly"`

	CrimeRate    string   `json:"crime_rate"`
	FloodZone    string   `json:"flood_zone"`
	SchoolRating *float64 `json:"school_rating"`
	SewageSystem string   `json:"sewage_system"`
	OnMarket     *bool    `json:"on_market"`
}

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int
}

type Service struct {
	store DealCreator
	log   *logger.Logger
}

func New(store DealCreator, log *logger.Logger) *Service {
	return &Service{store: store, log: log.WithJob("import")}
}

// ImportFile loads deals from the file at path, dispatching on extension.
func (s *Service) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return s.ImportJSON(ctx, f)
	case ".csv":
		return s.ImportCSV(ctx, f)
	default:
		return Result{}, fmt.Errorf("unsupported import format %q", filepath.Ext(path))
	}
}

// ImportJSON reads either a single deal object or an array of deals.
// Invalid records are skipped and counted; a malformed document fails the run.
func (s *Service) ImportJSON(ctx context.Context, r io.Reader) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read import payload: %w", err)
	}

	var records []Record
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &records); err != nil {
			return Result{}, fmt.Errorf("parse deal array: %w", err)
		}
	} else {
		var one Record
		if err := json.Unmarshal(raw, &one); err != nil {
			return Result{}, fmt.Errorf("parse deal object: %w", err)
		}
		records = []Record{one}
	}

	return s.importRecords(ctx, records)
}

// ImportCSV reads a header-keyed CSV file of deals.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("read csv row: %w", err)
		}
		records = append(records, recordFromRow(cols, row))
	}

	return s.importRecords(ctx, records)
}

func (s *Service) importRecords(ctx context.Context, records []Record) (Result, error) {
	var result Result
	for i, rec := range records {
		params, err := rec.toParams()
		if err != nil {
			s.log.Warn("skipping invalid record", "index", i, "error", err)
			result.Skipped++
			continue
		}

		if _, err := s.store.CreateDeal(ctx, params); err != nil {
			return result, fmt.Errorf("record %d: %w", i, err)
		}
		result.Imported++
	}

	s.log.JobEvent("import", "completed", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// toParams validates required fields and applies defaults.
func (r Record) toParams() (repository.CreateDealParams, error) {
	switch {
	case strings.TrimSpace(r.Title) == "":
		return repository.CreateDealParams{}, fmt.Errorf("title is required")
	case r.Price <= 0:
		return repository.CreateDealParams{}, fmt.Errorf("price must be positive")
	case r.Lat == nil || r.Lng == nil:
		return repository.CreateDealParams{}, fmt.Errorf("lat and lng are required")
	case strings.TrimSpace(r.City) == "" || strings.TrimSpace(r.State) == "":
		return repository.CreateDealParams{}, fmt.Errorf("city and state are required")
	}

	category := orDefault(r.PropertyCategory, defaultCategory)
	switch category {
	case domain.CategoryResidential, domain.CategoryCommercial, domain.CategoryLand:
	default:
		return repository.CreateDealParams{}, fmt.Errorf("unknown property category %q", r.PropertyCategory)
	}

	onMarket := true
	if r.OnMarket != nil {
		onMarket = *r.OnMarket
	}

	crimeRate := orDefault(r.CrimeRate, defaultCrimeRate)
	floodZone := orDefault(r.FloodZone, defaultFloodZone)
	sewage := orDefault(r.SewageSystem, defaultSewage)

	return repository.CreateDealParams{
		Title:  strings.TrimSpace(r.Title),
		Price:  r.Price,
		URL:    r.URL,
		Source: orDefault(r.Source, defaultSource),
		Lat:    *r.Lat,
		Lng:    *r.Lng,

		City:   strings.TrimSpace(r.City),
		State:  strings.TrimSpace(r.State),
		County: r.County,

		PropertyCategory: category,
		PropertyType:     orDefault(r.PropertyType, defaultPropertyType),
		Bedrooms:         r.Bedrooms,
		Bathrooms:        r.Bathrooms,
		SquareFeet:       r.SquareFeet,
		LotSize:          r.LotSize,

		HasPool:     r.HasPool,
		HasGym:      r.HasGym,
		PetFriendly: r.PetFriendly,

		CrimeRate:    &crimeRate,
		FloodZone:    &floodZone,
		SchoolRating: r.SchoolRating,
		SewageSystem: &sewage,
		OnMarket:     onMarket,
	}, nil
}

func recordFromRow(cols map[string]int, row []string) Record {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rec := Record{
		Title:            get("title"),
		Source:           get("source"),
		City:             get("city"),
		State:            get("state"),
		PropertyCategory: get("property_category"),
		PropertyType:     get("property_type"),
		CrimeRate:        get("crime_rate"),
		FloodZone:        get("flood_zone"),
		SewageSystem:     get("sewage_system"),
	}

	if v := get("url"); v != "" {
		rec.URL = &v
	}
	if v := get("county"); v != "" {
		rec.County = &v
	}
	if v, err := strconv.ParseFloat(get("price"), 64); err == nil {
		rec.Price = v
	}
	if v, err := strconv.ParseFloat(get("lat"), 64); err == nil {
		rec.Lat = &v
	}
	if v, err := strconv.ParseFloat(get("lng"), 64); err == nil {
		rec.Lng = &v
	}
	if v, err := strconv.Atoi(get("bedrooms")); err == nil {
		rec.Bedrooms = &v
	}
	if v, err := strconv.ParseFloat(get("bathrooms"), 64); err == nil {
		rec.Bathrooms = &v
	}
	if v, err := strconv.Atoi(get("square_feet")); err == nil {
		rec.SquareFeet = &v
	}
	if v, err := strconv.ParseFloat(get("lot_size"), 64); err == nil {
		rec.LotSize = &v
	}
	if v, err := strconv.ParseFloat(get("school_rating"), 64); err == nil {
		rec.SchoolRating = &v
	}
	if v, err := strconv.ParseBool(get("has_pool")); err == nil {
		rec.HasPool = v
	}
	if v, err := strconv.ParseBool(get("has_gym")); err == nil {
		rec.HasGym = v
	}
	if v, err := strconv.ParseBool(get("pet_friendly")); err == nil {
		rec.PetFriendly = v
	}
	if v, err := strconv.ParseBool(get("on_market")); err == nil {
		rec.OnMarket = &v
	}

	return rec
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
