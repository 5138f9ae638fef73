package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/worldatlas/worldatlas-go/internal/countries"
)

// CountrySource is the upstream country catalogue.
type CountrySource interface {
	All(ctx context.Context) ([]countries.Country, error)
	ByRegion(ctx context.Context, region string) ([]countries.Country, error)
	SearchByName(ctx context.Context, name string) ([]countries.Country, error)
	ByCapital(ctx context.Context, capital string) ([]countries.Country, error)
	ByCode(ctx context.Context, code string) (countries.Country, error)
	ByCodes(ctx context.Context, codes []string) ([]countries.Country, error)
}

// CountryDetail is a full country record with its resolved neighbours.
type CountryDetail struct {
	countries.Country
	BorderCountries []countries.Country `json:"borderCountries"`
}

// CountryService handles country browsing.
type CountryService struct {
	source CountrySource
	logger *slog.Logger
}

// NewCountryService creates a new CountryService.
func NewCountryService(source CountrySource, logger *slog.Logger) *CountryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CountryService{source: source, logger: logger}
}

// List returns the countries of region (all regions when empty or "All")
// whose common name contains nameFilter, ignoring case.
func (s *CountryService) List(ctx context.Context, region, nameFilter string) ([]countries.Country, error) {
	var (
		list []countries.Country
		err  error
	)
	if region == "" || region == countries.AllRegions {
		list, err = s.source.All(ctx)
	} else {
		list, err = s.source.ByRegion(ctx, region)
	}
	if err != nil {
		return nil, err
	}
	return countries.FilterByName(list, nameFilter), nil
}

func (s *CountryService) ByRegion(ctx context.Context, region string) ([]countries.Country, error) {
	return s.source.ByRegion(ctx, region)
}

func (s *CountryService) SearchByName(ctx context.Context, name string) ([]countries.Country, error) {
	return s.source.SearchByName(ctx, name)
}

func (s *CountryService) ByCapital(ctx context.Context, capital string) ([]countries.Country, error) {
	return s.source.ByCapital(ctx, capital)
}

func (s *CountryService) ByCodes(ctx context.Context, codes []string) ([]countries.Country, error) {
	return s.source.ByCodes(ctx, codes)
}

// Detail returns the full record for code together with its border
// countries. A failed neighbour lookup is logged and leaves the list empty.
func (s *CountryService) Detail(ctx context.Context, code string) (CountryDetail, error) {
	country, err := s.source.ByCode(ctx, code)
	if err != nil {
		return CountryDetail{}, err
	}

	detail := CountryDetail{Country: country, BorderCountries: []countries.Country{}}
	if len(country.Borders) == 0 {
		return detail, nil
	}

	borders, err := s.source.ByCodes(ctx, country.Borders)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return CountryDetail{}, err
		}
		s.logger.WarnContext(ctx, "border lookup failed", "code", country.CCA3, "error", err)
		return detail, nil
	}
	detail.BorderCountries = borders
	return detail, nil
}
