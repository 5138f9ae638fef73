package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/worldatlas/worldatlas-go/internal/countries"
	"github.com/worldatlas/worldatlas-go/internal/service"
)

// CountryService is the business logic behind the country routes.
type CountryService interface {
	List(ctx context.Context, region, nameFilter string) ([]countries.Country, error)
	ByRegion(ctx context.Context, region string) ([]countries.Country, error)
	SearchByName(ctx context.Context, name string) ([]countries.Country, error)
	ByCapital(ctx context.Context, capital string) ([]countries.Country, error)
	ByCodes(ctx context.Context, codes []string) ([]countries.Country, error)
	Detail(ctx context.Context, code string) (service.CountryDetail, error)
}

// CountryHandler handles HTTP requests for country data.
type CountryHandler struct {
	service CountryService
	devMode bool
}

// NewCountryHandler creates a new CountryHandler.
func NewCountryHandler(svc CountryService, devMode bool) *CountryHandler {
	return &CountryHandler{service: svc, devMode: devMode}
}

// HandleList handles GET /api/countries?region=&name= requests.
func (h *CountryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.respond(w, r)(h.service.List(r.Context(), q.Get("region"), q.Get("name")))
}

// HandleByRegion handles GET /api/countries/region/{region} requests.
func (h *CountryHandler) HandleByRegion(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.service.ByRegion(r.Context(), chi.URLParam(r, "region")))
}

// HandleByName handles GET /api/countries/name/{name} requests.
func (h *CountryHandler) HandleByName(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.service.SearchByName(r.Context(), chi.URLParam(r, "name")))
}

// HandleByCapital handles GET /api/countries/capital/{capital} requests.
func (h *CountryHandler) HandleByCapital(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.service.ByCapital(r.Context(), chi.URLParam(r, "capital")))
}

// HandleByCodes handles GET /api/countries/alpha?codes=A,B requests.
func (h *CountryHandler) HandleByCodes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("codes")
	if strings.TrimSpace(raw) == "" {
		WriteError(w, r, countries.ErrEmptyQuery, h.devMode)
		return
	}
	h.respond(w, r)(h.service.ByCodes(r.Context(), strings.Split(raw, ",")))
}

// HandleByCode handles GET /api/countries/alpha/{code} requests.
func (h *CountryHandler) HandleByCode(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Detail(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		WriteError(w, r, err, h.devMode)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *CountryHandler) respond(w http.ResponseWriter, r *http.Request) func([]countries.Country, error) {
	return func(list []countries.Country, err error) {
		if err != nil {
			WriteError(w, r, err, h.devMode)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
