package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"listing-insights/models"
	"listing-insights/services"
	"listing-insights/utils"
)

// Handler exposes the engine's queries over HTTP. It is a thin wrapper: all
// semantics live in the services package.
type Handler struct {
	engine *services.Engine
	logger *utils.Logger
}

// NewHandler creates a Handler over the given engine.
func NewHandler(engine *services.Engine, logger *utils.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Routes returns the API routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/api/listings", h.GetListings)
	r.Get("/api/listings/filters", h.GetFilterOptions)
	r.Get("/api/listings/map", h.GetMapPoints)
	r.Get("/api/analytics", h.GetSummary)
	r.Get("/healthz", h.Health)

	return r
}

type errResponse struct {
	Error string `json:"error"`
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusServiceUnavailable
	if errors.Is(err, services.ErrInvalidParam) {
		status = http.StatusBadRequest
	}
	if status >= 500 {
		h.logger.Error("[server] %s %s: %v", r.Method, r.URL.Path, err)
	}
	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: err.Error()})
}

// renderData writes an engine result. A stale result still serves as 200 but
// carries a Warning header so clients can tell the refresh failed behind it.
func (h *Handler) renderData(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		if !errors.Is(err, services.ErrStaleData) {
			h.renderError(w, r, err)
			return
		}
		w.Header().Set("Warning", `110 - "stale data: refresh failed"`)
	}
	render.JSON(w, r, v)
}

// GetListings handles GET /api/listings.
func (h *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q, "page", services.DefaultPage)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	pageSize, err := intParam(q, "pageSize", services.DefaultPageSize)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	sortBy := stringParam(q, "sortBy", services.DefaultSortBy)
	sortOrder := stringParam(q, "sortOrder", services.DefaultSortOrder)
	search := q.Get("search")

	filters, err := parseFilters(q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	result, err := h.engine.GetListings(r.Context(), page, pageSize, sortBy, sortOrder, search, filters)
	h.renderData(w, r, result, err)
}

// GetFilterOptions handles GET /api/listings/filters.
func (h *Handler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	options, err := h.engine.GetFilterOptions(r.Context(), filters)
	h.renderData(w, r, options, err)
}

// GetMapPoints handles GET /api/listings/map.
func (h *Handler) GetMapPoints(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	points, err := h.engine.GetMapPoints(r.Context(), filters)
	h.renderData(w, r, points, err)
}

// GetSummary handles GET /api/analytics.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.engine.GetSummary(r.Context())
	h.renderData(w, r, summary, err)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// parseFilters reads the filter dimensions from query parameters. List
// parameters are comma-separated; numeric bounds must parse or the query is
// rejected.
func parseFilters(q url.Values) (models.Filters, error) {
	filters := models.Filters{
		ZipCodes:        listParam(q, "zip"),
		RoomTypes:       listParam(q, "roomType"),
		PropertyTypes:   listParam(q, "propertyType"),
		HostIsSuperhost: q.Get("hostIsSuperhost") == "true",
		InstantBookable: q.Get("instantBookable") == "true",
	}

	bounds := []struct {
		name string
		dst  **float64
	}{
		{"minPrice", &filters.MinPrice},
		{"maxPrice", &filters.MaxPrice},
		{"minAccommodates", &filters.MinAccommodates},
		{"maxAccommodates", &filters.MaxAccommodates},
		{"minBedrooms", &filters.MinBedrooms},
		{"maxBedrooms", &filters.MaxBedrooms},
		{"minReviewScore", &filters.MinReviewScore},
		{"maxReviewScore", &filters.MaxReviewScore},
	}
	for _, b := range bounds {
		v, err := floatParam(q, b.name)
		if err != nil {
			return models.Filters{}, err
		}
		*b.dst = v
	}

	return filters, nil
}

func listParam(q url.Values, name string) []string {
	raw := q.Get(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stringParam(q url.Values, name, fallback string) string {
	if v := q.Get(name); v != "" {
		return v
	}
	return fallback
}

func intParam(q url.Values, name string, fallback int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.InvalidParamf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, services.InvalidParamf("%s must be numeric, got %q", name, raw)
	}
	return &v, nil
}
