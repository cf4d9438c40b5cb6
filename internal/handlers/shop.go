package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mainstream-shop/internal/catalog"
	"mainstream-shop/internal/models"
	"mainstream-shop/internal/services"
)

// ShopHandler serves the browsable catalog: events, categories, athletes
// and video types.
type ShopHandler struct {
	catalog *services.CatalogService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(catalogService *services.CatalogService) *ShopHandler {
	return &ShopHandler{catalog: catalogService}
}

// ListEvents handles GET /api/events
func (h *ShopHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	page, err := h.catalog.ListEvents(limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	respondSuccess(w, http.StatusOK, "", page)
}

// GetEvent handles GET /api/events/{id}
func (h *ShopHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	event, err := h.catalog.GetEvent(id)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			respondError(w, http.StatusNotFound, "Event not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load event")
		return
	}
	respondSuccess(w, http.StatusOK, "", event)
}

// ListCategories handles GET /api/events/{id}/categories
func (h *ShopHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	categories, err := h.catalog.ListCategories(id)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			respondError(w, http.StatusNotFound, "Event not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	respondSuccess(w, http.StatusOK, "", categories)
}

// ListAthletes handles GET /api/categories/{id}/athletes
func (h *ShopHandler) ListAthletes(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	athletes, err := h.catalog.ListAthletes(id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load athletes")
		return
	}
	if athletes == nil {
		athletes = []*models.Athlete{}
	}
	respondSuccess(w, http.StatusOK, "", athletes)
}

// GetAthlete handles GET /api/athletes/{id}
func (h *ShopHandler) GetAthlete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid athlete ID")
		return
	}

	details, err := h.catalog.GetAthleteDetails(id)
	if err != nil {
		if errors.Is(err, models.ErrAthleteNotFound) {
			respondError(w, http.StatusNotFound, "Athlete not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load athlete")
		return
	}
	respondSuccess(w, http.StatusOK, "", details)
}

// ListVideoTypes handles GET /api/video-types. An empty or unreadable
// catalog falls back to the fixed offer so the selection flow always has
// options.
func (h *ShopHandler) ListVideoTypes(w http.ResponseWriter, r *http.Request) {
	result := NewVideoTypeFetcher(h.catalog).Fetch(r.Context())
	respondSuccess(w, http.StatusOK, "", result.Types)
}

// VideoTypeFetcher implements the cart selection Fetcher over the database
// catalog, degrading to the fixed offer the same way the remote client does.
type VideoTypeFetcher struct {
	catalog *services.CatalogService
}

// NewVideoTypeFetcher creates a fetcher over the catalog service
func NewVideoTypeFetcher(catalogService *services.CatalogService) *VideoTypeFetcher {
	return &VideoTypeFetcher{catalog: catalogService}
}

// Fetch returns the purchasable video types, or the fallback catalog when
// the database has none.
func (f *VideoTypeFetcher) Fetch(_ context.Context) catalog.Result {
	videoTypes, err := f.catalog.ListVideoTypes()
	if err != nil || len(videoTypes) == 0 {
		return catalog.Result{Types: catalog.Fallback(), Source: catalog.SourceFallback}
	}

	types := make([]models.VideoType, len(videoTypes))
	for i, vt := range videoTypes {
		types[i] = *vt
	}
	return catalog.Result{Types: types, Source: catalog.SourceRemote}
}

func urlParamInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}
