package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mainstream-shop/internal/cart"
	"mainstream-shop/internal/middleware"
	"mainstream-shop/internal/models"
	"mainstream-shop/internal/notify"
	"mainstream-shop/internal/services"
)

// CartHandler handles shopping cart requests. The cart lives in the
// visitor's session as one JSON snapshot; every mutation loads it, applies
// the change and stores the whole snapshot back.
type CartHandler struct {
	catalog   *services.CatalogService
	fetcher   cart.Fetcher
	snapshots SnapshotProvider
}

// NewCartHandler creates a new cart handler
func NewCartHandler(catalogService *services.CatalogService, fetcher cart.Fetcher, snapshots SnapshotProvider) *CartHandler {
	return &CartHandler{catalog: catalogService, fetcher: fetcher, snapshots: snapshots}
}

// openCart builds the request-scoped cart store over the session snapshot,
// with flash notifications attached.
func (h *CartHandler) openCart(w http.ResponseWriter, r *http.Request) (*cart.Store, *notify.Flash, bool) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		respondError(w, http.StatusInternalServerError, "Session unavailable")
		return nil, nil, false
	}

	flash := notify.NewFlash(session, r, w)
	store := cart.NewStore(h.snapshots(session, r, w)).WithNotifier(flash)
	store.Load(r.Context())
	return store, flash, true
}

type cartView struct {
	Items []models.CartItem `json:"items"`
	Total int               `json:"total"`
	Count int               `json:"count"`
}

func viewOf(store *cart.Store) cartView {
	return cartView{
		Items: store.Items(),
		Total: store.Total(),
		Count: store.Count(),
	}
}

// View handles GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	store, _, ok := h.openCart(w, r)
	if !ok {
		return
	}
	respondSuccess(w, http.StatusOK, "", viewOf(store))
}

// Count handles GET /api/cart/count, for the cart badge
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	store, _, ok := h.openCart(w, r)
	if !ok {
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]int{"count": store.Count()})
}

type addToCartRequest struct {
	AthleteID   int `json:"athlete_id"`
	VideoTypeID int `json:"video_type_id"`
}

// Add handles POST /api/cart/add. It runs the full selection flow: load the
// video type options, pick the requested one and append the line to the
// cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	details, err := h.catalog.GetAthleteDetails(req.AthleteID)
	if err != nil {
		if errors.Is(err, models.ErrAthleteNotFound) {
			respondError(w, http.StatusNotFound, "Athlete not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load athlete")
		return
	}

	store, _, ok := h.openCart(w, r)
	if !ok {
		return
	}

	selection := cart.NewSelection(h.fetcher, store)
	if err := selection.Open(r.Context(), cart.Subject{
		AthleteID:    details.ID,
		AthleteName:  details.DisplayName(),
		EventID:      details.EventID,
		EventName:    details.EventName,
		CategoryID:   details.CategoryID,
		CategoryName: details.CategoryName,
	}); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load video types")
		return
	}
	if err := selection.Select(req.VideoTypeID); err != nil {
		selection.Cancel()
		respondError(w, http.StatusBadRequest, "Unknown video type")
		return
	}
	if _, err := selection.Confirm(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}

	respondSuccess(w, http.StatusOK, "Added to cart", viewOf(store))
}

type cartLineRequest struct {
	AthleteID   int `json:"athlete_id"`
	VideoTypeID int `json:"video_type_id"`
	Quantity    int `json:"quantity"`
}

// Remove handles POST /api/cart/remove
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	store, _, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if err := store.Remove(r.Context(), req.AthleteID, req.VideoTypeID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}
	respondSuccess(w, http.StatusOK, "Removed from cart", viewOf(store))
}

// UpdateQuantity handles POST /api/cart/update
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	store, _, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if err := store.UpdateQuantity(r.Context(), req.AthleteID, req.VideoTypeID, req.Quantity); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}
	respondSuccess(w, http.StatusOK, "", viewOf(store))
}

// Clear handles POST /api/cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, _, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if err := store.Clear(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}
	respondSuccess(w, http.StatusOK, "Cart cleared", viewOf(store))
}

// Notifications handles GET /api/notifications, draining the flash stack
func (h *CartHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		respondError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}

	notifications := notify.NewFlash(session, r, w).Drain()
	if notifications == nil {
		notifications = []notify.Notification{}
	}
	respondSuccess(w, http.StatusOK, "", notifications)
}
