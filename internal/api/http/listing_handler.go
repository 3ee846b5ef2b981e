package http

import (
	"net/http"
	"strconv"
	"strings"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type ListingHandler struct {
	listingSvc service.ListingService
}

func NewListingHandler(listingSvc service.ListingService) *ListingHandler {
	return &ListingHandler{listingSvc: listingSvc}
}

type listingDetailResponse struct {
	Listing  *domain.Listing         `json:"listing"`
	Variants []domain.ListingVariant `json:"variants,omitempty"`
	AddOns   []domain.ListingAddOn   `json:"addons,omitempty"`
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	listing, variants, addons, err := h.listingSvc.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listingDetailResponse{Listing: listing, Variants: variants, AddOns: addons})
}

type listingListResponse struct {
	Listings []domain.Listing `json:"listings"`
	Total    int32            `json:"total"`
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	query := r.URL.Query().Get("q")

	var maxPrice int64
	if raw := r.URL.Query().Get("max_price_cents"); raw != "" {
		maxPrice, _ = strconv.ParseInt(raw, 10, 64)
	}

	var conditions []string
	if raw := r.URL.Query().Get("conditions"); raw != "" {
		conditions = strings.Split(raw, ",")
	}

	listings, total, err := h.listingSvc.SearchListings(r.Context(), query, maxPrice, conditions, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listingListResponse{Listings: listings, Total: total})
}
