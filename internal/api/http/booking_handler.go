package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
	paymentSvc service.PaymentService
}

func NewBookingHandler(bookingSvc service.BookingService, paymentSvc service.PaymentService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, paymentSvc: paymentSvc}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req service.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
		return
	}

	booking, err := h.bookingSvc.CreateBooking(r.Context(), caller, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// updateBookingRequest is the wire shape of a status update. status and
// cancellation_reason are the only fields a caller may change after
// creation; anything else in the body is ignored.
type updateBookingRequest struct {
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason"`
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
		return
	}

	tr, err := service.ParseTransition(req.Status, req.CancellationReason)
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.TransitionBooking(r.Context(), caller, bookingID, tr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type bookingDetailResponse struct {
	Booking *domain.Booking       `json:"booking"`
	AddOns  []domain.BookingAddOn `json:"addons,omitempty"`
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	booking, addons, err := h.bookingSvc.GetBooking(r.Context(), caller, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingDetailResponse{Booking: booking, AddOns: addons})
}

type bookingListResponse struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int32            `json:"total"`
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	var (
		bookings []domain.Booking
		total    int32
		err      error
	)
	switch r.URL.Query().Get("role") {
	case "lender":
		bookings, total, err = h.bookingSvc.ListLendings(r.Context(), caller, status, page, pageSize)
	default:
		bookings, total, err = h.bookingSvc.ListRentals(r.Context(), caller, status, page, pageSize)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Bookings: bookings, Total: total})
}

type refundRequest struct {
	AmountCents int64 `json:"amount_cents"` // 0 means full refund
}

func (h *BookingHandler) CreateRefund(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req refundRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
			return
		}
	}

	refund, err := h.paymentSvc.RefundBooking(r.Context(), caller, bookingID, req.AmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, refund)
}

func (h *BookingHandler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	refunds, err := h.paymentSvc.ListRefunds(r.Context(), caller, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"refunds": refunds, "total": len(refunds)})
}
