package domain

import (
	"fmt"
	"time"
)

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// ActorRole is the relationship of the acting caller to a booking.
type ActorRole string

const (
	ActorRenter ActorRole = "renter"
	ActorLender ActorRole = "lender"
)

// validTransitions defines the state machine for booking status transitions.
// cancelled and completed are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusActive, BookingStatusCancelled},
	BookingStatusActive:    {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCancelled: {},
	BookingStatusCompleted: {},
}

// lenderOnlyTargets lists target statuses that only the lender may request.
// Cancellation is open to either party.
var lenderOnlyTargets = map[BookingStatus]bool{
	BookingStatusConfirmed: true,
	BookingStatusActive:    true,
	BookingStatusCompleted: true,
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return true
	}
	return len(allowed) == 0
}

// CanTransitionTo returns true if a transition from this status to the
// target is allowed, regardless of who requests it.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionAllowedFor returns true if the given role may request the
// target status at all. Checked before the transition table so that a
// renter asking for a lender-only status fails as forbidden, not as an
// invalid transition.
func TransitionAllowedFor(target BookingStatus, role ActorRole) bool {
	if lenderOnlyTargets[target] {
		return role == ActorLender
	}
	return role == ActorRenter || role == ActorLender
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an
// error if it is not a recognized status.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
	return status, nil
}

// Booking is the core entity owned by the booking engine.
//
// Price fields are snapshots computed once at creation from the listing,
// variant and add-on prices; status transitions never recompute them.
type Booking struct {
	ID        int32  `json:"id"`
	RenterID  int32  `json:"renter_id"`
	LenderID  int32  `json:"lender_id"` // copied from the listing, immutable
	ListingID int32  `json:"listing_id"`
	VariantID *int32 `json:"variant_id,omitempty"`

	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	RentalDays int32     `json:"rental_days"`

	DeliveryRequested bool `json:"delivery_requested"`
	SetupRequested    bool `json:"setup_requested"`

	ItemPriceCents   int64 `json:"item_price_cents"`
	AddOnsPriceCents int64 `json:"addons_price_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	SetupFeeCents    int64 `json:"setup_fee_cents"`
	SubtotalCents    int64 `json:"subtotal_cents"`
	ServiceFeeCents  int64 `json:"service_fee_cents"`
	TotalPriceCents  int64 `json:"total_price_cents"`

	Status             BookingStatus `json:"status"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`

	// PaymentRef is the processor's charge reference, written when the
	// processor captures the payment (a webhook concern outside this
	// engine). Refunds require it; an empty ref means nothing was
	// captured and nothing is refundable.
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentRef    string        `json:"payment_ref,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// RoleOf returns the booking-relative role of a user, or false if the
// user is not a party to the booking.
func (b *Booking) RoleOf(userID int32) (ActorRole, bool) {
	switch userID {
	case b.RenterID:
		return ActorRenter, true
	case b.LenderID:
		return ActorLender, true
	}
	return "", false
}

// BookingAddOn links a booking to one selected add-on. Created once at
// booking creation, never updated.
type BookingAddOn struct {
	ID         int32 `json:"id"`
	BookingID  int32 `json:"booking_id"`
	AddOnID    int32 `json:"addon_id"`
	PriceCents int64 `json:"price_cents"` // snapshot of the add-on price
}
