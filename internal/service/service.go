package service

import (
	"context"
	"fmt"
	"strings"

	"gearshare-backend/internal/domain"
)

// CreateBookingRequest is the wire shape of a booking creation request.
type CreateBookingRequest struct {
	ListingID         int32   `json:"listing_id"`
	VariantID         *int32  `json:"variant_id,omitempty"`
	StartDate         string  `json:"start_date"` // yyyy-mm-dd
	EndDate           string  `json:"end_date"`   // yyyy-mm-dd
	AddOnIDs          []int32 `json:"addon_ids,omitempty"`
	DeliveryRequested bool    `json:"delivery_requested"`
	SetupRequested    bool    `json:"setup_requested"`
}

// BookingAction is the closed set of status changes a caller may request.
type BookingAction int

const (
	ActionConfirm BookingAction = iota + 1
	ActionActivate
	ActionComplete
	ActionCancel
)

// Transition is a validated status-change request. Only cancel carries a
// reason; no other field of a booking is updatable after creation.
type Transition struct {
	Action             BookingAction
	CancellationReason string
}

// ParseTransition converts the wire fields (status, cancellation_reason)
// into a Transition. An empty or unknown status never reaches the state
// machine.
func ParseTransition(status, cancellationReason string) (Transition, error) {
	if strings.TrimSpace(status) == "" {
		return Transition{}, fmt.Errorf("%w: no valid updates provided", domain.ErrValidation)
	}
	parsed, err := domain.ParseBookingStatus(status)
	if err != nil {
		return Transition{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	switch parsed {
	case domain.BookingStatusConfirmed:
		return Transition{Action: ActionConfirm}, nil
	case domain.BookingStatusActive:
		return Transition{Action: ActionActivate}, nil
	case domain.BookingStatusCompleted:
		return Transition{Action: ActionComplete}, nil
	case domain.BookingStatusCancelled:
		return Transition{Action: ActionCancel, CancellationReason: cancellationReason}, nil
	default:
		// pending is the initial state, never a transition target
		return Transition{}, fmt.Errorf("%w: status %q is not a valid transition target", domain.ErrValidation, status)
	}
}

// TargetStatus returns the booking status this transition requests.
func (t Transition) TargetStatus() domain.BookingStatus {
	switch t.Action {
	case ActionConfirm:
		return domain.BookingStatusConfirmed
	case ActionActivate:
		return domain.BookingStatusActive
	case ActionComplete:
		return domain.BookingStatusCompleted
	case ActionCancel:
		return domain.BookingStatusCancelled
	}
	return ""
}

type BookingService interface {
	CreateBooking(ctx context.Context, renterID int32, req CreateBookingRequest) (*domain.Booking, error)
	TransitionBooking(ctx context.Context, callerID, bookingID int32, tr Transition) (*domain.Booking, error)
	GetBooking(ctx context.Context, callerID, bookingID int32) (*domain.Booking, []domain.BookingAddOn, error)
	ListRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListLendings(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type PaymentService interface {
	RefundBooking(ctx context.Context, callerID, bookingID int32, amountCents int64) (*domain.Refund, error)
	ListRefunds(ctx context.Context, callerID, bookingID int32) ([]domain.Refund, error)
}

type ListingService interface {
	GetListing(ctx context.Context, id int32) (*domain.Listing, []domain.ListingVariant, []domain.ListingAddOn, error)
	SearchListings(ctx context.Context, query string, maxPriceCents int64, conditions []string, page, pageSize int32) ([]domain.Listing, int32, error)
}

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingRequested(ctx context.Context, to, renterName, listingTitle string) error
	SendBookingStatusChanged(ctx context.Context, to, listingTitle, status, reason string) error
	SendRefundIssued(ctx context.Context, to, listingTitle string, amountCents int64) error
	SendReturnReminder(ctx context.Context, to, listingTitle, endDate string) error
	SendStartReminder(ctx context.Context, to, listingTitle, startDate string) error
}
