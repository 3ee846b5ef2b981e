package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/metrics"
	"gearshare-backend/internal/pricing"
	"gearshare-backend/internal/repository"
)

const dateLayout = "2006-01-02"

type bookingService struct {
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, renterID int32, req CreateBookingRequest) (*domain.Booking, error) {
	if req.ListingID <= 0 {
		return nil, fmt.Errorf("%w: listing_id is required", domain.ErrValidation)
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date %q", domain.ErrValidation, req.StartDate)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date %q", domain.ErrValidation, req.EndDate)
	}

	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: listing %d", domain.ErrNotFound, req.ListingID)
		}
		return nil, err
	}
	if !listing.IsActive {
		return nil, fmt.Errorf("%w: listing %d is not active", domain.ErrValidation, listing.ID)
	}
	if listing.LenderID == renterID {
		return nil, fmt.Errorf("%w: cannot book your own listing", domain.ErrConflict)
	}

	// A variant id that does not resolve for this listing is treated as
	// booking without a variant, not as an error.
	var variant *domain.ListingVariant
	var variantID *int32
	if req.VariantID != nil {
		variant, err = s.listingRepo.GetVariant(ctx, listing.ID, *req.VariantID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if variant != nil {
			variantID = &variant.ID
		}
	}

	addonIDs := dedupe(req.AddOnIDs)
	var addons []domain.ListingAddOn
	if len(addonIDs) > 0 {
		addons, err = s.listingRepo.GetAddOns(ctx, listing.ID, addonIDs)
		if err != nil {
			return nil, err
		}
		if len(addons) != len(addonIDs) {
			return nil, fmt.Errorf("%w: one or more add-ons do not belong to listing %d", domain.ErrValidation, listing.ID)
		}
	}

	quote, err := pricing.Quote(listing, variant, addons, start, end, req.DeliveryRequested, req.SetupRequested)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		RenterID:          renterID,
		LenderID:          listing.LenderID,
		ListingID:         listing.ID,
		VariantID:         variantID,
		StartDate:         start,
		EndDate:           end,
		RentalDays:        quote.RentalDays,
		DeliveryRequested: req.DeliveryRequested,
		SetupRequested:    req.SetupRequested,
		ItemPriceCents:    quote.ItemPriceCents,
		AddOnsPriceCents:  quote.AddOnsPriceCents,
		DeliveryFeeCents:  quote.DeliveryFeeCents,
		SetupFeeCents:     quote.SetupFeeCents,
		SubtotalCents:     quote.SubtotalCents,
		ServiceFeeCents:   quote.ServiceFeeCents,
		TotalPriceCents:   quote.TotalPriceCents,
		Status:            domain.BookingStatusPending,
		PaymentStatus:     domain.PaymentStatusUnpaid,
	}

	if err := s.bookingRepo.CreateWithAddOns(ctx, booking, addons); err != nil {
		return nil, err
	}
	metrics.IncBookingsCreated()

	s.notify(ctx, booking.LenderID, "New booking request",
		fmt.Sprintf("You have a new booking request for %q", listing.Title),
		map[string]string{"type": "BOOKING_REQUESTED", "booking_id": fmt.Sprintf("%d", booking.ID)})
	if lender, err := s.userRepo.GetByID(ctx, booking.LenderID); err == nil {
		renterName := ""
		if renter, err := s.userRepo.GetByID(ctx, renterID); err == nil {
			renterName = renter.Name
		}
		if err := s.emailSvc.SendBookingRequested(ctx, lender.Email, renterName, listing.Title); err != nil {
			logger.Warn("booking request email failed", "booking_id", booking.ID, "error", err)
		}
	}

	return booking, nil
}

func (s *bookingService) TransitionBooking(ctx context.Context, callerID, bookingID int32, tr Transition) (*domain.Booking, error) {
	target := tr.TargetStatus()
	if target == "" {
		return nil, fmt.Errorf("%w: no valid updates provided", domain.ErrValidation)
	}

	// Always validate against the currently persisted status, never a
	// client-supplied one.
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	role, isParty := booking.RoleOf(callerID)
	if !isParty {
		return nil, fmt.Errorf("%w: not a party to booking %d", domain.ErrForbidden, bookingID)
	}
	if !domain.TransitionAllowedFor(target, role) {
		return nil, fmt.Errorf("%w: only the lender may set status %s", domain.ErrForbidden, target)
	}
	if !booking.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, booking.Status, target)
	}

	previous := booking.Status
	now := time.Now()
	booking.Status = target
	switch tr.Action {
	case ActionCancel:
		booking.CancelledAt = &now
		booking.CancellationReason = tr.CancellationReason
	case ActionComplete:
		booking.CompletedAt = &now
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking, previous); err != nil {
		return nil, err
	}
	metrics.IncBookingTransitions(string(target))

	s.notifyCounterparty(ctx, booking, callerID, tr)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, callerID, bookingID int32) (*domain.Booking, []domain.BookingAddOn, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if _, isParty := booking.RoleOf(callerID); !isParty {
		return nil, nil, fmt.Errorf("%w: not a party to booking %d", domain.ErrForbidden, bookingID)
	}
	addons, err := s.bookingRepo.GetAddOns(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	return booking, addons, nil
}

func (s *bookingService) ListRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *bookingService) ListLendings(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByLender(ctx, lenderID, status, page, pageSize)
}

// notify persists a notification row. Best effort: a notification failure
// never fails the booking operation that triggered it.
func (s *bookingService) notify(ctx context.Context, userID int32, title, message string, attrs map[string]string) {
	note := &domain.Notification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("notification create failed", "user_id", userID, "error", err)
	}
}

func (s *bookingService) notifyCounterparty(ctx context.Context, booking *domain.Booking, callerID int32, tr Transition) {
	counterparty := booking.RenterID
	if callerID == booking.RenterID {
		counterparty = booking.LenderID
	}

	listingTitle := fmt.Sprintf("listing %d", booking.ListingID)
	if listing, err := s.listingRepo.GetByID(ctx, booking.ListingID); err == nil {
		listingTitle = listing.Title
	}

	message := fmt.Sprintf("Booking for %q is now %s", listingTitle, booking.Status)
	if tr.Action == ActionCancel && tr.CancellationReason != "" {
		message += fmt.Sprintf(" (reason: %s)", tr.CancellationReason)
	}
	s.notify(ctx, counterparty, "Booking "+string(booking.Status), message,
		map[string]string{"type": "BOOKING_" + string(booking.Status), "booking_id": fmt.Sprintf("%d", booking.ID)})

	if user, err := s.userRepo.GetByID(ctx, counterparty); err == nil {
		if err := s.emailSvc.SendBookingStatusChanged(ctx, user.Email, listingTitle, string(booking.Status), tr.CancellationReason); err != nil {
			logger.Warn("status change email failed", "booking_id", booking.ID, "error", err)
		}
	}
}

func dedupe(ids []int32) []int32 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int32]bool, len(ids))
	out := make([]int32, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
