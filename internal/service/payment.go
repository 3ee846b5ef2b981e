package service

import (
	"context"
	"fmt"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/metrics"
	"gearshare-backend/internal/payments"
	"gearshare-backend/internal/repository"
)

type paymentService struct {
	bookingRepo repository.BookingRepository
	refundRepo  repository.RefundRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	processor   payments.Processor
	emailSvc    EmailService
}

func NewPaymentService(
	bookingRepo repository.BookingRepository,
	refundRepo repository.RefundRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	processor payments.Processor,
	emailSvc EmailService,
) PaymentService {
	return &paymentService{
		bookingRepo: bookingRepo,
		refundRepo:  refundRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		processor:   processor,
		emailSvc:    emailSvc,
	}
}

// RefundBooking issues a refund against a cancelled booking's payment.
// amountCents of 0 refunds the full total. The booking's payment status
// becomes refunded only when the refunded amount equals the full total,
// partially_refunded otherwise.
func (s *paymentService) RefundBooking(ctx context.Context, callerID, bookingID int32, amountCents int64) (*domain.Refund, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, isParty := booking.RoleOf(callerID); !isParty {
		return nil, fmt.Errorf("%w: not a party to booking %d", domain.ErrForbidden, bookingID)
	}
	if callerID != booking.LenderID {
		return nil, fmt.Errorf("%w: only the lender may issue refunds", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusCancelled {
		return nil, fmt.Errorf("%w: only cancelled bookings can be refunded", domain.ErrValidation)
	}
	if booking.PaymentRef == "" {
		return nil, fmt.Errorf("%w: booking %d has no captured payment", domain.ErrValidation, bookingID)
	}
	if amountCents < 0 || amountCents > booking.TotalPriceCents {
		return nil, fmt.Errorf("%w: refund amount out of range", domain.ErrValidation)
	}
	if amountCents == 0 {
		amountCents = booking.TotalPriceCents
	}

	result, err := s.processor.CreateRefund(ctx, payments.RefundRequest{
		PaymentRef:  booking.PaymentRef,
		AmountCents: amountCents,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: refund failed: %v", domain.ErrUpstream, err)
	}

	refund := &domain.Refund{
		BookingID:    bookingID,
		ProcessorRef: result.ID,
		AmountCents:  result.AmountCents,
		Status:       result.Status,
	}
	if err := s.refundRepo.Create(ctx, refund); err != nil {
		return nil, err
	}

	paymentStatus := domain.PaymentStatusPartiallyRefunded
	if result.AmountCents == booking.TotalPriceCents {
		paymentStatus = domain.PaymentStatusRefunded
	}
	if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, paymentStatus); err != nil {
		return nil, err
	}
	metrics.IncRefunds()

	if renter, err := s.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		if err := s.emailSvc.SendRefundIssued(ctx, renter.Email, fmt.Sprintf("booking %d", bookingID), result.AmountCents); err != nil {
			logger.Warn("refund email failed", "booking_id", bookingID, "error", err)
		}
	}
	note := &domain.Notification{
		UserID:  booking.RenterID,
		Title:   "Refund issued",
		Message: fmt.Sprintf("A refund of %d cents was issued for booking %d", result.AmountCents, bookingID),
		Attributes: map[string]string{
			"type":       "REFUND_ISSUED",
			"booking_id": fmt.Sprintf("%d", bookingID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("refund notification failed", "booking_id", bookingID, "error", err)
	}

	return refund, nil
}

func (s *paymentService) ListRefunds(ctx context.Context, callerID, bookingID int32) ([]domain.Refund, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, isParty := booking.RoleOf(callerID); !isParty {
		return nil, fmt.Errorf("%w: not a party to booking %d", domain.ErrForbidden, bookingID)
	}
	return s.refundRepo.ListByBooking(ctx, bookingID)
}
