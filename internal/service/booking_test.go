package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type bookingFixture struct {
	bookingRepo *MockBookingRepo
	listingRepo *MockListingRepo
	userRepo    *MockUserRepo
	noteRepo    *MockNotificationRepo
	emailSvc    *MockEmailService
	svc         service.BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookingRepo: new(MockBookingRepo),
		listingRepo: new(MockListingRepo),
		userRepo:    new(MockUserRepo),
		noteRepo:    new(MockNotificationRepo),
		emailSvc:    new(MockEmailService),
	}
	f.svc = service.NewBookingService(f.bookingRepo, f.listingRepo, f.userRepo, f.noteRepo, f.emailSvc)

	// Notifications and emails are best effort and not the subject of most
	// tests here, so accept them permissively.
	f.noteRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.userRepo.On("GetByID", mock.Anything, mock.Anything).Return(&domain.User{ID: 2, Email: "lender@example.com", Name: "Lena"}, nil).Maybe()
	f.emailSvc.On("SendBookingRequested", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.emailSvc.On("SendBookingStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func activeListing() *domain.Listing {
	return &domain.Listing{ID: 10, LenderID: 2, Title: "Canon EOS R5", BasePriceCents: 10000, IsActive: true}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("success with variant, add-ons and delivery", func(t *testing.T) {
		f := newBookingFixture()
		listing := activeListing()
		variantID := int32(7)
		f.listingRepo.On("GetByID", ctx, int32(10)).Return(listing, nil)
		f.listingRepo.On("GetVariant", ctx, int32(10), int32(7)).
			Return(&domain.ListingVariant{ID: 7, ListingID: 10, PriceModifierCents: 2000}, nil)
		f.listingRepo.On("GetAddOns", ctx, int32(10), []int32{1, 2}).
			Return([]domain.ListingAddOn{
				{ID: 1, ListingID: 10, PriceCents: 1500},
				{ID: 2, ListingID: 10, PriceCents: 1000},
			}, nil)
		f.bookingRepo.On("CreateWithAddOns", ctx, mock.AnythingOfType("*domain.Booking"), mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Booking).ID = 42
			}).Return(nil)

		booking, err := f.svc.CreateBooking(ctx, 1, service.CreateBookingRequest{
			ListingID:         10,
			VariantID:         &variantID,
			StartDate:         "2024-06-01",
			EndDate:           "2024-06-04",
			AddOnIDs:          []int32{1, 2, 2},
			DeliveryRequested: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, int32(42), booking.ID)
		assert.Equal(t, int32(1), booking.RenterID)
		assert.Equal(t, int32(2), booking.LenderID)
		assert.Equal(t, domain.BookingStatusPending, booking.Status)
		assert.Equal(t, domain.PaymentStatusUnpaid, booking.PaymentStatus)
		assert.Equal(t, int32(3), booking.RentalDays)
		assert.Equal(t, int64(36000), booking.ItemPriceCents)
		assert.Equal(t, int64(2500), booking.AddOnsPriceCents)
		assert.Equal(t, int64(5000), booking.DeliveryFeeCents)
		assert.Equal(t, int64(0), booking.SetupFeeCents)
		assert.Equal(t, int64(43500), booking.SubtotalCents)
		assert.Equal(t, int64(4350), booking.ServiceFeeCents)
		assert.Equal(t, int64(47850), booking.TotalPriceCents)
		f.bookingRepo.AssertExpectations(t)
		f.listingRepo.AssertExpectations(t)
	})

	t.Run("self booking rejected", func(t *testing.T) {
		f := newBookingFixture()
		f.listingRepo.On("GetByID", ctx, int32(10)).Return(activeListing(), nil)

		_, err := f.svc.CreateBooking(ctx, 2, service.CreateBookingRequest{
			ListingID: 10, StartDate: "2024-06-01", EndDate: "2024-06-04",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		f.bookingRepo.AssertNotCalled(t, "CreateWithAddOns", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("listing not found", func(t *testing.T) {
		f := newBookingFixture()
		f.listingRepo.On("GetByID", ctx, int32(99)).Return(nil, domain.ErrNotFound)

		_, err := f.svc.CreateBooking(ctx, 1, service.CreateBookingRequest{
			ListingID: 99, StartDate: "2024-06-01", EndDate: "2024-06-04",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("inactive listing rejected", func(t *testing.T) {
		f := newBookingFixture()
		listing := activeListing()
		listing.IsActive = false
		f.listingRepo.On("GetByID", ctx, int32(10)).Return(listing, nil)

		_, err := f.svc.CreateBooking(ctx, 1, service.CreateBookingRequest{
			ListingID: 10, StartDate: "2024-06-01", EndDate: "2024-06-04",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("malformed dates rejected", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.svc.CreateBooking(ctx, 1, service.CreateBookingRequest{
			ListingID: 10, StartDate: "June 1st", EndDate: "2024-06-04",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.listingRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		f := newBookingFixture()
		f.listingRepo.On("GetByID", ctx, int32(10)).Return(activeListing(), nil)

		_, err := f.svc.CreateBooking(ctx, 1, service.CreateBookingRequest{
			ListingID: 10, StartDate: "2024-06-04", EndDate: "2024-06-01",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("add-on from another listing rejected", func(t *testing.T) {
		f := newBookingFixture()
		f.listingRepo.On("GetByID", ctx, int32(10)).Return(activeListing(), nil)
		f.listingRepo.On("GetAddOns", ctx, int32(10), []int32{1, 999}).
			Return([]domain.ListingAddOn{{ID: 1, ListingID: 10, PriceCents: 1500}}, nil)

		_, err := f.svc.CreateBooking(ctx, 1, service.CreateBookingRequest{
			ListingID: 10, StartDate: "2024-06-01", EndDate: "2024-06-04",
			AddOnIDs: []int32{1, 999},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.bookingRepo.AssertNotCalled(t, "CreateWithAddOns", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown variant booked without variant", func(t *testing.T) {
		f := newBookingFixture()
		variantID := int32(404)
		f.listingRepo.On("GetByID", ctx, int32(10)).Return(activeListing(), nil)
		f.listingRepo.On("GetVariant", ctx, int32(10), int32(404)).Return(nil, domain.ErrNotFound)
		f.bookingRepo.On("CreateWithAddOns", ctx, mock.AnythingOfType("*domain.Booking"), mock.Anything).Return(nil)

		booking, err := f.svc.CreateBooking(ctx, 1, service.CreateBookingRequest{
			ListingID: 10, VariantID: &variantID,
			StartDate: "2024-06-01", EndDate: "2024-06-04",
		})
		assert.NoError(t, err)
		assert.Nil(t, booking.VariantID)
		assert.Equal(t, int64(30000), booking.ItemPriceCents)
	})
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:        42,
		RenterID:  1,
		LenderID:  2,
		ListingID: 10,
		Status:    domain.BookingStatusPending,
	}
}

func TestTransitionBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("lender confirms pending", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(pendingBooking(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, mock.AnythingOfType("*domain.Booking"), domain.BookingStatusPending).Return(nil)
		f.listingRepo.On("GetByID", mock.Anything, mock.Anything).Return(activeListing(), nil).Maybe()

		booking, err := f.svc.TransitionBooking(ctx, 2, 42, service.Transition{Action: service.ActionConfirm})
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
		f.bookingRepo.AssertExpectations(t)
	})

	t.Run("renter may not confirm", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(pendingBooking(), nil)

		_, err := f.svc.TransitionBooking(ctx, 1, 42, service.Transition{Action: service.ActionConfirm})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		f.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("renter may not activate or complete", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusConfirmed
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(b, nil)

		_, err := f.svc.TransitionBooking(ctx, 1, 42, service.Transition{Action: service.ActionActivate})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		_, err = f.svc.TransitionBooking(ctx, 1, 42, service.Transition{Action: service.ActionComplete})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("renter cancels pending with reason", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(pendingBooking(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, mock.AnythingOfType("*domain.Booking"), domain.BookingStatusPending).Return(nil)
		f.listingRepo.On("GetByID", mock.Anything, mock.Anything).Return(activeListing(), nil).Maybe()

		booking, err := f.svc.TransitionBooking(ctx, 1, 42, service.Transition{
			Action:             service.ActionCancel,
			CancellationReason: "plans changed",
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, booking.Status)
		assert.Equal(t, "plans changed", booking.CancellationReason)
		assert.NotNil(t, booking.CancelledAt)
	})

	t.Run("lender completes active", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusActive
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(b, nil)
		f.bookingRepo.On("UpdateStatus", ctx, mock.AnythingOfType("*domain.Booking"), domain.BookingStatusActive).Return(nil)
		f.listingRepo.On("GetByID", mock.Anything, mock.Anything).Return(activeListing(), nil).Maybe()

		booking, err := f.svc.TransitionBooking(ctx, 2, 42, service.Transition{Action: service.ActionComplete})
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCompleted, booking.Status)
		assert.NotNil(t, booking.CompletedAt)
	})

	t.Run("repeated confirm is an invalid transition", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusConfirmed
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(b, nil)

		_, err := f.svc.TransitionBooking(ctx, 2, 42, service.Transition{Action: service.ActionConfirm})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("cancel after completion is an invalid transition", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusCompleted
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(b, nil)

		_, err := f.svc.TransitionBooking(ctx, 2, 42, service.Transition{Action: service.ActionCancel})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	// A caller who is neither renter nor lender is refused every
	// transition from every state, before the edge is even considered.
	t.Run("third party forbidden from every state", func(t *testing.T) {
		statuses := []domain.BookingStatus{
			domain.BookingStatusPending,
			domain.BookingStatusConfirmed,
			domain.BookingStatusActive,
			domain.BookingStatusCancelled,
			domain.BookingStatusCompleted,
		}
		actions := []service.BookingAction{
			service.ActionConfirm,
			service.ActionActivate,
			service.ActionComplete,
			service.ActionCancel,
		}
		for _, from := range statuses {
			for _, action := range actions {
				f := newBookingFixture()
				b := pendingBooking()
				b.Status = from
				f.bookingRepo.On("GetByID", ctx, int32(42)).Return(b, nil)

				_, err := f.svc.TransitionBooking(ctx, 7, 42, service.Transition{Action: action})
				assert.ErrorIs(t, err, domain.ErrForbidden, "from=%s action=%d", from, action)
				f.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		}
	})

	t.Run("concurrent update surfaces conflict", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(pendingBooking(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, mock.AnythingOfType("*domain.Booking"), domain.BookingStatusPending).
			Return(domain.ErrConflict)

		_, err := f.svc.TransitionBooking(ctx, 2, 42, service.Transition{Action: service.ActionConfirm})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("empty transition rejected", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.svc.TransitionBooking(ctx, 2, 42, service.Transition{})
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.bookingRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestParseTransition(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		reason  string
		want    service.BookingAction
		wantErr bool
	}{
		{"confirm", "confirmed", "", service.ActionConfirm, false},
		{"activate", "active", "", service.ActionActivate, false},
		{"complete", "completed", "", service.ActionComplete, false},
		{"cancel", "cancelled", "no longer needed", service.ActionCancel, false},
		{"empty", "", "", 0, true},
		{"whitespace", "   ", "", 0, true},
		{"pending is not a target", "pending", "", 0, true},
		{"unknown status", "shipped", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := service.ParseTransition(tt.status, tt.reason)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, tr.Action)
			if tr.Action == service.ActionCancel {
				assert.Equal(t, tt.reason, tr.CancellationReason)
			} else {
				assert.Empty(t, tr.CancellationReason)
			}
		})
	}
}

func TestGetBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("party sees booking with add-ons", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(pendingBooking(), nil)
		f.bookingRepo.On("GetAddOns", ctx, int32(42)).
			Return([]domain.BookingAddOn{{ID: 1, BookingID: 42, AddOnID: 1, PriceCents: 1500}}, nil)

		booking, addons, err := f.svc.GetBooking(ctx, 1, 42)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), booking.ID)
		assert.Len(t, addons, 1)
	})

	t.Run("outsider forbidden", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(42)).Return(pendingBooking(), nil)

		_, _, err := f.svc.GetBooking(ctx, 7, 42)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
