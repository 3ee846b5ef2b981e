package repository

import (
	"context"

	"gearshare-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ListingRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Listing, error)
	ListByLender(ctx context.Context, lenderID int32, page, pageSize int32) ([]domain.Listing, int32, error)
	Search(ctx context.Context, query string, maxPriceCents int64, conditions []string, page, pageSize int32) ([]domain.Listing, int32, error)

	// Variant and add-on rows are scoped to their parent listing; ids from
	// another listing never resolve.
	GetVariant(ctx context.Context, listingID, variantID int32) (*domain.ListingVariant, error)
	ListVariants(ctx context.Context, listingID int32) ([]domain.ListingVariant, error)
	GetAddOns(ctx context.Context, listingID int32, addonIDs []int32) ([]domain.ListingAddOn, error)
	ListAddOns(ctx context.Context, listingID int32) ([]domain.ListingAddOn, error)
}

type BookingRepository interface {
	// CreateWithAddOns persists the booking row and one link row per
	// selected add-on in a single transaction.
	CreateWithAddOns(ctx context.Context, booking *domain.Booking, addons []domain.ListingAddOn) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// UpdateStatus writes status, timestamps and cancellation reason,
	// conditional on the previously read status. A concurrent update that
	// moved the booking first surfaces as domain.ErrConflict.
	UpdateStatus(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, bookingID int32, status domain.PaymentStatus) error
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListActiveEndedBefore(ctx context.Context, cutoff string) ([]domain.Booking, error)
	ListConfirmedStartingOn(ctx context.Context, date string) ([]domain.Booking, error)
	GetAddOns(ctx context.Context, bookingID int32) ([]domain.BookingAddOn, error)
}

type RefundRepository interface {
	Create(ctx context.Context, refund *domain.Refund) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.Refund, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
