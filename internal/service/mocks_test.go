package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/payments"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) ListByLender(ctx context.Context, lenderID int32, page, pageSize int32) ([]domain.Listing, int32, error) {
	args := m.Called(ctx, lenderID, page, pageSize)
	return args.Get(0).([]domain.Listing), args.Get(1).(int32), args.Error(2)
}
func (m *MockListingRepo) Search(ctx context.Context, query string, maxPriceCents int64, conditions []string, page, pageSize int32) ([]domain.Listing, int32, error) {
	args := m.Called(ctx, query, maxPriceCents, conditions, page, pageSize)
	return args.Get(0).([]domain.Listing), args.Get(1).(int32), args.Error(2)
}
func (m *MockListingRepo) GetVariant(ctx context.Context, listingID, variantID int32) (*domain.ListingVariant, error) {
	args := m.Called(ctx, listingID, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListingVariant), args.Error(1)
}
func (m *MockListingRepo) ListVariants(ctx context.Context, listingID int32) ([]domain.ListingVariant, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingVariant), args.Error(1)
}
func (m *MockListingRepo) GetAddOns(ctx context.Context, listingID int32, addonIDs []int32) ([]domain.ListingAddOn, error) {
	args := m.Called(ctx, listingID, addonIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingAddOn), args.Error(1)
}
func (m *MockListingRepo) ListAddOns(ctx context.Context, listingID int32) ([]domain.ListingAddOn, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingAddOn), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) CreateWithAddOns(ctx context.Context, booking *domain.Booking, addons []domain.ListingAddOn) error {
	args := m.Called(ctx, booking, addons)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus) error {
	args := m.Called(ctx, booking, expected)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdatePaymentStatus(ctx context.Context, bookingID int32, status domain.PaymentStatus) error {
	args := m.Called(ctx, bookingID, status)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, lenderID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListActiveEndedBefore(ctx context.Context, cutoff string) ([]domain.Booking, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListConfirmedStartingOn(ctx context.Context, date string) ([]domain.Booking, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetAddOns(ctx context.Context, bookingID int32) ([]domain.BookingAddOn, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingAddOn), args.Error(1)
}

// MockRefundRepo
type MockRefundRepo struct {
	mock.Mock
}

func (m *MockRefundRepo) Create(ctx context.Context, refund *domain.Refund) error {
	args := m.Called(ctx, refund)
	return args.Error(0)
}
func (m *MockRefundRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Refund, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Refund), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequested(ctx context.Context, to, renterName, listingTitle string) error {
	args := m.Called(ctx, to, renterName, listingTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingStatusChanged(ctx context.Context, to, listingTitle, status, reason string) error {
	args := m.Called(ctx, to, listingTitle, status, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendRefundIssued(ctx context.Context, to, listingTitle string, amountCents int64) error {
	args := m.Called(ctx, to, listingTitle, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminder(ctx context.Context, to, listingTitle, endDate string) error {
	args := m.Called(ctx, to, listingTitle, endDate)
	return args.Error(0)
}
func (m *MockEmailService) SendStartReminder(ctx context.Context, to, listingTitle, startDate string) error {
	args := m.Called(ctx, to, listingTitle, startDate)
	return args.Error(0)
}

// MockProcessor
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) CreateAccount(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
func (m *MockProcessor) GetAccountStatus(ctx context.Context, accountID string) (*payments.AccountStatus, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.AccountStatus), args.Error(1)
}
func (m *MockProcessor) CreateRefund(ctx context.Context, req payments.RefundRequest) (*payments.RefundResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.RefundResult), args.Error(1)
}
