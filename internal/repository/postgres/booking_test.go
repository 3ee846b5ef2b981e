package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"gearshare-backend/internal/domain"
)

func newBookingTestRepo(t *testing.T) (*bookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &bookingRepository{db: db}, mock
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		RenterID:        1,
		LenderID:        2,
		ListingID:       10,
		StartDate:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		RentalDays:      3,
		ItemPriceCents:  30000,
		SubtotalCents:   30000,
		ServiceFeeCents: 3000,
		TotalPriceCents: 33000,
		Status:          domain.BookingStatusPending,
		PaymentStatus:   domain.PaymentStatusUnpaid,
	}
}

func TestCreateWithAddOnsCommitsOneTransaction(t *testing.T) {
	repo, mock := newBookingTestRepo(t)
	b := testBooking()
	addons := []domain.ListingAddOn{
		{ID: 5, ListingID: 10, PriceCents: 1500},
		{ID: 6, ListingID: 10, PriceCents: 1000},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(42)))
	mock.ExpectExec(`INSERT INTO booking_add_ons`).
		WithArgs(int32(42), int32(5), int64(1500)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO booking_add_ons`).
		WithArgs(int32(42), int32(6), int64(1000)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.CreateWithAddOns(context.Background(), b, addons)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithAddOnsRollsBackOnLinkFailure(t *testing.T) {
	repo, mock := newBookingTestRepo(t)
	b := testBooking()
	addons := []domain.ListingAddOn{{ID: 5, ListingID: 10, PriceCents: 1500}}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(42)))
	mock.ExpectExec(`INSERT INTO booking_add_ons`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateWithAddOns(context.Background(), b, addons)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIsConditionalOnExpectedStatus(t *testing.T) {
	repo, mock := newBookingTestRepo(t)
	b := testBooking()
	b.ID = 42
	b.Status = domain.BookingStatusConfirmed
	before := time.Now()

	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs("confirmed", "", nil, nil, sqlmock.AnyArg(), int32(42), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), b, domain.BookingStatusPending)
	assert.NoError(t, err)
	assert.False(t, b.UpdatedOn.Before(before), "UpdatedOn must reflect the write")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusZeroRowsIsConflict(t *testing.T) {
	repo, mock := newBookingTestRepo(t)
	b := testBooking()
	b.ID = 42
	b.Status = domain.BookingStatusConfirmed

	mock.ExpectExec(`UPDATE bookings SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), b, domain.BookingStatusPending)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, b.UpdatedOn.IsZero(), "refused update must not touch UpdatedOn")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newBookingTestRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
		WithArgs(int32(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByRenterFiltersByStatus(t *testing.T) {
	repo, mock := newBookingTestRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM bookings WHERE renter_id = \$1 AND status = \$2`).
		WithArgs(int32(1), "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int32(1)))
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE renter_id = \$1 AND status = \$2 ORDER BY created_on DESC`).
		WithArgs(int32(1), "pending", int32(20), int32(0)).
		WillReturnRows(bookingRows(now))

	bookings, total, err := repo.ListByRenter(context.Background(), 1, "pending", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Len(t, bookings, 1)
	assert.Equal(t, int32(42), bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func bookingRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "renter_id", "lender_id", "listing_id", "variant_id", "start_date", "end_date", "rental_days",
		"delivery_requested", "setup_requested",
		"item_price_cents", "addons_price_cents", "delivery_fee_cents", "setup_fee_cents", "subtotal_cents", "service_fee_cents", "total_price_cents",
		"status", "cancellation_reason", "cancelled_at", "completed_at", "payment_status", "payment_ref", "created_on", "updated_on",
	}).AddRow(
		int32(42), int32(1), int32(2), int32(10), nil, now, now.AddDate(0, 0, 3), int32(3),
		false, false,
		int64(30000), int64(0), int64(0), int64(0), int64(30000), int64(3000), int64(33000),
		"pending", "", nil, nil, "unpaid", "", now, now,
	)
}

func TestGetAddOns(t *testing.T) {
	repo, mock := newBookingTestRepo(t)

	mock.ExpectQuery(`SELECT id, booking_id, addon_id, price_cents FROM booking_add_ons`).
		WithArgs(int32(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "addon_id", "price_cents"}).
			AddRow(int32(1), int32(42), int32(5), int64(1500)).
			AddRow(int32(2), int32(42), int32(6), int64(1000)))

	links, err := repo.GetAddOns(context.Background(), 42)
	assert.NoError(t, err)
	assert.Len(t, links, 2)
	assert.Equal(t, int64(1500), links[0].PriceCents)
}
