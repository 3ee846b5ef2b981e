package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, renter_id, lender_id, listing_id, variant_id, start_date, end_date, rental_days,
	delivery_requested, setup_requested,
	item_price_cents, addons_price_cents, delivery_fee_cents, setup_fee_cents, subtotal_cents, service_fee_cents, total_price_cents,
	status, cancellation_reason, cancelled_at, completed_at, payment_status, payment_ref, created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.RenterID, &b.LenderID, &b.ListingID, &b.VariantID, &b.StartDate, &b.EndDate, &b.RentalDays,
		&b.DeliveryRequested, &b.SetupRequested,
		&b.ItemPriceCents, &b.AddOnsPriceCents, &b.DeliveryFeeCents, &b.SetupFeeCents, &b.SubtotalCents, &b.ServiceFeeCents, &b.TotalPriceCents,
		&b.Status, &b.CancellationReason, &b.CancelledAt, &b.CompletedAt, &b.PaymentStatus, &b.PaymentRef, &b.CreatedOn, &b.UpdatedOn)
}

// CreateWithAddOns inserts the booking and its add-on links in one
// transaction: either the whole booking lands or none of it does.
func (r *bookingRepository) CreateWithAddOns(ctx context.Context, b *domain.Booking, addons []domain.ListingAddOn) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err)
	}
	defer tx.Rollback()

	now := time.Now()
	query := `INSERT INTO bookings (renter_id, lender_id, listing_id, variant_id, start_date, end_date, rental_days,
		delivery_requested, setup_requested,
		item_price_cents, addons_price_cents, delivery_fee_cents, setup_fee_cents, subtotal_cents, service_fee_cents, total_price_cents,
		status, payment_status, created_on, updated_on)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		b.RenterID, b.LenderID, b.ListingID, b.VariantID, b.StartDate, b.EndDate, b.RentalDays,
		b.DeliveryRequested, b.SetupRequested,
		b.ItemPriceCents, b.AddOnsPriceCents, b.DeliveryFeeCents, b.SetupFeeCents, b.SubtotalCents, b.ServiceFeeCents, b.TotalPriceCents,
		b.Status, b.PaymentStatus, now, now,
	).Scan(&b.ID)
	if err != nil {
		return mapError(err)
	}

	for _, a := range addons {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO booking_add_ons (booking_id, addon_id, price_cents) VALUES ($1, $2, $3)`,
			b.ID, a.ID, a.PriceCents)
		if err != nil {
			return mapError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mapError(err)
	}
	b.CreatedOn = now
	b.UpdatedOn = now
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := scanBooking(r.db.QueryRowContext(ctx, query, id), b); err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

// UpdateStatus is conditional on the status the caller read before
// validating the transition. When a concurrent request already moved the
// booking the predicate matches zero rows and the update is refused.
func (r *bookingRepository) UpdateStatus(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) error {
	now := time.Now()
	query := `UPDATE bookings SET status=$1, cancellation_reason=$2, cancelled_at=$3, completed_at=$4, updated_on=$5
	          WHERE id=$6 AND status=$7`
	res, err := r.db.ExecContext(ctx, query, b.Status, b.CancellationReason, b.CancelledAt, b.CompletedAt, now, b.ID, expected)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: booking %d no longer in status %s", domain.ErrConflict, b.ID, expected)
	}
	b.UpdatedOn = now
	return nil
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, bookingID int32, status domain.PaymentStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bookings SET payment_status=$1, updated_on=$2 WHERE id=$3`, status, time.Now(), bookingID)
	return mapError(err)
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *bookingRepository) ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "lender_id", lenderID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, column string, userID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	where := `WHERE ` + column + ` = $1`
	args := []any{userID}
	argIdx := 2
	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM bookings `+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings ` + where +
		fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListActiveEndedBefore(ctx context.Context, cutoff string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND end_date < $2`
	return r.listPlain(ctx, query, domain.BookingStatusActive, cutoff)
}

func (r *bookingRepository) ListConfirmedStartingOn(ctx context.Context, date string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND start_date = $2`
	return r.listPlain(ctx, query, domain.BookingStatusConfirmed, date)
}

func (r *bookingRepository) listPlain(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) GetAddOns(ctx context.Context, bookingID int32) ([]domain.BookingAddOn, error) {
	query := `SELECT id, booking_id, addon_id, price_cents FROM booking_add_ons WHERE booking_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var links []domain.BookingAddOn
	for rows.Next() {
		var l domain.BookingAddOn
		if err := rows.Scan(&l.ID, &l.BookingID, &l.AddOnID, &l.PriceCents); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
