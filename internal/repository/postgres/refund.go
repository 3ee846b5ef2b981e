package postgres

import (
	"context"
	"database/sql"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type refundRepository struct {
	db *sql.DB
}

func NewRefundRepository(db *sql.DB) repository.RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, rf *domain.Refund) error {
	query := `INSERT INTO refunds (booking_id, processor_ref, amount_cents, status, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rf.BookingID, rf.ProcessorRef, rf.AmountCents, rf.Status, time.Now()).Scan(&rf.ID)
	return mapError(err)
}

func (r *refundRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Refund, error) {
	query := `SELECT id, booking_id, processor_ref, amount_cents, status, created_on FROM refunds WHERE booking_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var refunds []domain.Refund
	for rows.Next() {
		var rf domain.Refund
		if err := rows.Scan(&rf.ID, &rf.BookingID, &rf.ProcessorRef, &rf.AmountCents, &rf.Status, &rf.CreatedOn); err != nil {
			return nil, err
		}
		refunds = append(refunds, rf)
	}
	return refunds, rows.Err()
}
