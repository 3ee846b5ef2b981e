package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusUnpaid            PaymentStatus = "unpaid"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// Refund records one refund issued against a booking's payment.
type Refund struct {
	ID           int32     `json:"id"`
	BookingID    int32     `json:"booking_id"`
	ProcessorRef string    `json:"processor_ref"`
	AmountCents  int64     `json:"amount_cents"`
	Status       string    `json:"status"`
	CreatedOn    time.Time `json:"created_on"`
}
