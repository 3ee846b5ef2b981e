package payments

import "context"

// RefundRequest asks the processor to refund a captured payment.
// AmountCents of 0 means a full refund of the original charge.
type RefundRequest struct {
	PaymentRef  string
	AmountCents int64
}

type RefundResult struct {
	ID          string
	AmountCents int64
	Status      string
}

// AccountStatus reports the capability flags of a lender payout account.
type AccountStatus struct {
	AccountID      string
	ChargesEnabled bool
	PayoutsEnabled bool
}

// Processor is the payment processor collaborator. All money movement is
// delegated to it; the engine never touches card data.
type Processor interface {
	CreateAccount(ctx context.Context, email string) (string, error)
	GetAccountStatus(ctx context.Context, accountID string) (*AccountStatus, error)
	CreateRefund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}
