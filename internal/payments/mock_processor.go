package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockProcessor is an in-memory processor for development and tests. It
// accepts every account and refund request and remembers what it issued.
type MockProcessor struct {
	mu       sync.Mutex
	accounts map[string]*AccountStatus
	refunds  map[string][]RefundResult // keyed by payment ref
}

func NewMockProcessor() *MockProcessor {
	return &MockProcessor{
		accounts: make(map[string]*AccountStatus),
		refunds:  make(map[string][]RefundResult),
	}
}

func (p *MockProcessor) CreateAccount(ctx context.Context, email string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := "acct_" + uuid.NewString()
	p.accounts[id] = &AccountStatus{
		AccountID:      id,
		ChargesEnabled: true,
		PayoutsEnabled: true,
	}
	return id, nil
}

func (p *MockProcessor) GetAccountStatus(ctx context.Context, accountID string) (*AccountStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("unknown account %q", accountID)
	}
	cp := *st
	return &cp, nil
}

func (p *MockProcessor) CreateRefund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	if req.PaymentRef == "" {
		return nil, fmt.Errorf("payment reference is required")
	}
	if req.AmountCents < 0 {
		return nil, fmt.Errorf("refund amount must not be negative")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	res := RefundResult{
		ID:          "re_" + uuid.NewString(),
		AmountCents: req.AmountCents,
		Status:      "succeeded",
	}
	p.refunds[req.PaymentRef] = append(p.refunds[req.PaymentRef], res)
	return &res, nil
}

// Refunds returns the refunds recorded against a payment reference.
func (p *MockProcessor) Refunds(paymentRef string) []RefundResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RefundResult(nil), p.refunds[paymentRef]...)
}
