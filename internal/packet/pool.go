package packet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pool is the undistributed remainder of a red packet.
// It is mutated in place by Engine.AllocateNext and is not safe for
// concurrent use.
type Pool struct {
	amount     decimal.Decimal
	recipients int
}

// NewPool validates and creates a pool of amount split among recipients.
func NewPool(amount decimal.Decimal, recipients int) (*Pool, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidPool, amount)
	}
	if recipients <= 0 {
		return nil, fmt.Errorf("%w: recipients must be positive, got %d", ErrInvalidPool, recipients)
	}
	return &Pool{amount: amount, recipients: recipients}, nil
}

// Remaining returns the amount not yet handed out.
func (p *Pool) Remaining() decimal.Decimal { return p.amount }

// RemainingRecipients returns how many recipients are still unpaid.
func (p *Pool) RemainingRecipients() int { return p.recipients }

// Exhausted reports whether the last recipient has been paid.
func (p *Pool) Exhausted() bool { return p.recipients <= 0 }

func (p *Pool) String() string {
	return fmt.Sprintf("pool{amount=%s, recipients=%d}", p.amount.StringFixed(2), p.recipients)
}
