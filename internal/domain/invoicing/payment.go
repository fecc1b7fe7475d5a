package invoicing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/shared"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque,
		PaymentMethodUPI, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is one payment recorded against an invoice. It is a value
// object within the Invoice aggregate; the list order is insertion
// order for display, the sum is commutative.
type Payment struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Method     PaymentMethod   `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	Note       string          `json:"note,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// NewPayment creates a payment record with a generated id and
// recording timestamp. Amount validation against the invoice balance
// happens on the aggregate.
func NewPayment(amount decimal.Decimal, date time.Time, method PaymentMethod, reference, note string) (Payment, error) {
	if !amount.IsPositive() {
		return Payment{}, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return Payment{}, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	if date.IsZero() {
		date = time.Now()
	}
	return Payment{
		ID:         uuid.New(),
		Amount:     amount,
		Date:       date,
		Method:     method,
		Reference:  strings.TrimSpace(reference),
		Note:       note,
		RecordedAt: time.Now(),
	}, nil
}
