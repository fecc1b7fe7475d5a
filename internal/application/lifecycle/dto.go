package lifecycle

import (
	"github.com/google/uuid"
)

// PromoteResponse reports the outcome of a quotation promotion. The
// three steps are not transactional; the flags tell the operator which
// of them completed.
type PromoteResponse struct {
	InvoiceID        uuid.UUID  `json:"invoice_id"`
	InvoiceNumber    string     `json:"invoice_number"`
	QuotationDeleted bool       `json:"quotation_deleted"`
	OrderID          *uuid.UUID `json:"order_id,omitempty"`
	OrderNumber      string     `json:"order_number,omitempty"`
	OrderCreated     bool       `json:"order_created"`
}

// ConsistencyIssue is one finding of the consistency sweep
type ConsistencyIssue struct {
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Detail        string    `json:"detail"`
}

// ConsistencyReport lists documents left behind by interrupted
// promotions or deletions. Read-only; nothing is repaired.
type ConsistencyReport struct {
	UnconsumedQuotations []ConsistencyIssue `json:"unconsumed_quotations"`
	InvoicesWithoutOrder []ConsistencyIssue `json:"invoices_without_order"`
	Clean                bool               `json:"clean"`
}
