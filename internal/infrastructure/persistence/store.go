package persistence

import "context"

// Store is the persisted key-value port every collection serializes
// into. Values are whole serialized collections; there are no partial
// or field-level writes and no transactional guarantees across keys.
type Store interface {
	// Get returns the value under key and whether one is present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the value under key
	Set(ctx context.Context, key, value string) error

	// Remove deletes the value under key. Removing an absent key is
	// not an error.
	Remove(ctx context.Context, key string) error
}

// Collection keys. Each logical collection is one independently
// serialized value plus a companion last-updated timestamp.
const (
	KeyCustomers  = "customers"
	KeyProcesses  = "processes"
	KeyMaterials  = "materials"
	KeyQuotations = "quotations"
	KeyInvoices   = "invoices"
	KeyOrders     = "orders"
	KeyDraft      = "draft_workspace"

	KeyNextQuotationNumber = "next_quotation_number"
	KeyNextInvoiceNumber   = "next_invoice_number"
	KeyNextOrderNumber     = "next_order_number"
)

// LastUpdatedKey returns the companion timestamp key for a collection
func LastUpdatedKey(key string) string {
	return key + "_last_updated"
}
