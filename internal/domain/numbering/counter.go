package numbering

import (
	"fmt"
	"strings"
	"time"

	"github.com/fabshop/backend/internal/domain/shared"
)

// Family identifies an independent document numbering sequence.
// Families never share counters, so sequences never interleave.
type Family string

const (
	FamilyQuotation Family = "quotation"
	FamilyInvoice   Family = "invoice"
	FamilyOrder     Family = "order"
)

// IsValid checks if the family is valid
func (f Family) IsValid() bool {
	switch f {
	case FamilyQuotation, FamilyInvoice, FamilyOrder:
		return true
	}
	return false
}

// String returns the string representation
func (f Family) String() string {
	return string(f)
}

// Counter is the persisted numbering state of one document family.
// Serial is the next serial to issue. The counter only ever advances,
// so issued numbers are never reused even when a document is deleted.
type Counter struct {
	Serial int `json:"serial"`
}

// NewCounter returns the initial counter state
func NewCounter() Counter {
	return Counter{Serial: 1}
}

// Advanced returns the counter state after one issuance
func (c Counter) Advanced() Counter {
	return Counter{Serial: c.normalized() + 1}
}

func (c Counter) normalized() int {
	if c.Serial < 1 {
		return 1
	}
	return c.Serial
}

// Generator formats sequential, date-encoded document numbers for one
// family. It is pure: the caller owns persistence of the advanced
// counter state.
type Generator struct {
	prefix string
	width  int
}

// NewGenerator creates a generator with the given prefix and serial width
func NewGenerator(prefix string, serialWidth int) (*Generator, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, shared.NewDomainError("INVALID_PREFIX", "Number prefix cannot be empty")
	}
	if serialWidth < 1 {
		return nil, shared.NewDomainError("INVALID_SERIAL_WIDTH", "Serial width must be at least 1")
	}
	return &Generator{prefix: prefix, width: serialWidth}, nil
}

// Prefix returns the configured prefix
func (g *Generator) Prefix() string {
	return g.prefix
}

// Next issues the human-readable number for the counter's current
// serial and returns the advanced counter state. The calendar portion
// encodes the moment of generation as YYMMDD; the serial increments by
// exactly one per call regardless of the date.
func (g *Generator) Next(counter Counter, now time.Time) (string, Counter) {
	serial := counter.normalized()
	number := fmt.Sprintf("%s-%s-%0*d", g.prefix, now.Format("060102"), g.width, serial)
	return number, Counter{Serial: serial + 1}
}
