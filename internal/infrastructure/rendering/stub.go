// Package rendering provides document rendering implementations for
// the printing workflow.
package rendering

import (
	"context"
	"fmt"
	"strings"

	printingapp "github.com/fabshop/backend/internal/application/printing"
)

// StubRenderer is a placeholder implementation of the rendering
// provider. It lays the payload out as plain text so the print flow
// is exercisable end to end. Use this until a real layout engine is
// wired in.
type StubRenderer struct{}

// NewStubRenderer creates a new StubRenderer
func NewStubRenderer() *StubRenderer {
	return &StubRenderer{}
}

// Ensure StubRenderer implements the printing renderer port
var _ printingapp.Renderer = (*StubRenderer)(nil)

// Render lays the payload out as plain text
func (r *StubRenderer) Render(_ context.Context, payload printingapp.RenderPayload) (*printingapp.Artifact, error) {
	if payload.Number == "" {
		return nil, fmt.Errorf("render payload has no document number")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", payload.Title, payload.Number)
	fmt.Fprintf(&b, "Issued: %s\n", payload.IssuedOn.Format("02 Jan 2006"))
	if payload.Status != "" {
		fmt.Fprintf(&b, "Status: %s\n", payload.Status)
	}

	fmt.Fprintf(&b, "\nCustomer: %s", payload.Customer.Name)
	if payload.Customer.Placeholder {
		b.WriteString(" (record unavailable)")
	}
	b.WriteString("\n")
	if payload.Customer.City != "" {
		fmt.Fprintf(&b, "%s, %s %s\n", payload.Customer.Street, payload.Customer.City, payload.Customer.PostalCode)
	}

	b.WriteString("\n")
	for _, line := range payload.Lines {
		fmt.Fprintf(&b, "%3d  %-30s  x%d", line.Serial, line.Name, line.Quantity)
		if line.MaterialName != "" {
			fmt.Fprintf(&b, "  %s / %s", line.ProcessName, line.MaterialName)
		}
		if !line.LineTotal.IsZero() {
			fmt.Fprintf(&b, "  %s", line.LineTotal.StringFixed(2))
		}
		b.WriteString("\n")
	}

	for _, charge := range payload.Charges {
		fmt.Fprintf(&b, "     %-30s  %s\n", charge.Description, charge.Amount.StringFixed(2))
	}

	if payload.Totals != nil {
		t := payload.Totals
		fmt.Fprintf(&b, "\nBase: %s  Tax (%s): %s  Total: %s\n",
			t.BaseAmount.StringFixed(2), t.TaxMode, t.TaxTotal.StringFixed(2), t.FinalPrice.StringFixed(2))
	}

	if len(payload.Payments) > 0 {
		fmt.Fprintf(&b, "\nPaid: %s  Remaining: %s\n",
			payload.TotalPaid.StringFixed(2), payload.Remaining.StringFixed(2))
	}

	if payload.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", payload.Notes)
	}

	return &printingapp.Artifact{
		Filename: fmt.Sprintf("%s.txt", payload.Number),
		MIMEType: "text/plain; charset=utf-8",
		Content:  []byte(b.String()),
	}, nil
}
