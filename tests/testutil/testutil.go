// Package testutil provides shared fixtures for the integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/app"
	catalogapp "github.com/fabshop/backend/internal/application/catalog"
	partnerapp "github.com/fabshop/backend/internal/application/partner"
	quotingapp "github.com/fabshop/backend/internal/application/quoting"
	"github.com/fabshop/backend/internal/infrastructure/config"
)

// TestConfig returns an engine configuration backed by the memory store
func TestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:             "fabshop",
			Env:              "test",
			HomeJurisdiction: "Maharashtra",
			Currency:         "INR",
		},
		Store: config.StoreConfig{Driver: "memory"},
		Tax:   config.TaxConfig{CombinedRate: 18, SplitRate: 9},
		Draft: config.DraftConfig{TTL: 24 * time.Hour},
		Numbering: config.NumberingConfig{
			QuotationPrefix: "QTN",
			InvoicePrefix:   "INV",
			OrderPrefix:     "ORD",
			SerialWidth:     4,
		},
	}
}

// NewEngine assembles the engine over the memory store and tears it
// down with the test
func NewEngine(t *testing.T) *app.App {
	t.Helper()

	engine, err := app.New(TestConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = engine.Close()
	})
	return engine
}

// SeedCatalog registers one process with one material and returns both
func SeedCatalog(t *testing.T, engine *app.App, rate decimal.Decimal) (*catalogapp.ProcessResponse, *catalogapp.MaterialResponse) {
	t.Helper()
	ctx := context.Background()

	process, err := engine.Catalog.CreateProcess(ctx, catalogapp.CreateProcessRequest{
		Name: "CNC Milling",
	})
	require.NoError(t, err)

	material, err := engine.Catalog.CreateMaterial(ctx, catalogapp.CreateMaterialRequest{
		ProcessID: process.ID,
		Name:      "Aluminium 6061",
		Rate:      rate,
	})
	require.NoError(t, err)

	return process, material
}

// SeedCustomer registers a customer shipping into the given jurisdiction
func SeedCustomer(t *testing.T, engine *app.App, name, jurisdiction, paymentTerms string) *partnerapp.CustomerResponse {
	t.Helper()

	customer, err := engine.Customers.Create(context.Background(), partnerapp.CreateCustomerRequest{
		Name: name,
		ShippingAddress: partnerapp.AddressInput{
			Street:       "14 MIDC Industrial Area",
			City:         "Pune",
			Jurisdiction: jurisdiction,
		},
		PaymentTerms: paymentTerms,
	})
	require.NoError(t, err)
	return customer
}

// BuildQuotation drives the draft workspace to a saved quotation with
// one priced part of the given volume and quantity
func BuildQuotation(t *testing.T, engine *app.App, customer *partnerapp.CustomerResponse, material *catalogapp.MaterialResponse, volume decimal.Decimal, quantity int) *quotingapp.QuotationResponse {
	t.Helper()
	ctx := context.Background()

	_, err := engine.Quoting.UpdateDraft(ctx, quotingapp.UpdateDraftRequest{CustomerID: &customer.ID})
	require.NoError(t, err)

	draft, err := engine.Quoting.AddManualPart(ctx, quotingapp.AddManualPartRequest{
		Name:     "Bracket",
		Volume:   volume,
		Quantity: quantity,
	})
	require.NoError(t, err)

	_, err = engine.Quoting.UpdatePart(ctx, quotingapp.UpdatePartRequest{
		PartID:     draft.Parts[0].ID,
		MaterialID: &material.ID,
	})
	require.NoError(t, err)

	quotation, err := engine.Quoting.SaveQuotation(ctx)
	require.NoError(t, err)
	return quotation
}
