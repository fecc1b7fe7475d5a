package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/partner"
	"github.com/fabshop/backend/internal/domain/shared"
)

// CustomerRepository persists the customer registry as one serialized
// collection
type CustomerRepository struct {
	customers *collection[partner.Customer]
}

// NewCustomerRepository creates a customer repository over the store
func NewCustomerRepository(store Store, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		customers: newCollection[partner.Customer](store, KeyCustomers, logger),
	}
}

// FindByID finds a customer by its ID
func (r *CustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	for _, c := range r.customers.load(ctx) {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns every customer in the registry
func (r *CustomerRepository) FindAll(ctx context.Context) ([]partner.Customer, error) {
	items := r.customers.load(ctx)
	result := make([]partner.Customer, len(items))
	copy(result, items)
	return result, nil
}

// ExistsByName checks whether a customer with the given name exists,
// compared case-insensitively
func (r *CustomerRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, c := range r.customers.load(ctx) {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// Save creates or updates a customer
func (r *CustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.customers.mutate(ctx, func(items []partner.Customer) ([]partner.Customer, error) {
		for i := range items {
			if items[i].ID == customer.ID {
				items[i] = *customer
				return items, nil
			}
		}
		return append(items, *customer), nil
	})
}

// Delete deletes a customer
func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.customers.mutate(ctx, func(items []partner.Customer) ([]partner.Customer, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, shared.ErrNotFound
	})
}

var _ partner.CustomerRepository = (*CustomerRepository)(nil)
