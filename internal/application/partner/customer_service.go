package partner

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/partner"
	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

var validate = validator.New()

// CustomerService handles customer registry operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	exists, err := s.customerRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this name already exists")
	}

	shipping, err := toAddress(req.ShippingAddress)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	customer, err := partner.NewCustomer(req.Name, shipping)
	if err != nil {
		return nil, err
	}

	if req.BillingAddress != nil {
		billing, err := toAddress(*req.BillingAddress)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
		}
		if err := customer.SetAddresses(billing, shipping); err != nil {
			return nil, err
		}
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := customer.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}

	if req.DiscountPercent != nil {
		if err := customer.SetDiscountPercent(*req.DiscountPercent); err != nil {
			return nil, err
		}
	}

	if req.PaymentTerms != "" {
		if err := customer.SetPaymentTerms(req.PaymentTerms); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)
	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("name", customer.Name),
	)

	return toCustomerResponse(customer), nil
}

// Update updates an existing customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != customer.Name {
		exists, err := s.customerRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this name already exists")
		}
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName := customer.ContactName
		phone := customer.Phone
		email := customer.Email
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := customer.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}

	if req.ShippingAddress != nil || req.BillingAddress != nil {
		shipping := customer.ShippingAddress
		billing := customer.BillingAddress
		if req.ShippingAddress != nil {
			if shipping, err = toAddress(*req.ShippingAddress); err != nil {
				return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
			}
		}
		if req.BillingAddress != nil {
			if billing, err = toAddress(*req.BillingAddress); err != nil {
				return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
			}
		}
		if err := customer.SetAddresses(billing, shipping); err != nil {
			return nil, err
		}
	}

	if req.DiscountPercent != nil {
		if err := customer.SetDiscountPercent(*req.DiscountPercent); err != nil {
			return nil, err
		}
	}

	if req.PaymentTerms != nil {
		if err := customer.SetPaymentTerms(*req.PaymentTerms); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	return toCustomerResponse(customer), nil
}

// Get retrieves a customer by ID
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List returns every customer in the registry
func (s *CustomerService) List(ctx context.Context) (*ListCustomersResponse, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = *toCustomerResponse(&customers[i])
	}

	return &ListCustomersResponse{Customers: responses, Total: len(responses)}, nil
}

// Delete removes a customer from the registry. Documents that
// reference the customer keep their name snapshot; printing resolves
// the gap with a placeholder.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("customer deleted",
		zap.String("customer_id", id.String()),
		zap.String("name", customer.Name),
	)

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, partner.NewCustomerDeletedEvent(customer))
	}

	return nil
}

func (s *CustomerService) publishEvents(ctx context.Context, customer *partner.Customer) {
	if s.eventPublisher == nil {
		customer.ClearDomainEvents()
		return
	}
	events := customer.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	customer.ClearDomainEvents()
}

func toAddress(input AddressInput) (valueobject.Address, error) {
	return valueobject.NewAddress(input.Street, input.City, input.Jurisdiction,
		valueobject.WithPostalCode(input.PostalCode),
		valueobject.WithCountry(input.Country),
	)
}
