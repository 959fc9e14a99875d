package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	supplierCodePrefix = "SUP-"
	customerCodePrefix = "CUST-"
)

// partyBooks creates, renames and retires the Due By / Due To pair of a supplier or customer
type partyBooks struct {
	transactor repository.Transactor
	ledgerRepo repository.LedgerRepository
	poster     *Poster
	policy     *PostingPolicy
}

// open creates both ledgers under the posting policy. Nil ledgers with a nil error mean the
// lenient policy skipped them.
func (b *partyBooks) open(ctx context.Context, partyType enum.PartyType, id uuid.UUID, name, code string, opening decimal.Decimal) (dueBy, dueTo *entity.Ledger, err error) {
	bySpec, toSpec := PartyLedgers(partyType, id, name, code, opening)
	fields := logrus.Fields{"module": "party", "party_type": string(partyType), "party_id": id.String()}

	swallowed, err := b.policy.Run(ctx, string(partyType)+"_ledgers", fields, func(ctx context.Context) error {
		var err error
		if dueBy, err = b.poster.EnsureLedger(ctx, bySpec); err != nil {
			return err
		}
		dueTo, err = b.poster.EnsureLedger(ctx, toSpec)
		return err
	})
	if err != nil || swallowed != nil {
		return nil, nil, err
	}
	return dueBy, dueTo, nil
}

func (b *partyBooks) rename(ctx context.Context, dueByID, dueToID *uuid.UUID, name, code string) error {
	label := PartyLedgerLabel(name, code)
	if dueByID != nil {
		if err := b.ledgerRepo.Rename(ctx, *dueByID, label+" - Due By"); err != nil {
			return err
		}
	}
	if dueToID != nil {
		if err := b.ledgerRepo.Rename(ctx, *dueToID, label+" - Due To"); err != nil {
			return err
		}
	}
	return nil
}

// retire deletes the party's ledgers, refusing while any voucher touches them
func (b *partyBooks) retire(ctx context.Context, ids ...*uuid.UUID) error {
	for _, id := range ids {
		if id == nil {
			continue
		}
		used, err := b.ledgerRepo.HasEntries(ctx, *id)
		if err != nil {
			return err
		}
		if used {
			return apperror.NewConflictError("Party has posted vouchers and cannot be deleted")
		}
	}
	for _, id := range ids {
		if id == nil {
			continue
		}
		if err := b.ledgerRepo.Delete(ctx, *id); err != nil {
			return err
		}
	}
	return nil
}

// SupplierService handles supplier-related operations
type SupplierService struct {
	transactor   repository.Transactor
	supplierRepo repository.SupplierRepository
	sequences    *SequenceAllocator
	books        *partyBooks
}

// NewSupplierService creates a new supplier service
func NewSupplierService(
	transactor repository.Transactor,
	supplierRepo repository.SupplierRepository,
	ledgerRepo repository.LedgerRepository,
	sequences *SequenceAllocator,
	poster *Poster,
	policy *PostingPolicy,
) *SupplierService {
	return &SupplierService{
		transactor:   transactor,
		supplierRepo: supplierRepo,
		sequences:    sequences,
		books:        &partyBooks{transactor: transactor, ledgerRepo: ledgerRepo, poster: poster, policy: policy},
	}
}

// CreateSupplierInput represents the create supplier input
type CreateSupplierInput struct {
	SupplierCode   string
	Name           string
	Email          *string
	Phone          *string
	Address        *string
	State          string
	GSTIN          *string
	Type           enum.SupplierType
	OpeningBalance decimal.Decimal
	AccountHolder  *string
	AccountNumber  *string
	BankName       *string
}

// CreateSupplier creates a supplier with its Due By and Due To ledgers
func (s *SupplierService) CreateSupplier(ctx context.Context, input *CreateSupplierInput) (*entity.Supplier, error) {
	supplierType := input.Type
	if supplierType == "" {
		supplierType = enum.SupplierTypeMilkProducer
	}
	if !supplierType.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "type", Message: "must be milk_producer, feed_vendor or distributor"}})
	}

	code := strings.TrimSpace(input.SupplierCode)
	if code != "" {
		if err := s.sequences.Claim(ctx, repository.SupplierCodes, "Supplier code", code); err != nil {
			return nil, err
		}
	}

	var supplier *entity.Supplier
	err := withSequenceRetry(s.sequences.metrics, "supplier", func() error {
		supplierCode, release := code, func() {}
		if supplierCode == "" {
			var err error
			supplierCode, release, err = s.sequences.Acquire(ctx, repository.SupplierCodes, supplierCodePrefix, ScopeGlobal, time.Now())
			if err != nil {
				return err
			}
		}
		defer release()

		return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			supplier = &entity.Supplier{
				SupplierCode:   supplierCode,
				Name:           strings.TrimSpace(input.Name),
				Email:          input.Email,
				Phone:          input.Phone,
				Address:        input.Address,
				State:          strings.TrimSpace(input.State),
				GSTIN:          input.GSTIN,
				Type:           supplierType,
				OpeningBalance: input.OpeningBalance.Round(2),
				AccountHolder:  input.AccountHolder,
				AccountNumber:  input.AccountNumber,
				BankName:       input.BankName,
			}
			if err := s.supplierRepo.Create(ctx, supplier); err != nil {
				return err
			}

			dueBy, dueTo, err := s.books.open(ctx, enum.PartySupplier, supplier.ID, supplier.Name, supplier.SupplierCode, supplier.OpeningBalance)
			if err != nil {
				return err
			}
			if dueBy == nil {
				return nil
			}
			supplier.DueByLedgerID = &dueBy.ID
			supplier.DueToLedgerID = &dueTo.ID
			return s.supplierRepo.Update(ctx, supplier)
		})
	})
	if err != nil {
		return nil, err
	}

	return s.supplierRepo.GetByID(ctx, supplier.ID)
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers lists suppliers
func (s *SupplierService) ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(suppliers, params, total), nil
}

// NextCode previews the code the next supplier would get
func (s *SupplierService) NextCode(ctx context.Context) (string, error) {
	return s.sequences.NextID(ctx, repository.SupplierCodes, supplierCodePrefix, ScopeGlobal, time.Now())
}

// UpdateSupplierInput represents the update supplier input. The opening balance is fixed at creation.
type UpdateSupplierInput struct {
	ID            uuid.UUID
	Name          *string
	Email         *string
	Phone         *string
	Address       *string
	State         *string
	GSTIN         *string
	Type          *enum.SupplierType
	AccountHolder *string
	AccountNumber *string
	BankName      *string
}

// UpdateSupplier updates a supplier and keeps its ledger names in step
func (s *SupplierService) UpdateSupplier(ctx context.Context, input *UpdateSupplierInput) (*entity.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	renamed := false
	if input.Name != nil && strings.TrimSpace(*input.Name) != supplier.Name {
		supplier.Name = strings.TrimSpace(*input.Name)
		renamed = true
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "type", Message: "must be milk_producer, feed_vendor or distributor"}})
		}
		supplier.Type = *input.Type
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.State != nil {
		supplier.State = strings.TrimSpace(*input.State)
	}
	if input.GSTIN != nil {
		supplier.GSTIN = input.GSTIN
	}
	if input.AccountHolder != nil {
		supplier.AccountHolder = input.AccountHolder
	}
	if input.AccountNumber != nil {
		supplier.AccountNumber = input.AccountNumber
	}
	if input.BankName != nil {
		supplier.BankName = input.BankName
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.supplierRepo.Update(ctx, supplier); err != nil {
			return err
		}
		if !renamed {
			return nil
		}
		return s.books.rename(ctx, supplier.DueByLedgerID, supplier.DueToLedgerID, supplier.Name, supplier.SupplierCode)
	})
	if err != nil {
		return nil, err
	}

	return s.supplierRepo.GetByID(ctx, supplier.ID)
}

// DeleteSupplier deletes a supplier whose ledgers carry no vouchers
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return err
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.books.retire(ctx, supplier.DueByLedgerID, supplier.DueToLedgerID); err != nil {
			return err
		}
		return s.supplierRepo.Delete(ctx, id)
	})
}

// CustomerService handles customer-related operations
type CustomerService struct {
	transactor   repository.Transactor
	customerRepo repository.CustomerRepository
	sequences    *SequenceAllocator
	books        *partyBooks
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	transactor repository.Transactor,
	customerRepo repository.CustomerRepository,
	ledgerRepo repository.LedgerRepository,
	sequences *SequenceAllocator,
	poster *Poster,
	policy *PostingPolicy,
) *CustomerService {
	return &CustomerService{
		transactor:   transactor,
		customerRepo: customerRepo,
		sequences:    sequences,
		books:        &partyBooks{transactor: transactor, ledgerRepo: ledgerRepo, poster: poster, policy: policy},
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	CustomerCode   string
	Name           string
	Email          *string
	Phone          *string
	Address        *string
	State          string
	GSTIN          *string
	OpeningBalance decimal.Decimal
}

// CreateCustomer creates a customer with its Due By and Due To ledgers
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	code := strings.TrimSpace(input.CustomerCode)
	if code != "" {
		if err := s.sequences.Claim(ctx, repository.CustomerCodes, "Customer code", code); err != nil {
			return nil, err
		}
	}

	var customer *entity.Customer
	err := withSequenceRetry(s.sequences.metrics, "customer", func() error {
		customerCode, release := code, func() {}
		if customerCode == "" {
			var err error
			customerCode, release, err = s.sequences.Acquire(ctx, repository.CustomerCodes, customerCodePrefix, ScopeGlobal, time.Now())
			if err != nil {
				return err
			}
		}
		defer release()

		return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			customer = &entity.Customer{
				CustomerCode:   customerCode,
				Name:           strings.TrimSpace(input.Name),
				Email:          input.Email,
				Phone:          input.Phone,
				Address:        input.Address,
				State:          strings.TrimSpace(input.State),
				GSTIN:          input.GSTIN,
				OpeningBalance: input.OpeningBalance.Round(2),
			}
			if err := s.customerRepo.Create(ctx, customer); err != nil {
				return err
			}

			dueBy, dueTo, err := s.books.open(ctx, enum.PartyCustomer, customer.ID, customer.Name, customer.CustomerCode, customer.OpeningBalance)
			if err != nil {
				return err
			}
			if dueBy == nil {
				return nil
			}
			customer.DueByLedgerID = &dueBy.ID
			customer.DueToLedgerID = &dueTo.ID
			return s.customerRepo.Update(ctx, customer)
		})
	})
	if err != nil {
		return nil, err
	}

	return s.customerRepo.GetByID(ctx, customer.ID)
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(customers, params, total), nil
}

// NextCode previews the code the next customer would get
func (s *CustomerService) NextCode(ctx context.Context) (string, error) {
	return s.sequences.NextID(ctx, repository.CustomerCodes, customerCodePrefix, ScopeGlobal, time.Now())
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID      uuid.UUID
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	State   *string
	GSTIN   *string
}

// UpdateCustomer updates a customer and keeps its ledger names in step
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	renamed := false
	if input.Name != nil && strings.TrimSpace(*input.Name) != customer.Name {
		customer.Name = strings.TrimSpace(*input.Name)
		renamed = true
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.State != nil {
		customer.State = strings.TrimSpace(*input.State)
	}
	if input.GSTIN != nil {
		customer.GSTIN = input.GSTIN
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.customerRepo.Update(ctx, customer); err != nil {
			return err
		}
		if !renamed {
			return nil
		}
		return s.books.rename(ctx, customer.DueByLedgerID, customer.DueToLedgerID, customer.Name, customer.CustomerCode)
	})
	if err != nil {
		return nil, err
	}

	return s.customerRepo.GetByID(ctx, customer.ID)
}

// DeleteCustomer deletes a customer whose ledgers carry no vouchers
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.books.retire(ctx, customer.DueByLedgerID, customer.DueToLedgerID); err != nil {
			return err
		}
		return s.customerRepo.Delete(ctx, id)
	})
}
