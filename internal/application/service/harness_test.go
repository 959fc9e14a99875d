package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/config"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	domainRepo "github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/internal/infrastructure/repository"
	"github.com/sangkips/dairy-coop-api/internal/testutil"
	"github.com/sangkips/dairy-coop-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const homeState = "Tamil Nadu"

type harness struct {
	db  *gorm.DB
	ctx context.Context

	itemRepo    domainRepo.ItemRepository
	ledgerRepo  domainRepo.LedgerRepository
	voucherRepo domainRepo.VoucherRepository
	stockRepo   domainRepo.StockTransactionRepository

	sequences *service.SequenceAllocator
	stock     *service.StockLedger
	composer  *service.Composer
	poster    *service.Poster

	categories *service.CategoryService
	items      *service.ItemService
	suppliers  *service.SupplierService
	customers  *service.CustomerService
	purchases  *service.PurchaseService
	sales      *service.SalesService
	ledgers    *service.LedgerService
	reports    *service.ReportService
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithPolicy(t, config.VoucherPolicyLenient)
}

func newHarnessWithPolicy(t *testing.T, mode config.VoucherFailurePolicy) *harness {
	t.Helper()
	return newHarnessOn(t, testutil.NewDB(t), mode)
}

func newHarnessOn(t *testing.T, db *gorm.DB, mode config.VoucherFailurePolicy) *harness {
	t.Helper()
	log := logger.Discard()

	transactor := repository.NewTransactor(db)
	categoryRepo := repository.NewCategoryRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	itemRepo := repository.NewItemRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	stockRepo := repository.NewStockTransactionRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	salesRepo := repository.NewSalesTransactionRepository(db)
	reportRepo := repository.NewReportRepository(db)

	sequences := service.NewSequenceAllocator(repository.NewSequenceRepository(db), nil, log, nil)
	stock := service.NewStockLedger(transactor, itemRepo, stockRepo, log, nil)
	composer := service.NewComposer(itemRepo, homeState)
	poster := service.NewPoster(transactor, ledgerRepo, voucherRepo, sequences, log, nil)
	policy := service.NewPostingPolicy(mode, transactor, log, nil)

	return &harness{
		db:          db,
		ctx:         context.Background(),
		itemRepo:    itemRepo,
		ledgerRepo:  ledgerRepo,
		voucherRepo: voucherRepo,
		stockRepo:   stockRepo,
		sequences:   sequences,
		stock:       stock,
		composer:    composer,
		poster:      poster,
		categories:  service.NewCategoryService(categoryRepo, itemRepo),
		items:       service.NewItemService(transactor, itemRepo, categoryRepo, unitRepo, stockRepo, stock, poster, sequences),
		suppliers:   service.NewSupplierService(transactor, supplierRepo, ledgerRepo, sequences, poster, policy),
		customers:   service.NewCustomerService(transactor, customerRepo, ledgerRepo, sequences, poster, policy),
		purchases:   service.NewPurchaseService(transactor, purchaseRepo, supplierRepo, itemRepo, stockRepo, composer, stock, poster, sequences, policy),
		sales:       service.NewSalesService(transactor, salesRepo, customerRepo, stockRepo, voucherRepo, composer, stock, poster, sequences),
		ledgers:     service.NewLedgerService(ledgerRepo, voucherRepo, poster),
		reports:     service.NewReportService(ledgerRepo, reportRepo, stock),
	}
}

// newItem creates a Milk item priced at rate with 12% GST and the given opening stock
func (h *harness) newItem(t *testing.T, name, rate, opening string) *entity.Item {
	t.Helper()
	category := h.category(t, "Milk")
	item, err := h.items.CreateItem(h.ctx, &service.CreateItemInput{
		Name:          name,
		CategoryID:    &category.ID,
		PurchasePrice: testutil.Dec(t, rate),
		SalePrice:     testutil.Dec(t, rate),
		TaxRate:       testutil.Dec(t, "12"),
		OpeningStock:  testutil.Dec(t, opening),
	})
	require.NoError(t, err)
	return item
}

func (h *harness) category(t *testing.T, name string) *entity.Category {
	t.Helper()
	var existing entity.Category
	if err := h.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return &existing
	}
	category, err := h.categories.CreateCategory(h.ctx, name)
	require.NoError(t, err)
	return category
}

func (h *harness) balance(t *testing.T, itemID uuid.UUID) decimal.Decimal {
	t.Helper()
	item, err := h.itemRepo.GetByID(h.ctx, itemID)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.CurrentBalance
}

func (h *harness) ledger(t *testing.T, id uuid.UUID) *entity.Ledger {
	t.Helper()
	ledger, err := h.ledgerRepo.GetByID(h.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ledger)
	return ledger
}

func (h *harness) systemLedger(t *testing.T, name string, ledgerType enum.LedgerType) *entity.Ledger {
	t.Helper()
	ledger, err := h.poster.EnsureLedger(h.ctx, service.SystemLedger(name, ledgerType))
	require.NoError(t, err)
	return ledger
}

func (h *harness) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

// assertBalanced checks that a voucher's debits equal its credits
func assertBalanced(t *testing.T, voucher *entity.Voucher) {
	t.Helper()
	require.NotNil(t, voucher)
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range voucher.Entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	require.Truef(t, debit.Equal(credit), "voucher %s unbalanced: debit %s credit %s", voucher.VoucherNumber, debit, credit)
	testutil.AssertDecimal(t, voucher.TotalAmount.String(), debit)
}
