package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/config"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/infrastructure/repository"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/handler"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/middleware"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/routes"
	"github.com/sangkips/dairy-coop-api/internal/testutil"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/logger"
	"github.com/sangkips/dairy-coop-api/pkg/metrics"
	"github.com/sangkips/dairy-coop-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type app struct {
	db     *gorm.DB
	router *gin.Engine
	items  *service.ItemService
	cats   *service.CategoryService
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Type    apperror.ErrorType    `json:"type"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

func newApp(t *testing.T, limiter *middleware.ClientRateLimiter) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	log := logger.Discard()
	cfg := &config.Config{App: config.AppConfig{Name: "dairy-coop-api"}}

	registry := prometheus.NewRegistry()
	m := metrics.New("dairy", registry)

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

	sequences := service.NewSequenceAllocator(repository.NewSequenceRepository(db), nil, log, m)
	stock := service.NewStockLedger(transactor, itemRepo, stockRepo, log, m)
	composer := service.NewComposer(itemRepo, "Tamil Nadu")
	poster := service.NewPoster(transactor, ledgerRepo, voucherRepo, sequences, log, m)
	policy := service.NewPostingPolicy(config.VoucherPolicyLenient, transactor, log, m)

	categories := service.NewCategoryService(categoryRepo, itemRepo)
	items := service.NewItemService(transactor, itemRepo, categoryRepo, unitRepo, stockRepo, stock, poster, sequences)
	purchases := service.NewPurchaseService(transactor, purchaseRepo, supplierRepo, itemRepo, stockRepo, composer, stock, poster, sequences, policy)
	sales := service.NewSalesService(transactor, salesRepo, customerRepo, stockRepo, voucherRepo, composer, stock, poster, sequences)
	ledgers := service.NewLedgerService(ledgerRepo, voucherRepo, poster)
	printers := service.NewPrinterService(printer.NewNullPrinter(), printer.TypeNone, printer.Width58mm,
		entity.ReceiptHeader{BusinessName: "Test Society"}, salesRepo, purchaseRepo, log)

	router := routes.Setup(&routes.Handlers{
		Item:     handler.NewItemHandler(items),
		Category: handler.NewCategoryHandler(categories),
		Unit:     handler.NewUnitHandler(service.NewUnitService(unitRepo)),
		Stock:    handler.NewStockHandler(stock, purchases),
		Sales:    handler.NewSalesHandler(sales),
		Supplier: handler.NewSupplierHandler(service.NewSupplierService(transactor, supplierRepo, ledgerRepo, sequences, poster, policy)),
		Customer: handler.NewCustomerHandler(service.NewCustomerService(transactor, customerRepo, ledgerRepo, sequences, poster, policy)),
		Ledger:   handler.NewLedgerHandler(ledgers),
		Report:   handler.NewReportHandler(service.NewReportService(ledgerRepo, repository.NewReportRepository(db), stock)),
		Printer:  handler.NewPrinterHandler(printers),
	}, &routes.Deps{
		Cfg:             cfg,
		Logger:          log,
		Metrics:         m,
		Gatherer:        registry,
		RateLimiter:     limiter,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
	})

	return &app{db: db, router: router, items: items, cats: categories}
}

// stockedItem creates an item priced at 100 with 12% GST and 50 in stock
func (a *app) stockedItem(t *testing.T) *entity.Item {
	t.Helper()
	category, err := a.cats.CreateCategory(context.Background(), "Ghee")
	require.NoError(t, err)
	item, err := a.items.CreateItem(context.Background(), &service.CreateItemInput{
		Name:          "Ghee 1kg",
		CategoryID:    &category.ID,
		PurchasePrice: testutil.Dec(t, "80"),
		SalePrice:     testutil.Dec(t, "100"),
		TaxRate:       testutil.Dec(t, "12"),
		OpeningStock:  testutil.Dec(t, "50"),
	})
	require.NoError(t, err)
	return item
}

func (a *app) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func saleBody(itemID string, quantity string) map[string]interface{} {
	return map[string]interface{}{
		"invoice_date": "2026-07-02",
		"party_name":   "Walk-in",
		"items":        []map[string]interface{}{{"item_id": itemID, "quantity": quantity}},
	}
}

// =============================================================================
// AMBIENT ROUTES
// =============================================================================

func TestHealth(t *testing.T) {
	a := newApp(t, nil)

	rec := a.do(t, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpointExposesRequestCounter(t *testing.T) {
	a := newApp(t, nil)
	a.do(t, http.MethodGet, "/health", nil, nil)

	rec := a.do(t, http.MethodGet, "/metrics", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dairy_http_requests_total")
}

// =============================================================================
// VALIDATION AND ERRORS
// =============================================================================

func TestCreateSale_ValidationErrorsUseJSONFieldNames(t *testing.T) {
	a := newApp(t, nil)

	rec := a.do(t, http.MethodPost, "/api/v1/sales", map[string]interface{}{
		"invoice_type": "Barter",
		"items":        []interface{}{},
	}, map[string]string{middleware.IdempotencyKeyHeader: "k-validation"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, apperror.TypeValidation, env.Type)
	fields := map[string]string{}
	for _, fe := range env.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be one of Sale 'Sale Return' Estimate 'Delivery Challan' Proforma", fields["invoice_type"])
	assert.Equal(t, "must contain at least 1 entries", fields["items"])
}

func TestCreateSale_InsufficientStockIsTyped(t *testing.T) {
	a := newApp(t, nil)
	item := a.stockedItem(t)

	rec := a.do(t, http.MethodPost, "/api/v1/sales", saleBody(item.ID.String(), "60"),
		map[string]string{middleware.IdempotencyKeyHeader: "k-short"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperror.TypeInsufficientStock, decode(t, rec).Type)
}

func TestCreateSale_UnknownItemIsNotFound(t *testing.T) {
	a := newApp(t, nil)

	rec := a.do(t, http.MethodPost, "/api/v1/sales", saleBody(uuid.NewString(), "1"),
		map[string]string{middleware.IdempotencyKeyHeader: "k-unknown"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, apperror.TypeNotFound, env.Type)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "items[0].item_id", env.Errors[0].Field)
}

func TestGetSale_MalformedIDIsBadRequest(t *testing.T) {
	a := newApp(t, nil)

	rec := a.do(t, http.MethodGet, "/api/v1/sales/not-a-uuid", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// IDEMPOTENCY
// =============================================================================

func TestCreateSale_RequiresIdempotencyKey(t *testing.T) {
	a := newApp(t, nil)
	item := a.stockedItem(t)

	rec := a.do(t, http.MethodPost, "/api/v1/sales", saleBody(item.ID.String(), "1"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var n int64
	require.NoError(t, a.db.Model(&entity.SalesTransaction{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateSale_ReplaysStoredResponse(t *testing.T) {
	// GIVEN: a sale created under a key
	a := newApp(t, nil)
	item := a.stockedItem(t)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "k-replay"}
	first := a.do(t, http.MethodPost, "/api/v1/sales", saleBody(item.ID.String(), "10"), headers)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	// WHEN: the client retries the same request
	second := a.do(t, http.MethodPost, "/api/v1/sales", saleBody(item.ID.String(), "10"), headers)

	// THEN: the first response comes back and nothing is posted twice
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var sales int64
	require.NoError(t, a.db.Model(&entity.SalesTransaction{}).Count(&sales).Error)
	assert.Equal(t, int64(1), sales)
	stored, err := repository.NewItemRepository(a.db).GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "40", stored.CurrentBalance)

	var sale struct {
		InvoiceNumber string `json:"invoice_number"`
		GrandTotal    string `json:"grand_total"`
	}
	require.NoError(t, json.Unmarshal(decode(t, first).Data, &sale))
	assert.Equal(t, "INV26070001", sale.InvoiceNumber)
	testutil.AssertDecimal(t, "1120", testutil.Dec(t, sale.GrandTotal))
}

func TestCreateSale_KeyReusedWithDifferentBodyConflicts(t *testing.T) {
	a := newApp(t, nil)
	item := a.stockedItem(t)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "k-reuse"}
	first := a.do(t, http.MethodPost, "/api/v1/sales", saleBody(item.ID.String(), "1"), headers)
	require.Equal(t, http.StatusCreated, first.Code)

	rec := a.do(t, http.MethodPost, "/api/v1/sales", saleBody(item.ID.String(), "2"), headers)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperror.TypeConflict, decode(t, rec).Type)
}

func TestCreateSale_FailedResponseIsNotStored(t *testing.T) {
	// GIVEN: a rejected attempt
	a := newApp(t, nil)
	item := a.stockedItem(t)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "k-retry"}
	rejected := a.do(t, http.MethodPost, "/api/v1/sales", saleBody(item.ID.String(), "60"), headers)
	require.Equal(t, http.StatusBadRequest, rejected.Code)

	// WHEN: the corrected request reuses the key
	rec := a.do(t, http.MethodPost, "/api/v1/sales", saleBody(item.ID.String(), "5"), headers)

	// THEN
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Idempotency-Replayed"))
}

func stockInBody(itemID string, quantity string) map[string]interface{} {
	return map[string]interface{}{
		"date":       "2026-07-01",
		"party_name": "Lakshmi Dairy",
		"items":      []map[string]interface{}{{"item_id": itemID, "quantity": quantity, "rate": "80"}},
	}
}

func TestStockIn_RequiresIdempotencyKey(t *testing.T) {
	a := newApp(t, nil)
	item := a.stockedItem(t)

	rec := a.do(t, http.MethodPost, "/api/v1/stock/in", stockInBody(item.ID.String(), "10"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var n int64
	require.NoError(t, a.db.Model(&entity.Purchase{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestStockIn_RetryDoesNotReceiveStockTwice(t *testing.T) {
	// GIVEN: a stock in recorded under a key
	a := newApp(t, nil)
	item := a.stockedItem(t)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "k-stock-in"}
	first := a.do(t, http.MethodPost, "/api/v1/stock/in", stockInBody(item.ID.String(), "10"), headers)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	// WHEN: the client retries after a dropped response
	second := a.do(t, http.MethodPost, "/api/v1/stock/in", stockInBody(item.ID.String(), "10"), headers)

	// THEN: one purchase and one movement of 10
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var purchases int64
	require.NoError(t, a.db.Model(&entity.Purchase{}).Count(&purchases).Error)
	assert.Equal(t, int64(1), purchases)
	stored, err := repository.NewItemRepository(a.db).GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "60", stored.CurrentBalance)
}

// =============================================================================
// RATE LIMITING
// =============================================================================

func TestRateLimiter_RejectsBurstOverflow(t *testing.T) {
	limiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
	})
	a := newApp(t, limiter)

	first := a.do(t, http.MethodGet, "/api/v1/ledgers", nil, nil)
	second := a.do(t, http.MethodGet, "/api/v1/ledgers", nil, nil)

	assert.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, apperror.TypeRateLimited, decode(t, second).Type)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	// health stays outside the limited group
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/health", nil, nil).Code)
}
