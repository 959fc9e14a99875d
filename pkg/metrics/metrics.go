package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors the service records. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Stock ledger metrics
	StockMovementsTotal       *prometheus.CounterVec
	InsufficientStockTotal    prometheus.Counter
	StockBalanceRebuildsTotal prometheus.Counter

	// Posting metrics
	VouchersPostedTotal   *prometheus.CounterVec
	VoucherFailuresTotal  *prometheus.CounterVec
	SequenceRetriesTotal  *prometheus.CounterVec
	SequenceLockFallbacks prometheus.Counter
}

// New registers all collectors on reg using prefix for metric names
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		StockMovementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_movements_total",
				Help: "Stock movements applied, by kind and reference type",
			},
			[]string{"kind", "reference_type"},
		),
		InsufficientStockTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_insufficient_stock_rejections_total",
				Help: "Stock-out requests rejected because the balance would go negative",
			},
		),
		StockBalanceRebuildsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_stock_balance_rebuilds_total",
				Help: "Item balances rebuilt by replaying the stock log",
			},
		),
		VouchersPostedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_vouchers_posted_total",
				Help: "Vouchers posted, by voucher type",
			},
			[]string{"type"},
		),
		VoucherFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_voucher_failures_total",
				Help: "Voucher or ledger postings that failed and were skipped under the lenient policy",
			},
			[]string{"operation"},
		),
		SequenceRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sequence_retries_total",
				Help: "Document creations retried after an identifier collision",
			},
			[]string{"operation"},
		),
		SequenceLockFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_sequence_lock_fallbacks_total",
				Help: "Sequence allocations that proceeded without the distributed lock",
			},
		),
	}
}

func (m *Metrics) ObserveRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HttpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

func (m *Metrics) StockMovement(kind, referenceType string) {
	if m == nil {
		return
	}
	m.StockMovementsTotal.WithLabelValues(kind, referenceType).Inc()
}

func (m *Metrics) InsufficientStock() {
	if m == nil {
		return
	}
	m.InsufficientStockTotal.Inc()
}

func (m *Metrics) BalanceRebuilt() {
	if m == nil {
		return
	}
	m.StockBalanceRebuildsTotal.Inc()
}

func (m *Metrics) VoucherPosted(voucherType string) {
	if m == nil {
		return
	}
	m.VouchersPostedTotal.WithLabelValues(voucherType).Inc()
}

func (m *Metrics) VoucherFailed(operation string) {
	if m == nil {
		return
	}
	m.VoucherFailuresTotal.WithLabelValues(operation).Inc()
}

func (m *Metrics) SequenceRetry(operation string) {
	if m == nil {
		return
	}
	m.SequenceRetriesTotal.WithLabelValues(operation).Inc()
}

func (m *Metrics) LockFallback() {
	if m == nil {
		return
	}
	m.SequenceLockFallbacks.Inc()
}
