package service

import (
	"context"
	"errors"

	"github.com/sangkips/dairy-coop-api/internal/config"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// PostingPolicy runs the accounting half of a stock-in or party creation. Under the strict policy a
// failure aborts the whole operation; under the lenient policy the accounting work is rolled back
// to its savepoint, logged and counted, and the operation carries on without it.
type PostingPolicy struct {
	mode       config.VoucherFailurePolicy
	transactor repository.Transactor
	logger     *logrus.Logger
	metrics    *metrics.Metrics
}

// NewPostingPolicy creates a policy for the configured mode
func NewPostingPolicy(mode config.VoucherFailurePolicy, transactor repository.Transactor, logger *logrus.Logger, m *metrics.Metrics) *PostingPolicy {
	return &PostingPolicy{
		mode:       mode,
		transactor: transactor,
		logger:     logger,
		metrics:    m,
	}
}

// Mode returns the configured policy
func (p *PostingPolicy) Mode() config.VoucherFailurePolicy {
	return p.mode
}

// Run executes fn in a savepoint. It returns the swallowed error when the lenient policy absorbed a
// failure. Ledger imbalances and identifier collisions are never absorbed.
func (p *PostingPolicy) Run(ctx context.Context, operation string, fields logrus.Fields, fn func(ctx context.Context) error) (swallowed error, err error) {
	err = p.transactor.WithinTransaction(ctx, fn)
	if err == nil {
		return nil, nil
	}
	if p.mode == config.VoucherPolicyStrict ||
		apperror.IsType(err, apperror.TypeLedgerImbalance) ||
		errors.Is(err, repository.ErrDuplicateKey) ||
		errors.Is(err, context.Canceled) {
		return nil, err
	}

	p.metrics.VoucherFailed(operation)
	entry := p.logger.WithFields(fields).WithField("operation", operation)
	entry.Warn("accounting step failed and was skipped: " + err.Error())
	return err, nil
}
