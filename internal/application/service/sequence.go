package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/metrics"
	"github.com/sirupsen/logrus"
)

const (
	// sequenceWidth is the minimum number of digits in a generated suffix
	sequenceWidth = 4
	// sequenceScanLimit bounds how many existing identifiers are inspected per allocation
	sequenceScanLimit = 50
	// maxAllocationAttempts is how often a creation is retried after a generated identifier collides
	maxAllocationAttempts = 3
)

// SequenceScope selects the identifier format
type SequenceScope int

const (
	// ScopeGlobal yields <PREFIX><NNNN>, e.g. ITM-0001
	ScopeGlobal SequenceScope = iota
	// ScopePeriod yields <PREFIX><YY><MM><NNNN>, restarting every month, e.g. INV26100001
	ScopePeriod
)

// SequenceLocker serializes allocation for one prefix across processes
type SequenceLocker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

// SequenceAllocator issues human-readable identifiers by reading the highest one already issued
type SequenceAllocator struct {
	repo    repository.SequenceRepository
	locker  SequenceLocker
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// NewSequenceAllocator creates an allocator. locker may be nil.
func NewSequenceAllocator(repo repository.SequenceRepository, locker SequenceLocker, logger *logrus.Logger, m *metrics.Metrics) *SequenceAllocator {
	return &SequenceAllocator{
		repo:    repo,
		locker:  locker,
		logger:  logger,
		metrics: m,
	}
}

// PeriodPrefix appends the two-digit year and month of at to prefix
func PeriodPrefix(prefix string, at time.Time) string {
	return prefix + at.Format("0601")
}

// FormatSequence renders prefix followed by n padded to sequenceWidth digits
func FormatSequence(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, sequenceWidth, n)
}

// NextID returns the identifier after the highest one issued for prefix and scope. It does not
// reserve anything: calling it twice without an insert in between returns the same value.
func (a *SequenceAllocator) NextID(ctx context.Context, target repository.SequenceTarget, prefix string, scope SequenceScope, at time.Time) (string, error) {
	full := prefix
	pattern := `^` + regexp.QuoteMeta(prefix) + `(\d+)$`
	if scope == ScopePeriod {
		full = PeriodPrefix(prefix, at)
		pattern = `^` + regexp.QuoteMeta(full) + `(\d{4,})$`
	}

	values, err := a.repo.ListByPrefix(ctx, target, full, sequenceScanLimit)
	if err != nil {
		return "", err
	}

	re := regexp.MustCompile(pattern)
	var highest int64
	for _, v := range values {
		m := re.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	return FormatSequence(full, highest+1), nil
}

// Acquire computes the next identifier while holding the per-prefix lock, when a locker is
// configured. Callers release after their insert commits. A lock that cannot be obtained is
// logged and allocation proceeds unlocked; the unique index and retry cover that case.
func (a *SequenceAllocator) Acquire(ctx context.Context, target repository.SequenceTarget, prefix string, scope SequenceScope, at time.Time) (string, func(), error) {
	release := func() {}

	if a.locker != nil {
		key := target.Table + ":" + prefix
		if scope == ScopePeriod {
			key = target.Table + ":" + PeriodPrefix(prefix, at)
		}
		unlock, err := a.locker.Obtain(ctx, key)
		if err != nil {
			a.metrics.LockFallback()
			a.logger.WithFields(logrus.Fields{
				"module": "sequence",
				"key":    key,
			}).Warn("could not obtain sequence lock; proceeding without lock: " + err.Error())
		} else {
			release = unlock
		}
	}

	id, err := a.NextID(ctx, target, prefix, scope, at)
	if err != nil {
		release()
		return "", nil, err
	}
	return id, release, nil
}

// Claim checks that a caller-supplied identifier is unused
func (a *SequenceAllocator) Claim(ctx context.Context, target repository.SequenceTarget, kind, value string) error {
	exists, err := a.repo.Exists(ctx, target, value)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicateIdentifierError(kind, value)
	}
	return nil
}

// withSequenceRetry reruns fn when its insert collides on a generated identifier. fn must open its
// own transaction so that each attempt starts clean.
func withSequenceRetry(m *metrics.Metrics, operation string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return err
		}
		m.SequenceRetry(operation)
	}
	return apperror.NewConflictError("Could not allocate a unique number for " + operation + ", please retry")
}
