// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/infrastructure/database"
	"github.com/sangkips/dairy-coop-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database private to the test. A single connection
// keeps nested transactions on the same handle.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), false, logger.Discard())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

// NewFileDB returns a migrated sqlite database in a temp file with a pool of connections, for
// tests that need writers on separate connections. Transactions begin IMMEDIATE so competing
// writers queue on the busy timeout instead of failing.
func NewFileDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", filepath.Join(t.TempDir(), "coop.db"))
	db, err := database.Open(sqlite.Open(dsn), false, logger.Discard())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

// Dec parses a decimal literal and fails the test on a typo
func Dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// DecPtr is Dec returning a pointer
func DecPtr(t testing.TB, s string) *decimal.Decimal {
	t.Helper()
	d := Dec(t, s)
	return &d
}

// AssertDecimal compares numerically, so 1120 and 1120.00 are equal
func AssertDecimal(t testing.TB, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	want := Dec(t, expected)
	return assert.Truef(t, want.Equal(actual), "expected %s, got %s %v", want.String(), actual.String(), fmt.Sprint(msgAndArgs...))
}
