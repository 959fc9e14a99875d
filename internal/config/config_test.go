package config_test

import (
	"testing"
	"time"

	"github.com/sangkips/dairy-coop-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/coop.db")
	t.Setenv("BUSINESS_HOME_STATE", "Kerala")
	t.Setenv("VOUCHER_FAILURE_POLICY", "STRICT")
	t.Setenv("SEQUENCE_LOCK_TTL_MS", "500")

	cfg := config.Load()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/coop.db", cfg.Database.DSN())
	assert.Equal(t, "Kerala", cfg.Business.HomeState)
	assert.Equal(t, config.VoucherPolicyStrict, cfg.Business.VoucherFailurePolicy)
	assert.Equal(t, 500*time.Millisecond, cfg.Redis.SequenceLockTTL)
}

func TestLoad_UnknownPolicyIsLenient(t *testing.T) {
	t.Setenv("VOUCHER_FAILURE_POLICY", "sometimes")

	cfg := config.Load()

	assert.Equal(t, config.VoucherPolicyLenient, cfg.Business.VoucherFailurePolicy)
}

func TestDatabaseDSN(t *testing.T) {
	mysql := config.DatabaseConfig{Driver: "mysql", User: "coop", Password: "pw", Host: "db", Port: "3306", Name: "dairy"}
	assert.Equal(t, "coop:pw@tcp(db:3306)/dairy?charset=utf8mb4&parseTime=True&loc=Local", mysql.DSN())

	pg := config.DatabaseConfig{Driver: "postgres", User: "u", Password: "p", Host: "h", Port: "5432", Name: "n", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", pg.DSN())
}
