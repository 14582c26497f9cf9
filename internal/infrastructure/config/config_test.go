package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configEnvKeys lists every override the tests touch. Viper ignores empty
// env values, so setting them to "" via t.Setenv clears and restores them.
var configEnvKeys = []string{
	"SALES_APP_NAME",
	"SALES_APP_ENV",
	"SALES_APP_PORT",
	"SALES_DATABASE_DRIVER",
	"SALES_DATABASE_SQLITE_PATH",
	"SALES_DATABASE_HOST",
	"SALES_DATABASE_PORT",
	"SALES_DATABASE_USER",
	"SALES_DATABASE_PASSWORD",
	"SALES_DATABASE_DBNAME",
	"SALES_DATABASE_SSLMODE",
	"SALES_DATABASE_MAX_OPEN_CONNS",
	"SALES_DATABASE_MAX_IDLE_CONNS",
	"SALES_REDIS_ENABLED",
	"SALES_KAFKA_ENABLED",
	"SALES_KAFKA_GOALS_TOPIC",
	"SALES_COMMISSION_DEFAULT_SDR_PERCENT",
	"SALES_COMMISSION_DEFAULT_CLOSER_PERCENT",
	"SALES_REPORT_CACHE_TTL",
	"SALES_TELEMETRY_DB_LOG_FULL_SQL",
	"SALES_TELEMETRY_SAMPLING_RATIO",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "sales-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "sales", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.False(t, cfg.Kafka.Enabled)
		assert.Equal(t, "sales.goals", cfg.Kafka.GoalsTopic)
		assert.True(t, cfg.Commission.DefaultSDRPercent.Equal(decimal.NewFromInt(1)))
		assert.True(t, cfg.Commission.DefaultCloserPercent.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, 15*time.Minute, cfg.Report.CacheTTL)
	})

	t.Run("loads values from environment variables with SALES prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SALES_APP_NAME", "test-app")
		t.Setenv("SALES_APP_ENV", "testing")
		t.Setenv("SALES_APP_PORT", "9000")
		t.Setenv("SALES_DATABASE_DRIVER", "sqlite")
		t.Setenv("SALES_DATABASE_SQLITE_PATH", ":memory:")
		t.Setenv("SALES_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("SALES_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("SALES_REDIS_ENABLED", "true")
		t.Setenv("SALES_KAFKA_ENABLED", "true")
		t.Setenv("SALES_KAFKA_GOALS_TOPIC", "goals.v2")
		t.Setenv("SALES_COMMISSION_DEFAULT_SDR_PERCENT", "2.5")
		t.Setenv("SALES_REPORT_CACHE_TTL", "1m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.True(t, cfg.Kafka.Enabled)
		assert.Equal(t, "goals.v2", cfg.Kafka.GoalsTopic)
		assert.True(t, cfg.Commission.DefaultSDRPercent.Equal(decimal.RequireFromString("2.5")))
		assert.Equal(t, time.Minute, cfg.Report.CacheTTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SALES_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("SALES_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SALES_DATABASE_DRIVER", "mysql")

		_, err := Load()
		assert.ErrorContains(t, err, "database.driver")
	})

	t.Run("rejects malformed commission percent", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SALES_COMMISSION_DEFAULT_CLOSER_PERCENT", "five")

		_, err := Load()
		assert.ErrorContains(t, err, "commission.default_closer_percent")
	})

	t.Run("rejects negative commission percent", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SALES_COMMISSION_DEFAULT_SDR_PERCENT", "-1")

		_, err := Load()
		assert.ErrorContains(t, err, "cannot be negative")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SALES_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		assert.ErrorContains(t, err, "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SALES_APP_ENV", "production")
		t.Setenv("SALES_DATABASE_PASSWORD", "secure-password")
		t.Setenv("SALES_DATABASE_SSLMODE", "require")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SALES_DATABASE_PASSWORD", "")

		_, err := Load()
		assert.ErrorContains(t, err, "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SALES_DATABASE_SSLMODE", "disable")

		_, err := Load()
		assert.ErrorContains(t, err, "database.sslmode cannot be 'disable' in production")
	})

	t.Run("forbids sqlite in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SALES_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		assert.ErrorContains(t, err, "sqlite is not allowed in production")
	})

	t.Run("forbids full SQL logging in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SALES_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		assert.ErrorContains(t, err, "db_log_full_sql")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
