package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		// A missing explicit file is an error path on some viper versions;
		// fall back to no file at all.
		cfg, err = Load("")
	}
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "opay", cfg.Payments.DefaultGateway)
	assert.InDelta(t, 100.0, cfg.Payments.MinDeposit, 0.001)
	assert.InDelta(t, 0.015, cfg.Payments.CardFeeRate, 0.0001)
	assert.InDelta(t, 1500.0, cfg.Payments.CardFeeCap, 0.001)
	assert.InDelta(t, 50.0, cfg.Payments.BankTransferFee, 0.001)
	assert.InDelta(t, 20.0, cfg.Payments.WithdrawalFee, 0.001)
	assert.Equal(t, "https://api.paystack.co", cfg.Paystack.BaseURL)
	assert.Equal(t, "NGN", cfg.OPay.Currency)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WG_SERVER_PORT", "9090")
	t.Setenv("WG_PAYSTACK_SECRET_KEY", "sk_test_abc")
	t.Setenv("WG_PAYMENTS_DEFAULT_GATEWAY", "paystack")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk_test_abc", cfg.Paystack.SecretKey)
	assert.Equal(t, "paystack", cfg.Payments.DefaultGateway)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 7070
payments:
  withdrawal_fee: 35
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.InDelta(t, 35.0, cfg.Payments.WithdrawalFee, 0.001)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "wallet", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/wallet?sslmode=disable", cfg.DSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", cfg.Addr())
}
