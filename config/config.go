package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	OPay     OPayConfig     `mapstructure:"opay"`
	Paystack PaystackConfig `mapstructure:"paystack"`
	Payments PaymentsConfig `mapstructure:"payments"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// OPayConfig holds OPay cashier API credentials and endpoints.
type OPayConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	MerchantID  string `mapstructure:"merchant_id"`
	PublicKey   string `mapstructure:"public_key"`
	SecretKey   string `mapstructure:"secret_key"` // webhook signature verification
	ReturnURL   string `mapstructure:"return_url"`
	CallbackURL string `mapstructure:"callback_url"`
	CancelURL   string `mapstructure:"cancel_url"`
	Country     string `mapstructure:"country"`
	Currency    string `mapstructure:"currency"`
}

// PaystackConfig holds Paystack API credentials and endpoints.
type PaystackConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	SecretKey   string `mapstructure:"secret_key"`
	CallbackURL string `mapstructure:"callback_url"`
}

// PaymentsConfig holds wallet business parameters: minimum amounts and
// the fee schedule. Amounts are in major currency units (naira).
type PaymentsConfig struct {
	DefaultGateway  string  `mapstructure:"default_gateway"`
	MinDeposit      float64 `mapstructure:"min_deposit"`
	MinWithdrawal   float64 `mapstructure:"min_withdrawal"`
	CardFeeRate     float64 `mapstructure:"card_fee_rate"` // fraction, e.g. 0.015
	CardFeeCap      float64 `mapstructure:"card_fee_cap"`
	BankTransferFee float64 `mapstructure:"bank_transfer_fee"` // flat
	WithdrawalFee   float64 `mapstructure:"withdrawal_fee"`    // flat
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: WG_ (Wallet Gateway).
// Nested keys use underscore: WG_DATABASE_HOST, WG_PAYSTACK_SECRET_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wallet_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "wallet-gateway")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("opay.base_url", "https://sandboxapi.opaycheckout.com")
	v.SetDefault("opay.merchant_id", "")
	v.SetDefault("opay.public_key", "")
	v.SetDefault("opay.secret_key", "")
	v.SetDefault("opay.return_url", "")
	v.SetDefault("opay.callback_url", "")
	v.SetDefault("opay.cancel_url", "")
	v.SetDefault("opay.country", "NG")
	v.SetDefault("opay.currency", "NGN")
	v.SetDefault("paystack.base_url", "https://api.paystack.co")
	v.SetDefault("paystack.secret_key", "")
	v.SetDefault("paystack.callback_url", "")
	v.SetDefault("payments.default_gateway", "opay")
	v.SetDefault("payments.min_deposit", 100)
	v.SetDefault("payments.min_withdrawal", 100)
	v.SetDefault("payments.card_fee_rate", 0.015)
	v.SetDefault("payments.card_fee_cap", 1500)
	v.SetDefault("payments.bank_transfer_fee", 50)
	v.SetDefault("payments.withdrawal_fee", 20)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: WG_DATABASE_HOST -> database.host
	v.SetEnvPrefix("WG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional, env vars can carry everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
