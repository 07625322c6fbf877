package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vninvoice/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Invoice ProviderConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object storage settings for invoice PDFs.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// ProviderConfig is the resolved configuration for the active invoicing
// vendor: identity of the vendor, endpoint hosts, credentials, and the cached
// credential bundle from the last authentication run. It is passed by value
// into every provider operation and never mutated by the core.
type ProviderConfig struct {
	Provider   string                   `mapstructure:"provider" json:"provider"`
	Host       string                   `mapstructure:"host" json:"host"`
	AppURL     string                   `mapstructure:"app_url" json:"app_url"`
	Username   string                   `mapstructure:"username" json:"username"`
	Password   string                   `mapstructure:"password" json:"-"`
	TaxCode    string                   `mapstructure:"tax_code" json:"tax_code"`
	AppID      string                   `mapstructure:"app_id" json:"app_id"`
	ClientID   string                   `mapstructure:"client_id" json:"client_id"`
	Pattern    string                   `mapstructure:"pattern" json:"pattern"`
	Serial     string                   `mapstructure:"serial" json:"serial"`
	Templates  []domain.InvoiceTemplate `mapstructure:"templates" json:"templates"`
	Credential domain.CredentialBundle  `mapstructure:"credential" json:"credential"`
}

// ProviderOverride is a per-request configuration override. It is honored only
// when Enable is set; empty fields fall back to the stored configuration.
type ProviderOverride struct {
	Enable   bool   `json:"enable"`
	Provider string `json:"provider"`
	Host     string `json:"host"`
	AppURL   string `json:"app_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	TaxCode  string `json:"tax_code"`
	AppID    string `json:"app_id"`
	ClientID string `json:"client_id"`
	Pattern  string `json:"pattern"`
	Serial   string `json:"serial"`
	Token    string `json:"token"`
}

// Resolve merges a request override into the stored provider configuration.
func (p ProviderConfig) Resolve(o *ProviderOverride) ProviderConfig {
	if o == nil || !o.Enable {
		return p
	}
	pick := func(override, fallback string) string {
		if override != "" {
			return override
		}
		return fallback
	}
	p.Provider = pick(o.Provider, p.Provider)
	p.Host = pick(o.Host, p.Host)
	p.AppURL = pick(o.AppURL, p.AppURL)
	p.Username = pick(o.Username, p.Username)
	p.Password = pick(o.Password, p.Password)
	p.TaxCode = pick(o.TaxCode, p.TaxCode)
	p.AppID = pick(o.AppID, p.AppID)
	p.ClientID = pick(o.ClientID, p.ClientID)
	p.Pattern = pick(o.Pattern, p.Pattern)
	p.Serial = pick(o.Serial, p.Serial)
	p.Credential.Token = pick(o.Token, p.Credential.Token)
	return p
}

// Load reads configuration from environment variables with the VNINVOICE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VNINVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "vninvoice")
	v.SetDefault("db.password", "vninvoice_secret")
	v.SetDefault("db.name", "vninvoice_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-southeast-1")
	v.SetDefault("s3.bucket", "vninvoice-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Invoice provider defaults
	v.SetDefault("invoice.provider", "")
	v.SetDefault("invoice.host", "")
	v.SetDefault("invoice.app_url", "")
	v.SetDefault("invoice.username", "")
	v.SetDefault("invoice.password", "")
	v.SetDefault("invoice.tax_code", "")
	v.SetDefault("invoice.app_id", "")
	v.SetDefault("invoice.client_id", "")
	v.SetDefault("invoice.pattern", "")
	v.SetDefault("invoice.serial", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
