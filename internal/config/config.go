package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/julesapp/crm-api/internal/secrets"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Store backends
const (
	BackendFirestore = "firestore"
	BackendSQL       = "sql"
)

// Auth providers
const (
	AuthProviderFirebase = "firebase"
	AuthProviderLocal    = "local"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Firebase  FirebaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name        string
	// Title is shown in the navigation menu
	Title       string
	Environment string
	Port        int
}

// StoreConfig selects where domain documents live
type StoreConfig struct {
	// Backend is "firestore" or "sql"
	Backend string
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// FirebaseConfig holds the settings shared by the Firestore store and the Firebase auth provider
type FirebaseConfig struct {
	ProjectID string
	// CredentialsFile is a service account JSON path; empty means application default credentials
	CredentialsFile string
	// CredentialsJSON takes precedence over CredentialsFile and is usually loaded from Key Vault
	CredentialsJSON string
	// WebAPIKey is required for password sign-in through the Identity Toolkit API
	WebAPIKey string
}

type AuthConfig struct {
	Provider string
	// JWTSecret signs local session tokens
	JWTSecret    string
	TokenTTL     int // minutes
	CookieName   string
	CookieSecure bool
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
	// StaticDir serves the single-page front end when set
	StaticDir string
	// NavigationCapabilities enables menu features: "responsive-collapse", "active-route-highlight"
	NavigationCapabilities []string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute applies per IP to unauthenticated requests
	RequestsPerMinute int
	// RequestsPerMinuteAuth applies per user to authenticated requests
	RequestsPerMinuteAuth int
	// CredentialAttemptsPerMinute caps login and sign-up calls per address and endpoint
	CredentialAttemptsPerMinute int
	// TrustProxyHeaders reads the client address from X-Forwarded-For and friends
	TrustProxyHeaders bool
	ExemptIPs         []string
	// ExemptPaths match exactly, or by prefix when they end in a slash
	ExemptPaths []string
}

// JobsConfig controls background jobs
type JobsConfig struct {
	Enabled bool
	// MarginReconcileSchedule is a six-field cron expression
	MarginReconcileSchedule string
	// MarginRepair rewrites stale persisted margins instead of only reporting them
	MarginRepair bool
	// RevocationPurgeSchedule clears expired sign-out records of the local auth provider
	RevocationPurgeSchedule string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TokenTTLDuration returns the local session lifetime
func (a *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

// Load loads configuration from file and environment variables.
// Use LoadWithSecrets to also resolve secrets from Key Vault.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Firebase.ProjectID == "" {
		cfg.Firebase.ProjectID = v.GetString("GOOGLE_CLOUD_PROJECT")
	}
	if cfg.Firebase.CredentialsFile == "" {
		cfg.Firebase.CredentialsFile = v.GetString("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects combinations the application cannot start with
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFirestore, BackendSQL:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Auth.Provider {
	case AuthProviderFirebase, AuthProviderLocal:
	default:
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}

	// local users live in the SQL database
	if c.Auth.Provider == AuthProviderLocal && c.Store.Backend != BackendSQL {
		return fmt.Errorf("auth provider %q requires the %q store backend", AuthProviderLocal, BackendSQL)
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	return nil
}

// NeedsFirebase reports whether a Firebase app must be initialised
func (c *Config) NeedsFirebase() bool {
	return c.Store.Backend == BackendFirestore || c.Auth.Provider == AuthProviderFirebase
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
//
// Key Vault is used when USE_AZURE_KEY_VAULT=true and the environment is staging or production.
// Otherwise every secret comes from the environment.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	logger.Info("Loading secrets from Azure Key Vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	applySecrets(ctx, cfg, provider)

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

// secretSource is the part of the secrets provider the config loader needs
type secretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envVar string) (string, error)
}

func applySecrets(ctx context.Context, cfg *Config, src secretSource) {
	set := func(target *string, secretName, envVar string) {
		if value, err := src.GetSecretOrEnv(ctx, secretName, envVar); err == nil && value != "" {
			*target = value
		}
	}

	set(&cfg.Database.Host, "POSTGRES-MAIN-HOST", "DATABASE_HOST")
	set(&cfg.Database.User, "POSTGRES-MAIN-USER", "DATABASE_USER")
	set(&cfg.Database.Password, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD")
	set(&cfg.Firebase.CredentialsJSON, "firebase-service-account", "FIREBASE_CREDENTIALSJSON")
	set(&cfg.Firebase.WebAPIKey, "firebase-web-api-key", "FIREBASE_WEBAPIKEY")
	set(&cfg.Auth.JWTSecret, "auth-jwt-secret", "AUTH_JWTSECRET")
	set(&cfg.Storage.CloudConnectionString, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING")

	if defaultDB := os.Getenv("DEFAULT_DATABASE"); defaultDB != "" {
		cfg.Database.Name = defaultDB
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "CRM API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.title", "Jules App")

	v.SetDefault("store.backend", BackendSQL)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlitePath", "./crm.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "crm")
	v.SetDefault("database.user", "crm_user")
	v.SetDefault("database.password", "crm_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	v.SetDefault("auth.provider", AuthProviderLocal)
	v.SetDefault("auth.jwtSecret", "change-me-in-production")
	v.SetDefault("auth.tokenTTL", 720)
	v.SetDefault("auth.cookieName", "crm_session")
	v.SetDefault("auth.cookieSecure", false)

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "documentos")
	v.SetDefault("storage.maxUploadSizeMB", 25)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 0) // streams stay open
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)
	v.SetDefault("server.staticDir", "")
	v.SetDefault("server.navigationCapabilities", []string{"responsive-collapse", "active-route-highlight"})

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 240)
	v.SetDefault("rateLimit.credentialAttemptsPerMinute", 10)
	v.SetDefault("rateLimit.trustProxyHeaders", false)
	v.SetDefault("rateLimit.exemptIPs", []string{"127.0.0.1"})
	v.SetDefault("rateLimit.exemptPaths", []string{"/health", "/health/ready", "/metrics", "/swagger/"})

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.marginReconcileSchedule", "0 30 2 * * *")
	v.SetDefault("jobs.marginRepair", false)
	v.SetDefault("jobs.revocationPurgeSchedule", "0 0 4 * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
