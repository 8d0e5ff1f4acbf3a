// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
merged into the process environment first when one exists.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Mailer) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Avatar storage backends accepted by AVATAR_STORAGE.
const (
	AvatarStorageCloudinary = "cloudinary"
	AvatarStorageS3         = "s3"
	AvatarStorageNone       = "none"
)

// # Configuration Schema

// Config holds all runtime configuration for the Contactly API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// BaseURL prefixes links embedded in outgoing emails.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080/"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// IdentityCacheTTL bounds how long a cached identity snapshot may be served.
	// Zero keeps entries until they are invalidated.
	IdentityCacheTTL time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"15m"`

	// Token signing
	JWTSecret            string `env:"JWT_SECRET,required"`
	JWTAlgorithm         string `env:"JWT_ALGORITHM"          envDefault:"HS256"`
	JWTExpirationSeconds int    `env:"JWT_EXPIRATION_SECONDS" envDefault:"3600"`

	// Outgoing mail (SMTP). An empty MailServer logs messages instead of sending them.
	Mail MailConfig `envPrefix:"MAIL_"`

	// Avatar storage backend: cloudinary, s3 or none.
	AvatarStorage string `env:"AVATAR_STORAGE" envDefault:"none"`

	// Cloudinary credentials
	CloudinaryName      string `env:"CLD_NAME"`
	CloudinaryAPIKey    string `env:"CLD_API_KEY"`
	CloudinaryAPISecret string `env:"CLD_API_SECRET"`

	// Object Storage (S3-compatible)
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"     envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// TrustedProxies lists the peers (addresses or CIDR ranges) whose
	// X-Forwarded-For and X-Real-IP headers are honoured. Empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	trustedProxies []netip.Prefix
}

// MailConfig describes the SMTP relay used for confirmation and reset emails.
type MailConfig struct {
	Server         string `env:"SERVER"`
	Port           int    `env:"PORT"            envDefault:"587"`
	Username       string `env:"USERNAME"`
	Password       string `env:"PASSWORD"`
	From           string `env:"FROM"            envDefault:"no-reply@contactly.local"`
	FromName       string `env:"FROM_NAME"       envDefault:"Contactly"`
	StartTLS       bool   `env:"STARTTLS"        envDefault:"true"`
	SSLTLS         bool   `env:"SSL_TLS"         envDefault:"false"`
	UseCredentials bool   `env:"USE_CREDENTIALS" envDefault:"true"`
	ValidateCerts  bool   `env:"VALIDATE_CERTS"  envDefault:"true"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Variables already present in the environment win over the file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment onto a [Config] struct.
func Parse() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects combinations env tags cannot express.
func (c *Config) validate() error {
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("config: unsupported JWT_ALGORITHM %q", c.JWTAlgorithm)
	}

	if c.JWTExpirationSeconds < 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_SECONDS must not be negative")
	}

	switch c.AvatarStorage {
	case AvatarStorageNone:
	case AvatarStorageCloudinary:
		if c.CloudinaryName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("config: cloudinary avatar storage requires CLD_NAME, CLD_API_KEY and CLD_API_SECRET")
		}
	case AvatarStorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("config: s3 avatar storage requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("config: unsupported AVATAR_STORAGE %q", c.AvatarStorage)
	}

	prefixes, err := parsePrefixes(c.TrustedProxies)
	if err != nil {
		return err
	}
	c.trustedProxies = prefixes

	return nil
}

// parsePrefixes accepts bare addresses as single-host ranges.
func parsePrefixes(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("config: invalid TRUSTED_PROXIES entry %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("config: invalid TRUSTED_PROXIES entry %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// AccessTokenTTL returns the default lifetime of access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationSeconds) * time.Second
}

// TrustedProxyPrefixes returns the parsed TRUSTED_PROXIES ranges.
func (c *Config) TrustedProxyPrefixes() []netip.Prefix {
	return c.trustedProxies
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
