package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort   string
	LogLevel  string
	LogFormat string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// Run GORM AutoMigrate on boot (dev/compose only).
	AutoMigrate bool

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int
	// TTL of the per-(application, group) operation lock held while a PDF
	// generation or email send is in flight.
	OpLockTTLSecs int

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	S3Region    string
	CertBucket  string

	SESRegion   string
	EmailSender string

	// HTML -> PDF render service (gotenberg-style endpoint).
	RenderServiceURL     string
	RenderTimeoutSeconds int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "resale"),
		MySQLUser: getenv("MYSQL_USER", "resale"),
		MySQLPass: getenv("MYSQL_PASS", "resale"),

		AutoMigrate: getenvBool("DB_AUTO_MIGRATE", false),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs:  getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		OpLockTTLSecs: getenvInt("OP_LOCK_TTL_SECONDS", 120),

		S3Endpoint:  getenv("S3_ENDPOINT", "minio:9000"),
		S3AccessKey: getenv("S3_ACCESS_KEY", ""),
		S3SecretKey: getenv("S3_SECRET_KEY", ""),
		S3UseSSL:    getenvBool("S3_USE_SSL", false),
		S3Region:    getenv("S3_REGION", "us-east-1"),
		CertBucket:  getenv("S3_CERT_BUCKET", "resale-certificates"),

		SESRegion:   getenv("SES_REGION", "us-east-1"),
		EmailSender: getenv("EMAIL_SENDER", "certificates@example-hoa.com"),

		RenderServiceURL:     getenv("RENDER_SERVICE_URL", "http://renderer:3000/convert/html"),
		RenderTimeoutSeconds: getenvInt("RENDER_TIMEOUT_SECONDS", 45),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.CertBucket == "" {
		return errors.New("missing S3_CERT_BUCKET")
	}
	if c.RenderServiceURL == "" {
		return errors.New("missing RENDER_SERVICE_URL")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
