package config

import (
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Env selects the logger configuration: "production" or anything else for development
	Env string

	HTTPAddr string

	// JWTSecret signs and verifies the bearer tokens of API callers
	JWTSecret string

	DatabaseDriver, DatabaseDSN string

	// RedisURL enables the distributed per-domain lock. Empty means in-process locking.
	RedisURL string

	GitLab GitLabConfig

	Storage StorageConfig

	Mail MailConfig

	WhoisServer string

	// ConfigurationsFile is a YAML seed of domain configurations, countries and verticals
	ConfigurationsFile string

	SSLRecheckCron   string
	QueueConcurrency uint
}

type GitLabConfig struct {
	URL, Token, Project, Branch string
}

type StorageConfig struct {
	Type string
	Path string

	Endpoint, KeyID, SecretKey, Region, Bucket string
}

type MailConfig struct {
	SMTPAddr, Username, Password, From string

	// Recipients and CC are comma separated lists of addresses notified on domain purchase
	Recipients, CC string
}

// Load reads an optional .env file before building the config from the environment.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	return New()
}

func New() Config {
	return Config{
		Env:            getenv("APP_ENV", "development"),
		HTTPAddr:       getenv("HTTP_ADDR", ":3646"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		DatabaseDriver: getenv("DB_DRIVER", "sqlite"),
		DatabaseDSN:    getenv("DATABASE_DSN", "/var/domainkeeper/data/database.db"),
		RedisURL:       os.Getenv("REDIS_URL"),
		GitLab: GitLabConfig{
			URL:     getenv("GITLAB_URL", "https://gitlab.com"),
			Token:   os.Getenv("GITLAB_TOKEN"),
			Project: os.Getenv("GITLAB_PROJECT"),
			Branch:  getenv("GITLAB_BRANCH", "main"),
		},
		Storage: StorageConfig{
			Type:      getenv("STORAGE_TYPE", "File"),
			Path:      getenv("STORAGE_PATH", "/var/domainkeeper/data/blobs"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			KeyID:     os.Getenv("S3_KEY_ID"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Region:    os.Getenv("S3_REGION"),
			Bucket:    getenv("S3_BUCKET", "domainkeeper"),
		},
		Mail: MailConfig{
			SMTPAddr:   os.Getenv("SMTP_ADDR"),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getenv("MAIL_FROM", "domainkeeper@localhost"),
			Recipients: os.Getenv("DOMAIN_MANAGEMENT_EMAIL_RECIPIENTS"),
			CC:         os.Getenv("DOMAIN_MANAGEMENT_EMAIL_RECIPIENTS_CC"),
		},
		WhoisServer:        getenv("WHOIS_SERVER", "whois.verisign-grs.com:43"),
		ConfigurationsFile: os.Getenv("CONFIGURATIONS_FILE"),
		SSLRecheckCron:     getenv("SSL_RECHECK_CRON", "0 * * * *"),
		QueueConcurrency:   getenvUint("QUEUE_CONCURRENCY", 10),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c Config) HasRedis() bool {
	return c.RedisURL != ""
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvUint(key string, fallback uint) uint {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 32)
	if err != nil || v == 0 {
		return fallback
	}
	return uint(v)
}
