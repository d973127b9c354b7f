package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Paths     PathsConfig
	Admin     AdminBootstrapConfig
	Session   SessionConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	SiteURL   string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PathsConfig pins every file the stores touch. All data files live in
// DataDir; uploaded media lives in UploadsDir; archives in BackupsDir.
type PathsConfig struct {
	RootDir     string
	DataDir     string
	UploadsDir  string
	BackupsDir  string
	WebsiteDir  string
	AdminDir    string
	ContentFile string
	PublishedContentFile string
	PostsFile            string
	PublishedPostsFile   string
	UsersFile            string
	ContactsFile         string
	AuditFile            string
}

// AdminBootstrapConfig seeds the first admin account when users.json is missing.
// Password empty + missing users file is a fatal startup condition.
type AdminBootstrapConfig struct {
	Username string
	Password string
	Email    string
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("ROOT_DIR", ".")
	viper.SetDefault("ADMIN_BOOTSTRAP_USERNAME", "admin")
	viper.SetDefault("SESSION_TTL_HOURS", 12)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("SITE_URL", "https://www.comprehensivecancercenter.com")

	root := viper.GetString("ROOT_DIR")
	dataDir := filepath.Join(root, "data")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Paths: PathsConfig{
			RootDir:              root,
			DataDir:              dataDir,
			UploadsDir:           filepath.Join(root, "uploads"),
			BackupsDir:           filepath.Join(root, "backups"),
			WebsiteDir:           filepath.Join(root, "website"),
			AdminDir:             filepath.Join(root, "admin"),
			ContentFile:          filepath.Join(dataDir, "content.json"),
			PublishedContentFile: filepath.Join(dataDir, "content.published.json"),
			PostsFile:            filepath.Join(dataDir, "posts.json"),
			PublishedPostsFile:   filepath.Join(dataDir, "posts.published.json"),
			UsersFile:            filepath.Join(dataDir, "users.json"),
			ContactsFile:         filepath.Join(dataDir, "contacts.json"),
			AuditFile:            filepath.Join(dataDir, "audit.log"),
		},
		Admin: AdminBootstrapConfig{
			Username: viper.GetString("ADMIN_BOOTSTRAP_USERNAME"),
			Password: os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"),
			Email:    viper.GetString("ADMIN_BOOTSTRAP_EMAIL"),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			TTL:    time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		SMTP: SMTPConfig{
			Host: viper.GetString("SMTP_HOST"),
			Port: viper.GetInt("SMTP_PORT"),
			User: viper.GetString("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: viper.GetString("SMTP_FROM"),
			To:   viper.GetString("SMTP_TO"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		SiteURL: viper.GetString("SITE_URL"),
	}

	return cfg, nil
}

// IsProd reports whether the server runs with the production environment.
func (c *Config) IsProd() bool {
	return c.Server.Environment == "production"
}
