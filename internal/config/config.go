package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Driver   string
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

// DSN returns the postgres connection string understood by pgx.
func (c DBConfig) DSN() string {
	return c.url("postgres")
}

// MigrateURL returns the connection string for the golang-migrate pgx/v5 driver.
func (c DBConfig) MigrateURL() string {
	return c.url("pgx5")
}

func (c DBConfig) url(scheme string) string {
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(c.Username, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   c.DBName,
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + c.SSLMode
	}
	return u.String()
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type StoreConfig struct {
	Timeout time.Duration
	Retries int
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	SessionSecret string
	FrontendURL   string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type MailConfig struct {
	Queue bool
	SMTP  SMTPConfig
}

type CDNConfig struct {
	Origin  string
	Folder  string
	Timeout time.Duration
}

// Config is built once at startup and read-only afterwards.
type Config struct {
	AppPort      string
	MetricsPort  string
	ClientOrigin string
	RedisAddr    string
	DB           DBConfig
	Store        StoreConfig
	Auth         AuthConfig
	Google       GoogleConfig
	Mail         MailConfig
	CDN          CDNConfig
}

func setDefaults() {
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("metrics.port", "9090")
	viper.SetDefault("client.origin", "http://localhost:3000")
	viper.SetDefault("db.driver", "postgres")
	viper.SetDefault("store.timeout", 5*time.Second)
	viper.SetDefault("store.retries", 3)
	viper.SetDefault("auth.token-ttl", time.Hour)
	viper.SetDefault("mail.queue", true)
	viper.SetDefault("cdn.folder", "striveBlog")
	viper.SetDefault("cdn.timeout", 10*time.Second)
}

// Load reads non-secret settings through viper and secrets from the
// environment. godotenv is expected to have populated the environment already.
func Load() (*Config, error) {
	setDefaults()

	cfg := &Config{
		AppPort:      viper.GetString("app.port"),
		MetricsPort:  viper.GetString("metrics.port"),
		ClientOrigin: viper.GetString("client.origin"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		DB: DBConfig{
			Driver:   viper.GetString("db.driver"),
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Store: StoreConfig{
			Timeout: viper.GetDuration("store.timeout"),
			Retries: viper.GetInt("store.retries"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenTTL:      viper.GetDuration("auth.token-ttl"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
			FrontendURL:   os.Getenv("FRONTEND_URL"),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),
		},
		Mail: MailConfig{
			Queue: viper.GetBool("mail.queue"),
			SMTP: SMTPConfig{
				Host:     os.Getenv("SMTP_HOST"),
				Port:     os.Getenv("SMTP_PORT"),
				User:     os.Getenv("SMTP_USER"),
				Password: os.Getenv("SMTP_PASSWORD"),
				From:     os.Getenv("EMAIL_FROM"),
			},
		},
		CDN: CDNConfig{
			Origin:  viper.GetString("cdn.origin"),
			Folder:  viper.GetString("cdn.folder"),
			Timeout: viper.GetDuration("cdn.timeout"),
		},
	}

	if cfg.Auth.FrontendURL == "" {
		cfg.Auth.FrontendURL = cfg.ClientOrigin
	}

	var missing []string
	if cfg.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.Auth.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if cfg.DB.Driver == "postgres" && cfg.DB.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if cfg.Mail.Queue && cfg.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	return cfg, nil
}
