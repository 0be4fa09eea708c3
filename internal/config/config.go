package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

type AdminConfig struct {
	Username      string
	Password      string
	PasswordHash  string
	SessionSecret []byte
	SessionTTL    time.Duration
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

type AnalyticsConfig struct {
	ScrollQuiescence time.Duration
	Heartbeat        time.Duration
	SessionIdle      time.Duration
}

type Config struct {
	Port            string
	LogMode         string
	DatabasePath    string
	ContentSeedPath string
	ResumePath      string
	StaticDir       string
	ImagesDir       string
	SiteURL         string
	CORSOrigins     []string
	RetentionMonths int
	IPHashSalt      string

	Admin     AdminConfig
	SMTP      SMTPConfig
	Analytics AnalyticsConfig
}

// SetDefaults registers every key so AutomaticEnv can resolve it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_mode", "development")
	v.SetDefault("database_path", "portfolio.db")
	v.SetDefault("content_seed_path", "")
	v.SetDefault("resume_path", "static/resume.pdf")
	v.SetDefault("static_dir", "./static")
	v.SetDefault("images_dir", "./images")
	v.SetDefault("site_url", "http://localhost:8080")
	v.SetDefault("cors_origins", "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173")
	v.SetDefault("visitor_retention_months", 12)
	v.SetDefault("ip_hash_salt", "")

	v.SetDefault("admin_username", "")
	v.SetDefault("admin_password", "")
	v.SetDefault("admin_password_hash", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_ttl_hours", 24)

	v.SetDefault("smtp_host", "smtp.gmail.com")
	v.SetDefault("smtp_port", "587")
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("to_email", "")

	v.SetDefault("scroll_quiescence_ms", 1000)
	v.SetDefault("heartbeat_seconds", 30)
	v.SetDefault("page_session_idle_minutes", 30)
}

// New builds a viper instance reading the environment and, when path is
// non-empty, a config file.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

func Load(v *viper.Viper, log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:            v.GetString("port"),
		LogMode:         v.GetString("log_mode"),
		DatabasePath:    v.GetString("database_path"),
		ContentSeedPath: v.GetString("content_seed_path"),
		ResumePath:      v.GetString("resume_path"),
		StaticDir:       v.GetString("static_dir"),
		ImagesDir:       v.GetString("images_dir"),
		SiteURL:         strings.TrimRight(v.GetString("site_url"), "/"),
		CORSOrigins:     splitList(v.GetString("cors_origins")),
		RetentionMonths: v.GetInt("visitor_retention_months"),
		IPHashSalt:      v.GetString("ip_hash_salt"),
		Admin: AdminConfig{
			Username:     v.GetString("admin_username"),
			Password:     v.GetString("admin_password"),
			PasswordHash: v.GetString("admin_password_hash"),
			SessionTTL:   time.Duration(v.GetInt("session_ttl_hours")) * time.Hour,
		},
		SMTP: SMTPConfig{
			Host: v.GetString("smtp_host"),
			Port: v.GetString("smtp_port"),
			User: v.GetString("smtp_user"),
			Pass: v.GetString("smtp_pass"),
			To:   v.GetString("to_email"),
		},
		Analytics: AnalyticsConfig{
			ScrollQuiescence: time.Duration(v.GetInt("scroll_quiescence_ms")) * time.Millisecond,
			Heartbeat:        time.Duration(v.GetInt("heartbeat_seconds")) * time.Second,
			SessionIdle:      time.Duration(v.GetInt("page_session_idle_minutes")) * time.Minute,
		},
	}

	if cfg.Admin.Username == "" {
		cfg.Admin.Username = defaultAdminUsername
		log.Warn("Using default admin username. Set ADMIN_USERNAME environment variable.")
	}
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		cfg.Admin.Password = defaultAdminPassword
		log.Warn("Using default admin password. Set ADMIN_PASSWORD_HASH environment variable.")
	}

	secret := v.GetString("session_secret")
	if secret == "" {
		generated, err := randomHex(32)
		if err != nil {
			return Config{}, fmt.Errorf("generate session secret: %w", err)
		}
		secret = generated
		log.Info("No SESSION_SECRET set, admin sessions will not survive a restart")
	}
	cfg.Admin.SessionSecret = []byte(secret)

	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 24 * time.Hour
	}
	if cfg.Analytics.ScrollQuiescence <= 0 {
		cfg.Analytics.ScrollQuiescence = time.Second
	}
	if cfg.Analytics.Heartbeat <= 0 {
		cfg.Analytics.Heartbeat = 30 * time.Second
	}
	if cfg.Analytics.SessionIdle <= 0 {
		cfg.Analytics.SessionIdle = 30 * time.Minute
	}
	if cfg.RetentionMonths <= 0 {
		cfg.RetentionMonths = 12
	}
	if cfg.IPHashSalt == "" {
		salt, err := randomHex(16)
		if err != nil {
			return Config{}, fmt.Errorf("generate ip hash salt: %w", err)
		}
		cfg.IPHashSalt = salt
		log.Info("No IP_HASH_SALT set, unique visitor counts reset on restart")
	}
	if cfg.SMTP.To == "" {
		cfg.SMTP.To = cfg.SMTP.User
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) Production() bool {
	switch strings.ToLower(c.LogMode) {
	case "prod", "production", "release":
		return true
	}
	return false
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c Config) SecureCookies() bool {
	return strings.HasPrefix(c.SiteURL, "https://")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
