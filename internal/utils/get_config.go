package utils

import (
	"os"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBLogLevel string `yaml:"DB_LOG_LEVEL"`

	// HTTP server
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	RateLimitMax string `yaml:"RATE_LIMIT_MAX"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`
}

var (
	config   Config
	configMu sync.RWMutex
)

// LoadConfig reads config.yaml, then lets .env and the process environment
// override individual keys.
func LoadConfig() {
	LoadConfigFrom("config.yaml", ".env")
}

func LoadConfigFrom(yamlPath, envPath string) {
	var cfg Config

	file, err := os.ReadFile(yamlPath)
	if err != nil {
		log.Warnf("config file %s not read: %v", yamlPath, err)
	} else if err := yaml.Unmarshal(file, &cfg); err != nil {
		log.Errorf("error parsing YAML file %s: %v", yamlPath, err)
	}

	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		log.Warnf("env file %s not loaded: %v", envPath, err)
	}

	for key, field := range cfg.fields() {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}

	configMu.Lock()
	config = cfg
	configMu.Unlock()
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"DB_USER":            &c.DBUser,
		"DB_NAME":            &c.DBName,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_PORT":            &c.DBPort,
		"DB_HOST":            &c.DBHost,
		"DB_LOG_LEVEL":       &c.DBLogLevel,
		"APP_PORT":           &c.AppPort,
		"APP_URL":            &c.AppURL,
		"RATE_LIMIT_MAX":     &c.RateLimitMax,
		"JWT_SECRET":         &c.JWTSecret,
		"SMTP_HOST":          &c.SMTPHost,
		"SMTP_PORT":          &c.SMTPPort,
		"SMTP_SENDER_NAME":   &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &c.SMTPAuthPassword,
	}
}

func GetConfig(key string) string {
	configMu.RLock()
	defer configMu.RUnlock()

	if field, ok := config.fields()[key]; ok {
		return *field
	}
	return ""
}

// GetConfigDefault returns fallback when key is unset.
func GetConfigDefault(key, fallback string) string {
	if v := GetConfig(key); v != "" {
		return v
	}
	return fallback
}
