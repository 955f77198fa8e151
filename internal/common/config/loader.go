// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads config.yaml, merges config.<env>.yaml, expands ${VAR} placeholders and
// validates the result. It never exits the process; callers decide what to do with the
// returned error, which wraps a *ConfigError when a value is missing or invalid.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", currentEnvironment()))
	_ = v.MergeInConfig() // optional

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func currentEnvironment() string {
	if env := os.Getenv("APP_ENVIRONMENT"); env != "" {
		return env
	}
	if env := os.Getenv("NODE_ENV"); env != "" {
		return env
	}
	return EnvDevelopment
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills values that the YAML left blank from the conventional
// environment variable names.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.App.Environment, "APP_ENVIRONMENT", "NODE_ENV")
	setIfEmpty(&cfg.Session.Secret, "SESSION_SECRET")

	setIfEmpty(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setIfEmpty(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setIfEmpty(&cfg.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setIfEmpty(&cfg.Cloudinary.UploadPreset, "CLOUDINARY_UPLOAD_RESET", "CLOUDINARY_UPLOAD_PRESET")

	setIfEmpty(&cfg.Database.Postgres.Host, "DB_HOST")
	setIfEmpty(&cfg.Database.Postgres.Database, "DB_NAME")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Database.Redis.Address, "REDIS_ADDRESS")
	setIfEmpty(&cfg.Database.Elasticsearch.URL, "ELASTICSEARCH_URL")

	setIfEmpty(&cfg.Notifications.AWS.Region, "AWS_REGION")
	setIfEmpty(&cfg.Notifications.Email.FromEmail, "SES_FROM_EMAIL")

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}
	if len(cfg.Database.Elasticsearch.Addresses) == 0 && cfg.Database.Elasticsearch.URL != "" {
		cfg.Database.Elasticsearch.Addresses = []string{cfg.Database.Elasticsearch.URL}
	}
}

func setIfEmpty(target *string, envKeys ...string) {
	if *target != "" {
		return
	}
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			*target = val
			return
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "loan-broker"
	}

	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15000
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30000
	}
	if cfg.HTTP.OperationTimeout == 0 {
		cfg.HTTP.OperationTimeout = 10000
	}
	if cfg.HTTP.MaxUploadBytes == 0 {
		cfg.HTTP.MaxUploadBytes = 5 << 20
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "__session"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 24 * 60 * 60
	}
	if cfg.Session.RememberTTL == 0 {
		cfg.Session.RememberTTL = 30 * 24 * 60 * 60
	}

	if cfg.Cloudinary.BaseURL == "" {
		cfg.Cloudinary.BaseURL = "https://api.cloudinary.com/v1_1"
	}
	if cfg.Cloudinary.Timeout == 0 {
		cfg.Cloudinary.Timeout = 30000
	}

	if cfg.Notifications.Timeout == 0 {
		cfg.Notifications.Timeout = 5000
	}

	if cfg.Search.ApplicationsIndex == "" {
		cfg.Search.ApplicationsIndex = "applications"
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 3000
	}

	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 20
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 40
	}
	if cfg.RateLimit.LoginAttempts == 0 {
		cfg.RateLimit.LoginAttempts = 10
	}
	if cfg.RateLimit.LoginWindow == 0 {
		cfg.RateLimit.LoginWindow = 15 * 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.App.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	case "":
		return &ConfigError{Field: "app.environment", Reason: "is required"}
	default:
		return &ConfigError{
			Field:  "app.environment",
			Reason: fmt.Sprintf("must be one of %s, %s, %s (got %q)", EnvDevelopment, EnvProduction, EnvTest, cfg.App.Environment),
		}
	}

	required := []struct {
		field string
		value string
	}{
		{"session.secret", cfg.Session.Secret},
		{"cloudinary.api_key", cfg.Cloudinary.APIKey},
		{"cloudinary.api_secret", cfg.Cloudinary.APISecret},
		{"cloudinary.cloud_name", cfg.Cloudinary.CloudName},
		{"cloudinary.upload_preset", cfg.Cloudinary.UploadPreset},
		{"database.postgres.host", cfg.Database.Postgres.Host},
		{"database.postgres.database", cfg.Database.Postgres.Database},
		{"database.postgres.user", cfg.Database.Postgres.User},
		{"database.redis.address", cfg.Database.Redis.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ConfigError{Field: r.field, Reason: "is required"}
		}
	}

	if cfg.App.IsProduction() && len(cfg.Session.Secret) < 32 {
		return &ConfigError{Field: "session.secret", Reason: "must be at least 32 characters in production"}
	}

	if cfg.Notifications.Enabled() && cfg.Notifications.AWS.Region == "" {
		return &ConfigError{Field: "notifications.aws.region", Reason: "is required when notifications are enabled"}
	}
	if cfg.Notifications.Email.Enabled && cfg.Notifications.Email.FromEmail == "" {
		return &ConfigError{Field: "notifications.email.from_email", Reason: "is required when e-mail is enabled"}
	}

	return nil
}
