package config

import (
	"log"

	"github.com/spf13/viper"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Defaults DefaultsConfig
	Scan     ScanConfig
	Calendar CalendarConfig
	Site     models.SiteInfo
}

type ServerConfig struct {
	Port               string
	Env                string
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

// DatabaseConfig describes the optional hosted backend. Leaving URL and Host
// empty means "no credentials configured" and the app runs local-only.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

type DefaultsConfig struct {
	AdminPIN string `mapstructure:"admin_pin"`
}

type ScanConfig struct {
	OpenAIKey string `mapstructure:"openai_key"`
	Model     string
}

type CalendarConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// Load reads .env (with OS environment override) plus the TOML site block and
// returns the assembled configuration for the composition root to inject.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, checking environment variables: %v", err)
	}

	viper.AutomaticEnv()
	viper.BindEnv("SERVER_PORT", "PORT") // Fallback to PORT if SERVER_PORT is missing
	viper.BindEnv("DATABASE_URL")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")

	cfg := &Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			Env:                viper.GetString("SERVER_ENV"),
			JWTSecret:          viper.GetString("JWT_SECRET"),
			JWTExpirationHours: viper.GetInt("JWT_EXPIRATION_HOURS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			URL:      viper.GetString("DATABASE_URL"),
		},
		Storage: StorageConfig{
			DataDir: viper.GetString("DATA_DIR"),
		},
		Defaults: DefaultsConfig{
			AdminPIN: viper.GetString("ADMIN_PIN"),
		},
		Scan: ScanConfig{
			OpenAIKey: viper.GetString("OPENAI_API_KEY"),
			Model:     viper.GetString("OPENAI_MODEL"),
		},
		Calendar: CalendarConfig{
			WebhookURL: viper.GetString("CALENDAR_WEBHOOK_URL"),
		},
	}

	// Load TOML config for site info
	siteViper := viper.New()
	siteViper.SetConfigFile("config/config.toml")
	siteViper.SetConfigType("toml")
	if err := siteViper.ReadInConfig(); err != nil {
		log.Printf("Warning: config/config.toml not found, using empty site info: %v", err)
	} else {
		if err := siteViper.UnmarshalKey("site", &cfg.Site); err != nil {
			log.Printf("Error: Failed to unmarshal site info from TOML: %v", err)
		}
	}

	log.Printf("Configuration loaded:")
	log.Printf("- Server Port: %s", cfg.Server.Port)
	log.Printf("- Data Dir: %s", cfg.Storage.DataDir)
	log.Printf("- Remote Database: %s", func() string {
		if cfg.Database.URL != "" || cfg.Database.Host != "" {
			return "CONFIGURED"
		}
		return "NOT CONFIGURED (local-only mode)"
	}())
	log.Printf("- Scan Service: %s", func() string {
		if cfg.Scan.OpenAIKey != "" {
			return "ENABLED"
		}
		return "DISABLED"
	}())
	return cfg
}
