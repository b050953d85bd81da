package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds all configuration values.
type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseDSN string `mapstructure:"DB_DSN"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Storage configuration. When GCS_BUCKET is empty uploads go to local disk.
	GCSBucket string `mapstructure:"GCS_BUCKET"`
	UploadDir string `mapstructure:"UPLOAD_DIR"`

	// Google APIs.
	GeminiAPIKey    string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string `mapstructure:"GEMINI_MODEL"`
	GeocodingAPIKey string `mapstructure:"GEOCODING_API_KEY"`

	// Bank aggregators.
	MercuryAPIKey string `mapstructure:"MERCURY_API_KEY"`
	WiseAPIKey    string `mapstructure:"WISE_API_KEY"`
	WiseProfileID string `mapstructure:"WISE_PROFILE_ID"`

	// Rupiah per US dollar, used when summing mixed-currency balances.
	USDToIDRRate float64 `mapstructure:"USD_TO_IDR_RATE"`

	// SMTP for donor OTP mail.
	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort int    `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	MailFrom string `mapstructure:"MAIL_FROM"`

	// Photo verification thresholds. Distances in meters; the hour tolerance
	// is applied on both sides of the EXIF capture hour.
	GPSHighM          float64 `mapstructure:"GPS_HIGH_M"`
	GPSLikelyM        float64 `mapstructure:"GPS_LIKELY_M"`
	GPSUncertainM     float64 `mapstructure:"GPS_UNCERTAIN_M"`
	TimeHourTolerance int     `mapstructure:"TIME_HOUR_TOLERANCE"`
}

// Load reads configuration from .env / environment variables with defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("USD_TO_IDR_RATE", 16000.0)
	viper.SetDefault("GPS_HIGH_M", 150.0)
	viper.SetDefault("GPS_LIKELY_M", 500.0)
	viper.SetDefault("GPS_UNCERTAIN_M", 2000.0)
	viper.SetDefault("TIME_HOUR_TOLERANCE", 2)

	keys := []string{
		"PORT", "ENV", "DB_DSN", "JWT_SECRET", "LOG_LEVEL",
		"GCS_BUCKET", "UPLOAD_DIR",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEOCODING_API_KEY",
		"MERCURY_API_KEY", "WISE_API_KEY", "WISE_PROFILE_ID", "USD_TO_IDR_RATE",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "MAIL_FROM",
		"GPS_HIGH_M", "GPS_LIKELY_M", "GPS_UNCERTAIN_M", "TIME_HOUR_TOLERANCE",
	}
	for _, k := range keys {
		if err := viper.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Connect opens the Postgres connection. The handle is passed explicitly to
// everything that needs it; there is no package-level DB.
func Connect(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
