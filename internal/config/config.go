package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	DatabaseURL string
	JWTExpiry   time.Duration
	Port        string

	UploadDir    string
	ImagesDir    string
	DataDir      string
	FrontendDir  string
	OCRLanguages string
	CleanupCron  string

	LogLevel  string
	LogFormat string

	Scraper ScraperConfig
}

// ScraperConfig 爬虫配置
type ScraperConfig struct {
	BaseURL      string
	TotalPages   int
	ItemsPerPage int
	Delay        time.Duration
	Workers      int
	Rate         float64
	Retries      int
	Browser      bool
	OutputDir    string
	ImagesDir    string
}

// Load 加载配置
func Load() *Config {
	expiryHours := getEnvInt("JWT_EXPIRY_HOURS", 168)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbUser := getEnv("DB_USER", "postgres")
		dbPass := getEnv("DB_PASSWORD", "postgres")
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "movie_management")
		dbSSL := getEnv("DB_SSLMODE", "disable")

		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
	}

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret))

	dataDir := getEnv("DATA_DIR", "./data")
	imagesDir := getEnv("IMAGES_DIR", dataDir+"/images")

	return &Config{
		Env:          getEnv("APP_ENV", "development"),
		AppSecret:    appSecret,
		DatabaseURL:  dbURL,
		JWTExpiry:    time.Duration(expiryHours) * time.Hour,
		Port:         getEnv("PORT", "3000"),
		UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
		ImagesDir:    imagesDir,
		DataDir:      dataDir,
		FrontendDir:  getEnv("FRONTEND_DIR", ""),
		OCRLanguages: getEnv("OCR_LANGUAGES", "chi_sim+eng"),
		CleanupCron:  getEnv("CLEANUP_CRON", "0 3 * * *"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
		Scraper: ScraperConfig{
			BaseURL:      getEnv("SCRAPER_BASE_URL", "https://movie.douban.com/top250"),
			TotalPages:   getEnvInt("SCRAPER_TOTAL_PAGES", 10),
			ItemsPerPage: getEnvInt("SCRAPER_ITEMS_PER_PAGE", 25),
			Delay:        time.Duration(getEnvInt("SCRAPER_DELAY_MS", 2000)) * time.Millisecond,
			Workers:      getEnvInt("SCRAPER_WORKERS", 1),
			Rate:         getEnvFloat("SCRAPER_RATE", 0.5),
			Retries:      getEnvInt("SCRAPER_RETRIES", 3),
			Browser:      getEnvBool("SCRAPER_BROWSER", false),
			OutputDir:    dataDir,
			ImagesDir:    imagesDir,
		},
	}
}

// UsesDefaultSecret 是否仍在使用默认密钥
func (c *Config) UsesDefaultSecret() bool {
	return c.AppSecret == defaultSecret
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
