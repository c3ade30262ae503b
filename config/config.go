package config

import (
	"fmt"
	"os"

	"github.com/dellacasa/emporio/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	SessionSecret string

	// Asaas payment gateway
	AsaasAPIURL       string
	AsaasAPIKey       string
	AsaasWebhookToken string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// LoadConfig loads configuration from environment variables. A missing
// .env file is not an error so the binary can run with a preconfigured
// environment (container, CI).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       os.Getenv("PORT"),
		Env:        os.Getenv("ENV"),

		SessionSecret: os.Getenv("SESSION_SECRET"),

		AsaasAPIURL:       os.Getenv("ASAAS_API_URL"),
		AsaasAPIKey:       os.Getenv("ASAAS_API_KEY"),
		AsaasWebhookToken: os.Getenv("ASAAS_WEBHOOK_TOKEN"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
	}

	return config, nil
}

// InitDB initializes the database connection
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	err = DB.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Category{},
		&models.Product{},
		&models.Course{},
		&models.Module{},
		&models.Lesson{},
		&models.LessonView{},
		&models.Coupon{},
		&models.ShippingRate{},
		&models.Order{},
		&models.OrderLine{},
		&models.Enrollment{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	// Coupon codes are unique case-insensitively; AutoMigrate cannot
	// express a functional index.
	err = DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code_lower
		ON coupons (LOWER(code))
		WHERE deleted_at IS NULL
	`).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to create coupon code index: %v", err))
	}
}
