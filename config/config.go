package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/renaldyr/gigtix/internal/models"
	"github.com/xendit/xendit-go/v6"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

// CheckoutConfig holds everything the fulfillment pipeline needs: the fee
// rate applied on top of the ticket subtotal, the redirect targets for the
// hosted payment page and how long an unpaid invoice stays open before the
// gateway expires it.
type CheckoutConfig struct {
	Currency           string
	FeeBasisPoints     int64
	SuccessRedirectURL string
	FailureRedirectURL string
	InvoiceDuration    time.Duration
	GatewayTimeout     time.Duration
}

func LoadCheckoutConfig() (*CheckoutConfig, error) {
	feeBps, err := strconv.ParseInt(getEnv("CHECKOUT_FEE_BPS", "1000"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_FEE_BPS: %w", err)
	}

	invoiceDuration, err := time.ParseDuration(getEnv("CHECKOUT_INVOICE_DURATION", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_INVOICE_DURATION: %w", err)
	}

	gatewayTimeout, err := time.ParseDuration(getEnv("CHECKOUT_GATEWAY_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_GATEWAY_TIMEOUT: %w", err)
	}

	return &CheckoutConfig{
		Currency:           getEnv("CHECKOUT_CURRENCY", "USD"),
		FeeBasisPoints:     feeBps,
		SuccessRedirectURL: getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		FailureRedirectURL: getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
		InvoiceDuration:    invoiceDuration,
		GatewayTimeout:     gatewayTimeout,
	}, nil
}

type XenditConfig struct {
	SecretKey     string
	CallbackToken string
}

func LoadXenditConfig() (*XenditConfig, error) {
	return &XenditConfig{
		SecretKey:     os.Getenv("XENDIT_SECRET_KEY"),
		CallbackToken: os.Getenv("XENDIT_CALLBACK_TOKEN"),
	}, nil
}

func InitXenditClient(config *XenditConfig) (*xendit.APIClient, error) {
	client := xendit.NewClient(config.SecretKey)

	return client, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Event{},
		&models.TicketType{},
		&models.Order{},
		&models.OrderItem{},
		&models.Ticket{},
		&models.InventoryShortfall{},
	)
	if err != nil {
		return nil, err
	}

	seedRoles(db)

	return db, nil
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: "organizer"},
		{Name: "attendee"},
		{Name: "admin"},
	}

	for _, role := range roles {
		var existingRole models.Role
		result := db.Where("name = ?", role.Name).First(&existingRole)
		if result.Error != nil {
			db.Create(&role)
		}
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
