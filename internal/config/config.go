package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// StoreDriverEnv is the environment variable selecting the product store backend.
	StoreDriverEnv = "STORE_DRIVER"

	// MongoURIEnv is the environment variable for the MongoDB connection string.
	MongoURIEnv = "MONGO_URI"

	// MongoDBEnv is the environment variable for the MongoDB database name.
	MongoDBEnv = "MONGO_DB"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// DBMigrationsURLEnv is the environment variable for the migration source URL.
	DBMigrationsURLEnv = "DB_MIGRATIONS_URL"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// WebServerPortEnv is the environment variable for the catalog frontend port.
	WebServerPortEnv = "WEB_SERVER_PORT"

	// CatalogAPIURLEnv is the environment variable for the products resource URL used by the frontend.
	CatalogAPIURLEnv = "CATALOG_API_URL"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// EventBrokerEnv is the environment variable selecting where product events are published.
	EventBrokerEnv = "EVENT_BROKER"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"

	// RabbitMQURLEnv is the environment variable for the RabbitMQ connection URL.
	RabbitMQURLEnv = "RABBITMQ_URL"

	// RabbitMQQueueEnv is the environment variable for the RabbitMQ queue name.
	RabbitMQQueueEnv = "RABBITMQ_QUEUE"
)

// Store drivers.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Event brokers. An empty broker disables publishing.
const (
	BrokerNone     = ""
	BrokerSQS      = "sqs"
	BrokerRabbitMQ = "rabbitmq"
)

const (
	defaultMongoDB       = "products_db"
	defaultRabbitMQQueue = "product_events"
	defaultCatalogAPIURL = "http://localhost:8080/api/products"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")

	// ErrUnsupportedValue is returned when an enumerated setting has an unknown value.
	ErrUnsupportedValue = errors.New("unsupported config value")
)

// Config represents the application configuration.
type Config struct {
	DebugMode     bool
	StoreDriver   string
	Mongo         Mongo
	Database      DB
	HTTPServer    Server
	MetricsServer Server
	WebServer     Server
	CatalogAPIURL string
	EventBroker   string
	AWS           AWSConfig
	RabbitMQ      RabbitMQConfig
}

// Mongo represents MongoDB configuration settings.
type Mongo struct {
	URI      string
	Database string
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// RabbitMQConfig represents RabbitMQ configuration settings.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// DB represents database configuration settings.
type DB struct {
	Host          string
	User          string
	Password      string
	Name          string
	Port          string
	MigrationsURL string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value))
	return fmt.Errorf("%w for key %s: %q", ErrUnsupportedValue, key, value)
}

func (c *Config) validateStore() error {
	if err := oneOf(StoreDriverEnv, c.StoreDriver, StoreMongo, StorePostgres, StoreMemory); err != nil {
		return err
	}

	switch c.StoreDriver {
	case StoreMongo:
		if err := allNonEmpty(map[string]string{
			MongoURIEnv: c.Mongo.URI,
			MongoDBEnv:  c.Mongo.Database,
		}); err != nil {
			return fmt.Errorf("mongo configuration incomplete: %w", err)
		}
	case StorePostgres:
		if err := allNonEmpty(map[string]string{
			DBHostEnv: c.Database.Host,
			DBUserEnv: c.Database.User,
			DBNameEnv: c.Database.Name,
		}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
		if err := allNumbers(map[string]string{
			DBPortEnv: c.Database.Port,
		}); err != nil {
			return fmt.Errorf("invalid port number: %w", err)
		}
	}
	return nil
}

func (c *Config) validateBroker() error {
	if err := oneOf(EventBrokerEnv, c.EventBroker, BrokerNone, BrokerSQS, BrokerRabbitMQ); err != nil {
		return err
	}

	switch c.EventBroker {
	case BrokerSQS:
		if err := allNonEmpty(map[string]string{
			SQSQueueURLEnv: c.AWS.SQSQueueURL,
		}); err != nil {
			return fmt.Errorf("AWS configuration incomplete: %w", err)
		}
	case BrokerRabbitMQ:
		if err := allNonEmpty(map[string]string{
			RabbitMQURLEnv:   c.RabbitMQ.URL,
			RabbitMQQueueEnv: c.RabbitMQ.Queue,
		}); err != nil {
			return fmt.Errorf("RabbitMQ configuration incomplete: %w", err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}

	// Validate server ports
	if err := allNonEmpty(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("server port configuration incomplete: %w", err)
	}

	// Validate port numbers
	if err := allNumbers(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	return c.validateBroker()
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnv(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func applyDefaultEnvFile() {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	err := ApplyEnvFile(envPath)
	if err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}
}

func fromEnv() *Config {
	return &Config{
		DebugMode:   getEnvAsBool(DebugModeEnv, false),
		StoreDriver: getEnv(StoreDriverEnv, StoreMongo),
		Mongo: Mongo{
			URI:      os.Getenv(MongoURIEnv),
			Database: getEnv(MongoDBEnv, defaultMongoDB),
		},
		Database: DB{
			Host:          os.Getenv(DBHostEnv),
			User:          os.Getenv(DBUserEnv),
			Password:      os.Getenv(DBPassEnv),
			Name:          os.Getenv(DBNameEnv),
			Port:          os.Getenv(DBPortEnv),
			MigrationsURL: os.Getenv(DBMigrationsURLEnv),
		},
		HTTPServer: Server{
			Port: os.Getenv(HTTPServerPortEnv),
		},
		MetricsServer: Server{
			Port: os.Getenv(MetricsServerPortEnv),
		},
		WebServer: Server{
			Port: os.Getenv(WebServerPortEnv),
		},
		CatalogAPIURL: getEnv(CatalogAPIURLEnv, defaultCatalogAPIURL),
		EventBroker:   os.Getenv(EventBrokerEnv),
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   os.Getenv(RabbitMQURLEnv),
			Queue: getEnv(RabbitMQQueueEnv, defaultRabbitMQQueue),
		},
	}
}

// LoadFromEnv loads the product API configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	applyDefaultEnvFile()

	conf := fromEnv()
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}

// LoadWebFromEnv loads the catalog frontend configuration.
func LoadWebFromEnv() (*Config, error) {
	applyDefaultEnvFile()

	conf := fromEnv()
	if err := allNonEmpty(map[string]string{
		WebServerPortEnv: conf.WebServer.Port,
		CatalogAPIURLEnv: conf.CatalogAPIURL,
	}); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := allNumbers(map[string]string{
		WebServerPortEnv: conf.WebServer.Port,
	}); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}

// LoadNotifierFromEnv loads the notification consumer configuration.
func LoadNotifierFromEnv() (*Config, error) {
	applyDefaultEnvFile()

	conf := fromEnv()
	if err := allNonEmpty(map[string]string{
		SQSQueueURLEnv: conf.AWS.SQSQueueURL,
	}); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
