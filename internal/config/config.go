// Package config provides types for handling configuration parameters.

package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Server defines variables for a subset of configuration parameters.
type Server struct {
	ServerAddress string        `env:"SERVER_ADDRESS" env-default:":8888"`
	BaseURL       string        `env:"BASE_URL" env-default:"/"`
	IdleTimeout   time.Duration `env:"IDLE_TIMEOUT" env-default:"120s"`
	ReadTimeout   time.Duration `env:"READ_TIMEOUT" env-default:"120s"`
	WriteTimeout  time.Duration `env:"WRITE_TIMEOUT" env-default:"15m"`
}

// Notebook defines variables for a subset of configuration parameters.
type Notebook struct {
	RootDir        string `env:"SERVER_ROOT_DIR" env-default:"."`
	RestrictToRoot bool   `env:"NOTEBOOK_RESTRICT_TO_ROOT" env-default:"false"`
}

// Nbgrader defines variables for a subset of configuration parameters.
type Nbgrader struct {
	Executable      string        `env:"NBGRADER_EXEC" env-default:"nbgrader"`
	ValidateTimeout time.Duration `env:"VALIDATE_TIMEOUT" env-default:"10m"`
	MaxConcurrent   int64         `env:"VALIDATE_MAX_CONCURRENT" env-default:"0"`
	RecordTimeout   time.Duration `env:"RECORD_TIMEOUT" env-default:"10s"`
}

// Jupyter defines variables for a subset of configuration parameters.
type Jupyter struct {
	Executable         string        `env:"JUPYTER_EXEC" env-default:"jupyter"`
	CompetingExtension string        `env:"JUPYTER_COMPETING_EXTENSION" env-default:"nbgrader:validate-assignment"`
	LockTimeout        time.Duration `env:"JUPYTER_LOCK_TIMEOUT" env-default:"60s"`
	LockDisabled       bool          `env:"JUPYTER_LOCK_DISABLED" env-default:"false"`
}

// Auth defines variables for a subset of configuration parameters.
type Auth struct {
	Token     string        `env:"SERVER_TOKEN"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" env-default:"24h"`
	Disabled  bool          `env:"AUTH_DISABLED" env-default:"false"`
}

// S3Storage defines variables for a subset of configuration parameters.
type S3Storage struct {
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"S3_ENDPOINT" env-default:"storage.yandexcloud.net"`
	Region          string `env:"S3_REGION" env-default:"ru-central1"`
	Bucket          string `env:"S3_BUCKET"`
	FolderReports   string `env:"S3_FOLDER_REPORTS" env-default:"nbgrader_reports"`
}

// AMQP defines variables for a subset of configuration parameters.
type AMQP struct {
	Addr                         string `env:"AMQP_ADDR"`
	ValidationExchangeInputName  string `env:"AMQP_VALIDATION_EXCHANGE_INPUT_NAME" env-default:"nbgrader_validation_input"`
	ValidationExchangeOutputName string `env:"AMQP_VALIDATION_EXCHANGE_OUTPUT_NAME" env-default:"nbgrader_validation_output"`
	ValidationQueueName          string `env:"AMQP_VALIDATION_QUEUE_NAME" env-default:"nbgrader_validation"`
	ResultsQueueName             string `env:"AMQP_RESULTS_QUEUE_NAME" env-default:"nbgrader_results"`
}

// Config defines configuration parameters for an app.
type Config struct {
	Server    Server
	Notebook  Notebook
	Nbgrader  Nbgrader
	Jupyter   Jupyter
	Auth      Auth
	DB        DB
	Logger    Logger
	S3Storage S3Storage
	AMQP      AMQP
}

// DB defines variables for a subset of configuration parameters.
type DB struct {
	DatabaseDSN string `env:"DATABASE_DSN"`
}

// Logger defines variables for a subset of configuration parameters.
type Logger struct {
	Level  int    `env:"LOG_LEVEL" env-default:"0"`
	Format string `env:"LOG_FORMAT" env-default:"console"`
}

// NewConfig initializes a new Config instance and parses environment variables.
func NewConfig() *Config {
	var cfg Config
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		panic(err)
	}
	return &cfg
}
