package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"ai-detector/internal/models"
	"ai-detector/internal/scorer"
	"ai-detector/internal/trainer"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. DETECTOR_SERVER_PORT
const EnvPrefix = "DETECTOR"

// Artifact store kinds
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Corpus source kinds
const (
	CorpusCSV = "csv"
	CorpusSQL = "sql"
)

// Config holds application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" validate:"required,numeric"`
		Mode           string   `yaml:"mode" validate:"oneof=debug release test"`
		AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
	} `yaml:"server"`

	Logging struct {
		Level       string `yaml:"level" validate:"oneof=debug info warn error"`
		Development bool   `yaml:"development"`
	} `yaml:"logging"`

	Database struct {
		Path string `yaml:"path" validate:"required"` // SQLite path for runs and artifacts
	} `yaml:"database"`

	Artifacts struct {
		Store          string `yaml:"store" validate:"oneof=file sqlite"`
		Dir            string `yaml:"dir"`
		VectorizerFile string `yaml:"vectorizer_file" split_words:"true"`
		ModelFile      string `yaml:"model_file" split_words:"true"`
	} `yaml:"artifacts"`

	Corpus struct {
		Source      string `yaml:"source" validate:"oneof=csv sql"`
		Path        string `yaml:"path"`
		TextColumn  string `yaml:"text_column" split_words:"true"`
		LabelColumn string `yaml:"label_column" split_words:"true"`
		Driver      string `yaml:"driver" validate:"omitempty,oneof=postgres sqlite"`
		DSN         string `yaml:"dsn"`
		Table       string `yaml:"table"`
	} `yaml:"corpus"`

	Training trainer.Config `yaml:"training"`
	Scoring  scorer.Policy  `yaml:"scoring"`

	Auth struct {
		JWTSecret string        `yaml:"jwt_secret" split_words:"true"`
		TokenTTL  time.Duration `yaml:"token_ttl" split_words:"true"`
	} `yaml:"auth"`
}

// Default returns the configuration used when a setting is absent
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8000"
	cfg.Server.Mode = "release"
	cfg.Logging.Level = "info"
	cfg.Database.Path = "./data/detector.db"
	cfg.Artifacts.Store = StoreFile
	cfg.Artifacts.Dir = "./models"
	cfg.Artifacts.VectorizerFile = "vectorizer.json"
	cfg.Artifacts.ModelFile = "model.json"
	cfg.Corpus.Source = CorpusCSV
	cfg.Corpus.Path = "ai_human_essays.csv"
	cfg.Training = trainer.DefaultConfig()
	cfg.Scoring = scorer.DefaultPolicy()
	cfg.Auth.TokenTTL = 24 * time.Hour
	return cfg
}

// LoadConfig loads configuration from a YAML file, then a .env file in the working
// directory, then DETECTOR_* environment variables. configPath may be empty.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, &models.ConfigError{Msg: "failed to open config file", Err: err}
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, &models.ConfigError{Msg: "failed to decode config file", Err: err}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &models.ConfigError{Msg: "failed to load .env", Err: err}
	}

	// Expand environment variables in secrets and connection strings
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)
	config.Corpus.DSN = os.ExpandEnv(config.Corpus.DSN)
	config.Corpus.Path = os.ExpandEnv(config.Corpus.Path)
	config.Database.Path = os.ExpandEnv(config.Database.Path)

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, &models.ConfigError{Msg: "failed to apply environment overrides", Err: err}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

var validate = validator.New()

// Validate checks field constraints and the settings that depend on each other
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &models.ConfigError{Msg: "invalid configuration", Err: err}
	}
	if err := c.Scoring.Validate(); err != nil {
		return err
	}

	switch c.Artifacts.Store {
	case StoreFile:
		if c.Artifacts.Dir == "" || c.Artifacts.VectorizerFile == "" || c.Artifacts.ModelFile == "" {
			return models.Configf("file artifact store requires dir, vectorizer_file and model_file")
		}
		if c.Artifacts.VectorizerFile == c.Artifacts.ModelFile {
			return models.Configf("vectorizer_file and model_file must differ")
		}
	}

	switch c.Corpus.Source {
	case CorpusCSV:
		if c.Corpus.Path == "" {
			return models.Configf("csv corpus requires a path")
		}
	case CorpusSQL:
		if c.Corpus.Driver == "" || c.Corpus.DSN == "" || c.Corpus.Table == "" {
			return models.Configf("sql corpus requires driver, dsn and table")
		}
	}
	return nil
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Server.Port)
}
