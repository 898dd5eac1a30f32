package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-detector/internal/models"
	"ai-detector/internal/scorer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, StoreFile, cfg.Artifacts.Store)
	assert.Equal(t, 0.2, cfg.Training.TestSize)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, 10000, cfg.Training.Vectorizer.MaxFeatures)
	assert.Equal(t, scorer.DefaultPolicy(), cfg.Scoring)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadConfig_YAMLAndExpansion(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("TEST_DETECTOR_SECRET", "s3cret")

	path := writeFile(t, dir, "config.yml", `
server:
  port: "9000"
  mode: debug
  allowed_origins: ["chrome-extension://abc"]
artifacts:
  store: sqlite
corpus:
  source: sql
  driver: postgres
  dsn: postgres://detector@localhost/detector
  table: ml_dataset
  text_column: message_text
training:
  test_size: 0.25
  seed: 7
  smoothing: 0.5
  vectorizer:
    max_features: 5000
    ngram_min: 1
    ngram_max: 1
    stop_words: none
    norm: l2
scoring:
  min_length: 20
  max_length: 2000
  long_text_policy: truncate
auth:
  jwt_secret: ${TEST_DETECTOR_SECRET}
  token_ttl: 2h
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"chrome-extension://abc"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, StoreSQLite, cfg.Artifacts.Store)
	assert.Equal(t, "message_text", cfg.Corpus.TextColumn)
	assert.Equal(t, 0.25, cfg.Training.TestSize)
	assert.Equal(t, "l2", cfg.Training.Vectorizer.Norm)
	assert.Equal(t, scorer.Policy{MinLength: 20, MaxLength: 2000, LongText: scorer.LongTextTruncate}, cfg.Scoring)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DETECTOR_SERVER_PORT", "9100")
	t.Setenv("DETECTOR_SCORING_MIN_LENGTH", "10")
	t.Setenv("DETECTOR_SCORING_LONG_TEXT", "reject")
	t.Setenv("DETECTOR_TRAINING_VECTORIZER_MAX_FEATURES", "500")
	t.Setenv("DETECTOR_AUTH_JWT_SECRET", "from-env")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Scoring.MinLength)
	assert.Equal(t, scorer.LongTextReject, cfg.Scoring.LongText)
	assert.Equal(t, 500, cfg.Training.Vectorizer.MaxFeatures)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoadConfig_IgnoresUnprefixedVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "from-some-other-app")
	t.Setenv("DSN", "postgres://elsewhere/db")
	t.Setenv("LONG_TEXT_POLICY", "reject")
	t.Setenv("LONG_TEXT", "reject")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Empty(t, cfg.Corpus.DSN)
	assert.Equal(t, scorer.LongTextAccept, cfg.Scoring.LongText)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".env", "DETECTOR_DATABASE_PATH=/tmp/from-dotenv.db\n")
	t.Cleanup(func() { os.Unsetenv("DETECTOR_DATABASE_PATH") })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.Database.Path)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown field":      "server:\n  prot: \"80\"\n",
		"bad long text":      "scoring:\n  long_text_policy: shorten\n",
		"bad test size":      "training:\n  test_size: 1.5\n",
		"sql without dsn":    "corpus:\n  source: sql\n  driver: postgres\n  table: ml_dataset\n",
		"bad store":          "artifacts:\n  store: s3\n",
		"max below min":      "scoring:\n  min_length: 50\n  max_length: 10\n",
		"non numeric port":   "server:\n  port: http\n",
		"same artifact file": "artifacts:\n  vectorizer_file: a.json\n  model_file: a.json\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			_, err := LoadConfig(writeFile(t, dir, "config.yml", content))
			var cfgErr *models.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := LoadConfig("does-not-exist.yml")
	var cfgErr *models.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg.Logging.Level = level
		cfg.Logging.Development = level == "debug"
		logger, err := cfg.NewLogger()
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}

	cfg.Logging.Level = "loud"
	_, err := cfg.NewLogger()
	assert.Error(t, err)
}
