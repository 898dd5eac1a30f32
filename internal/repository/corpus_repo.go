package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"ai-detector/internal/corpus"
	"ai-detector/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Supported corpus database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CorpusRepository reads labeled documents from a SQL table such as ml_dataset
type CorpusRepository struct {
	db          *sqlx.DB
	table       string
	textColumn  string
	labelColumn string
	logger      *zap.Logger
}

// OpenCorpusDB connects to the database holding the labeled corpus
func OpenCorpusDB(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, models.Configf("unsupported corpus driver %q", driver)
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, &models.CorpusError{Msg: "failed to connect to corpus database", Err: err}
	}
	return db, nil
}

// NewCorpusRepository creates a corpus repository. Table and column names are
// interpolated into queries, so they must be plain identifiers.
func NewCorpusRepository(db *sqlx.DB, table, textColumn, labelColumn string, logger *zap.Logger) (*CorpusRepository, error) {
	if textColumn == "" {
		textColumn = corpus.DefaultTextColumn
	}
	if labelColumn == "" {
		labelColumn = corpus.DefaultLabelColumn
	}
	for _, name := range []string{table, textColumn, labelColumn} {
		if !identifierPattern.MatchString(name) {
			return nil, models.Configf("invalid SQL identifier %q", name)
		}
	}
	return &CorpusRepository{
		db:          db,
		table:       table,
		textColumn:  textColumn,
		labelColumn: labelColumn,
		logger:      logger,
	}, nil
}

// Load implements corpus.Source
func (r *CorpusRepository) Load(ctx context.Context) ([]models.Document, error) {
	if err := r.checkColumns(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s", r.textColumn, r.labelColumn, r.table)
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, &models.CorpusError{Msg: "failed to query " + r.table, Err: err}
	}
	defer rows.Close()

	var (
		docs    []models.Document
		total   int
		dropped int
	)
	for rows.Next() {
		var text, label sql.NullString
		if err := rows.Scan(&text, &label); err != nil {
			return nil, &models.CorpusError{Msg: "failed to scan row", Err: err}
		}
		total++
		if !text.Valid || !label.Valid {
			dropped++
			continue
		}
		doc, ok := corpus.NewDocument(text.String, label.String)
		if !ok {
			dropped++
			continue
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.CorpusError{Msg: "failed to read rows", Err: err}
	}

	r.logger.Info("Corpus loaded from database",
		zap.String("table", r.table),
		zap.Int("rows", total),
		zap.Int("kept", len(docs)),
		zap.Int("dropped", dropped))

	if len(docs) == 0 {
		return nil, &models.CorpusError{Msg: "no valid rows after validation"}
	}
	return docs, nil
}

func (r *CorpusRepository) checkColumns(ctx context.Context) error {
	rows, err := r.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 1", r.table))
	if err != nil {
		return &models.CorpusError{Msg: "failed to read table " + r.table, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return &models.CorpusError{Msg: "failed to read columns of " + r.table, Err: err}
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[strings.ToLower(c)] = true
	}
	for _, required := range []string{r.textColumn, r.labelColumn} {
		if !present[strings.ToLower(required)] {
			return &models.CorpusError{Field: required, Msg: "required column missing"}
		}
	}
	return nil
}
