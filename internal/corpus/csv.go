package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"ai-detector/internal/models"

	"go.uber.org/zap"
)

// CSVSource reads a comma separated file with a header row
type CSVSource struct {
	Path        string
	TextColumn  string
	LabelColumn string
	logger      *zap.Logger
}

// NewCSVSource creates a CSV corpus source, falling back to the default column names
func NewCSVSource(path, textColumn, labelColumn string, logger *zap.Logger) *CSVSource {
	if textColumn == "" {
		textColumn = DefaultTextColumn
	}
	if labelColumn == "" {
		labelColumn = DefaultLabelColumn
	}
	return &CSVSource{
		Path:        path,
		TextColumn:  textColumn,
		LabelColumn: labelColumn,
		logger:      logger,
	}
}

// Load reads and validates every row of the file
func (s *CSVSource) Load(ctx context.Context) ([]models.Document, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, &models.CorpusError{Msg: "failed to open dataset " + s.Path, Err: err}
	}
	defer file.Close()

	return s.read(ctx, file)
}

func (s *CSVSource) read(ctx context.Context, r io.Reader) ([]models.Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.CorpusError{Msg: "dataset is empty"}
	}
	if err != nil {
		return nil, &models.CorpusError{Msg: "failed to read header", Err: err}
	}

	textIdx, labelIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case s.TextColumn:
			textIdx = i
		case s.LabelColumn:
			labelIdx = i
		}
	}
	if textIdx < 0 {
		return nil, &models.CorpusError{Field: s.TextColumn, Msg: "required column missing"}
	}
	if labelIdx < 0 {
		return nil, &models.CorpusError{Field: s.LabelColumn, Msg: "required column missing"}
	}

	var (
		docs    []models.Document
		rows    int
		dropped int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &models.CorpusError{Msg: "failed to read row", Err: err}
		}
		rows++
		if textIdx >= len(record) || labelIdx >= len(record) {
			dropped++
			continue
		}
		doc, ok := NewDocument(record[textIdx], record[labelIdx])
		if !ok {
			dropped++
			continue
		}
		docs = append(docs, doc)
	}

	if s.logger != nil {
		s.logger.Info("Corpus loaded",
			zap.String("path", s.Path),
			zap.Int("rows", rows),
			zap.Int("kept", len(docs)),
			zap.Int("dropped", dropped))
	}

	if len(docs) == 0 {
		return nil, &models.CorpusError{Msg: "no valid rows after validation"}
	}
	return docs, nil
}
