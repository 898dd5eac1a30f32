package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ai-detector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCoerceLabel(t *testing.T) {
	cases := map[string]struct {
		label models.Label
		ok    bool
	}{
		"0":    {models.LabelHuman, true},
		"1":    {models.LabelAI, true},
		"1.0":  {models.LabelAI, true},
		" 0 ":  {models.LabelHuman, true},
		"0.5":  {0, false},
		"2":    {0, false},
		"yes":  {0, false},
		"":     {0, false},
		"-1":   {0, false},
		"1e0":  {models.LabelAI, true},
		"NaN":  {0, false},
		"0.00": {models.LabelHuman, true},
	}
	for raw, want := range cases {
		got, ok := CoerceLabel(raw)
		assert.Equal(t, want.ok, ok, raw)
		if ok {
			assert.Equal(t, want.label, got, raw)
		}
	}
}

func TestCSVSource_DropsInvalidRows(t *testing.T) {
	path := writeCSV(t, "id,text,generated\n"+
		"1,\"A person wrote this, with a comma.\",0\n"+
		"2,An essay produced by a model.,1.0\n"+
		"3,,1\n"+
		"4,label is not numeric,maybe\n"+
		"5,label out of range,3\n"+
		"6,short row\n")

	docs, err := NewCSVSource(path, "", "", zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, models.Document{Text: "A person wrote this, with a comma.", Label: models.LabelHuman}, docs[0])
	assert.Equal(t, models.LabelAI, docs[1].Label)
}

func TestCSVSource_MissingColumn(t *testing.T) {
	path := writeCSV(t, "text,label\nhello,1\n")

	_, err := NewCSVSource(path, "text", "generated", zap.NewNop()).Load(context.Background())
	var corpusErr *models.CorpusError
	require.True(t, errors.As(err, &corpusErr))
	assert.Equal(t, "generated", corpusErr.Field)
}

func TestCSVSource_EmptyAfterValidation(t *testing.T) {
	path := writeCSV(t, "text,generated\nfoo,7\n,1\n")

	_, err := NewCSVSource(path, "", "", zap.NewNop()).Load(context.Background())
	var corpusErr *models.CorpusError
	require.True(t, errors.As(err, &corpusErr))
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), "", "", zap.NewNop()).Load(context.Background())
	var corpusErr *models.CorpusError
	require.True(t, errors.As(err, &corpusErr))
}

func TestCSVSource_CustomColumnsAndBOM(t *testing.T) {
	path := writeCSV(t, "\ufeffbody,is_ai\nsome text,1\n")

	docs, err := NewCSVSource(path, "body", "is_ai", nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, models.LabelAI, docs[0].Label)
}
