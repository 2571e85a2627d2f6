package csvdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/internal"
	"statlab/internal/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func quietReader() *Reader {
	return NewReader(internal.NewLogger(internal.LogLevelError))
}

func TestReader_ReadPaired(t *testing.T) {
	path := writeCSV(t, "\ufeffhours, score,name\n1,52,a\n2,,b\n3,61,c\n4,70\n")

	data, err := quietReader().ReadPaired(path, "Hours", "score")
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 3, 4}, data.X)
	assert.Equal(t, []float64{52, 61, 70}, data.Y)
}

func TestReader_ReadColumn(t *testing.T) {
	path := writeCSV(t, "weight\n3.5\n\n4.25\n 5 \n")

	obs, err := quietReader().ReadColumn(path, "weight")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.5, 4.25, 5}, []float64(obs))
}

func TestReader_Errors(t *testing.T) {
	r := quietReader()

	tests := []struct {
		name    string
		content string
		x, y    string
		code    string
		message string
	}{
		{"missing column", "a,b\n1,2\n2,3\n", "a", "c", errors.CodeInvalidInput, `column "c" not found`},
		{"non-numeric", "a,b\n1,2\nx,3\n", "a", "b", errors.CodeInvalidInput, "line 3"},
		{"infinite", "a,b\n1,2\nInf,3\n", "a", "b", errors.CodeInvalidInput, "not a number"},
		{"header only", "a,b\n", "a", "b", errors.CodeInvalidInput, "header row"},
		{"one pair", "a,b\n1,2\n", "a", "b", errors.CodeInvalidArgument, "at least 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ReadPaired(writeCSV(t, tt.content), tt.x, tt.y)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	_, err := r.ReadColumn(filepath.Join(t.TempDir(), "missing.csv"), "a")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestReader_Parse(t *testing.T) {
	table, err := quietReader().Parse(strings.NewReader("x,y\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, table.Headers)
	assert.Len(t, table.Rows, 1)
}
