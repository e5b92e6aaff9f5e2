package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dataviz-studio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func ingestString(t *testing.T, input string) IngestResult {
	t.Helper()
	result, err := NewDataIngester().IngestCSV(context.Background(), "test.csv", strings.NewReader(input), nil)
	require.NoError(t, err)
	return result
}

func TestIngestCSVSkipsHeaderAndMalformedRows(t *testing.T) {
	result := ingestString(t, "h1,h2\n1,2,CatA\n3,4\nbad,row,x\n")

	assert.Equal(t, []models.DataPoint{
		models.NewDataPoint(1, 2, "CatA"),
		models.NewDataPoint(3, 4, "Data"),
	}, result.Points)
	assert.Equal(t, 1, result.Skipped)
}

func TestIngestCSVEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []models.DataPoint
		skipped int
	}{
		{name: "empty input", input: ""},
		{name: "header only", input: "x,y,category\n"},
		{name: "header without newline", input: "x,y"},
		{
			name:  "header is never validated",
			input: "1,2,Header\n5,6\n",
			want:  []models.DataPoint{models.NewDataPoint(5, 6, "Data")},
		},
		{
			name:  "extra fields ignored",
			input: "h\n1,2,A,extra,more\n",
			want:  []models.DataPoint{models.NewDataPoint(1, 2, "A")},
		},
		{
			name:  "whitespace trimmed",
			input: "h\n 1.5 , -2.5 , Cat B \n",
			want:  []models.DataPoint{models.NewDataPoint(1.5, -2.5, "Cat B")},
		},
		{
			name:  "crlf line endings",
			input: "h1,h2\r\n1,2,A\r\n3,4\r\n",
			want:  []models.DataPoint{models.NewDataPoint(1, 2, "A"), models.NewDataPoint(3, 4, "Data")},
		},
		{
			name:  "last line without newline",
			input: "h\n1,2",
			want:  []models.DataPoint{models.NewDataPoint(1, 2, "Data")},
		},
		{
			name:  "trailing empty field defaults category",
			input: "h\n1,2,\n",
			want:  []models.DataPoint{models.NewDataPoint(1, 2, "Data")},
		},
		{
			name:    "single column skipped",
			input:   "h\n42\n\n1,\n",
			skipped: 3,
		},
		{
			name:    "non numeric y skipped",
			input:   "h\n1,abc,A\n2,3,B\n",
			want:    []models.DataPoint{models.NewDataPoint(2, 3, "B")},
			skipped: 1,
		},
		{
			name:  "scientific notation",
			input: "h\n1e2,-3.5E-1,S\n",
			want:  []models.DataPoint{models.NewDataPoint(100, -0.35, "S")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ingestString(t, tt.input)
			if len(tt.want) == 0 {
				assert.Empty(t, result.Points)
			} else {
				assert.Equal(t, tt.want, result.Points)
			}
			assert.Equal(t, tt.skipped, result.Skipped)
		})
	}
}

func TestIngestCSVProgressIsIndeterminateThenComplete(t *testing.T) {
	var b strings.Builder
	b.WriteString("x,y\n")
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&b, "%d,%d\n", i, i*2)
	}
	log := &progressLog{}

	result, err := NewDataIngester().IngestCSV(context.Background(), "big.csv", strings.NewReader(b.String()), log)

	require.NoError(t, err)
	assert.Len(t, result.Points, 250)
	assert.Equal(t, [][2]int{{100, -1}, {200, -1}, {250, 250}}, log.reports)
}

type failingReader struct {
	data []byte
	read bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.read {
		f.read = true
		return copy(p, f.data), nil
	}
	return 0, errors.New("device unplugged")
}

func TestIngestCSVIOErrorAbortsRun(t *testing.T) {
	r := &failingReader{data: []byte("h\n1,2\n3,4\n")}

	result, err := NewDataIngester().IngestCSV(context.Background(), "flaky.csv", r, nil)

	var ingestErr *IngestionError
	require.ErrorAs(t, err, &ingestErr)
	assert.Equal(t, "flaky.csv", ingestErr.Source)
	assert.Contains(t, err.Error(), "device unplugged")
	assert.Empty(t, result.Points)
}

func TestIngestFileMissing(t *testing.T) {
	_, err := NewDataIngester().IngestFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), nil)

	var ingestErr *IngestionError
	require.ErrorAs(t, err, &ingestErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestIngestFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y,c\n1,2,A\n"), 0o600))

	result, err := NewDataIngester().IngestFile(context.Background(), path, nil)

	require.NoError(t, err)
	assert.Equal(t, []models.DataPoint{models.NewDataPoint(1, 2, "A")}, result.Points)
}

func writeWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestIngestXLSXMatchesCSVRules(t *testing.T) {
	data := writeWorkbook(t, [][]interface{}{
		{"h1", "h2"},
		{1, 2, "CatA"},
		{3, 4},
		{"bad", "row", "x"},
	})

	result, err := NewDataIngester().IngestXLSX(context.Background(), "book.xlsx", bytes.NewReader(data), nil)

	require.NoError(t, err)
	assert.Equal(t, []models.DataPoint{
		models.NewDataPoint(1, 2, "CatA"),
		models.NewDataPoint(3, 4, "Data"),
	}, result.Points)
	assert.Equal(t, 1, result.Skipped)
}

func TestIngestFileDispatchesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, os.WriteFile(path, writeWorkbook(t, [][]interface{}{{"x", "y"}, {5, 6, "Z"}}), 0o600))

	result, err := NewDataIngester().IngestFile(context.Background(), path, nil)

	require.NoError(t, err)
	assert.Equal(t, []models.DataPoint{models.NewDataPoint(5, 6, "Z")}, result.Points)
}

func TestIngestXLSXRejectsGarbage(t *testing.T) {
	_, err := NewDataIngester().IngestXLSX(context.Background(), "junk.xlsx", strings.NewReader("not a workbook"), nil)

	var ingestErr *IngestionError
	require.ErrorAs(t, err, &ingestErr)
}

func TestParseRow(t *testing.T) {
	dp, ok := ParseRow([]string{"1", "2", "A", ""})
	require.True(t, ok)
	assert.Equal(t, models.NewDataPoint(1, 2, "A"), dp)

	_, ok = ParseRow([]string{"1", "", ""})
	assert.False(t, ok)

	_, ok = ParseRow(nil)
	assert.False(t, ok)
}
