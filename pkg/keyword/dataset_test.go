package keyword

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func TestReadDatasetComma(t *testing.T) {
	input := "Keyword,Intent,Volume,Keyword Difficulty,CPC (GBP),Trend\n" +
		"running shoes,commercial,2000,45,1.10,0.9\n" +
		"\"shoes, cheap\",commercial,500,60,0.80,0.4\n"

	ds, err := ReadDataset(strings.NewReader(input), "csv_file_1", DefaultColumns())

	require.NoError(t, err)
	assert.Equal(t, "csv_file_1", ds.Source)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, Row{Keyword: "running shoes", Volume: "2000", Difficulty: "45", CPC: "1.10"}, ds.Rows[0])
	assert.Equal(t, "shoes, cheap", ds.Rows[1].Keyword)
}

func TestReadDatasetMissingColumn(t *testing.T) {
	input := "Keyword,Volume,Keyword Difficulty\nshoes,10,20\n"

	_, err := ReadDataset(strings.NewReader(input), "csv_file_2", DefaultColumns())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "CPC (GBP)", inputErr.Column)
	assert.Equal(t, "csv_file_2", inputErr.Source)
}

func TestReadDatasetHeaderCaseInsensitive(t *testing.T) {
	input := " keyword ,VOLUME,keyword difficulty,cpc (gbp)\nshoes,10,20,0.5\n"

	ds, err := ReadDataset(strings.NewReader(input), "csv_file_1", DefaultColumns())

	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "0.5", ds.Rows[0].CPC)
}

func TestReadDatasetUTF8BOM(t *testing.T) {
	input := "\xEF\xBB\xBFKeyword,Volume,Keyword Difficulty,CPC (GBP)\nshoes,10,20,0.5\n"

	ds, err := ReadDataset(strings.NewReader(input), "csv_file_1", DefaultColumns())

	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "shoes", ds.Rows[0].Keyword)
}

func TestReadDatasetUTF16Tabs(t *testing.T) {
	text := "Keyword\tVolume\tKeyword Difficulty\tCPC (GBP)\r\nzapatos\t90\t33\t0.42\r\n"
	encoded, _, err := transform.Bytes(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder(), []byte(text))
	require.NoError(t, err)

	ds, err := ReadDataset(bytes.NewReader(encoded), "csv_file_1", DefaultColumns())

	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, Row{Keyword: "zapatos", Volume: "90", Difficulty: "33", CPC: "0.42"}, ds.Rows[0])
}

func TestReadDatasetWindows1252(t *testing.T) {
	text := "Keyword,Volume,Keyword Difficulty,CPC (GBP)\ncafé near me,300,25,1.5\n"
	encoded, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(text))
	require.NoError(t, err)

	ds, err := ReadDataset(bytes.NewReader(encoded), "csv_file_1", DefaultColumns())

	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "café near me", ds.Rows[0].Keyword)
}

func TestReadDatasetSemicolon(t *testing.T) {
	input := "Keyword;Volume;Keyword Difficulty;CPC (GBP)\nshoes;10;20;0,5\n"

	ds, err := ReadDataset(strings.NewReader(input), "csv_file_1", DefaultColumns())

	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "0,5", ds.Rows[0].CPC, "decimal commas are left for the parser to default")
}

func TestReadDatasetEmpty(t *testing.T) {
	_, err := ReadDataset(strings.NewReader(""), "csv_file_1", DefaultColumns())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadDatasetHeaderOnly(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader("Keyword,Volume,Keyword Difficulty,CPC (GBP)\n"), "csv_file_1", DefaultColumns())

	require.NoError(t, err)
	assert.Empty(t, ds.Rows)
	assert.NotNil(t, ds.Rows)
}

func TestReadDatasetBlankAndShortRows(t *testing.T) {
	input := "Keyword,Volume,Keyword Difficulty,CPC (GBP)\n" +
		",100,20,1\n" +
		"   ,100,20,1\n" +
		"short row,50\n"

	ds, err := ReadDataset(strings.NewReader(input), "csv_file_1", DefaultColumns())

	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, Row{Keyword: "short row", Volume: "50"}, ds.Rows[0])
}

func TestReadDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("Keyword,Volume,Keyword Difficulty,CPC (GBP)\nshoes,10,20,0.5\n"), 0o644))

	ds, err := ReadDatasetFile(path, SourceLabel(0), DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, "csv_file_1", ds.Source)
	assert.Len(t, ds.Rows, 1)

	_, err = ReadDatasetFile(filepath.Join(t.TempDir(), "missing.csv"), "csv_file_2", DefaultColumns())
	assert.Error(t, err)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter("a,b,c\n1;2"))
	assert.Equal(t, '\t', sniffDelimiter("a\tb\tc"))
	assert.Equal(t, ';', sniffDelimiter("a;b;c\r\nx,y,z,w,v"))
	assert.Equal(t, ',', sniffDelimiter("single"))
}
