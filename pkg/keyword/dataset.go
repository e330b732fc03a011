package keyword

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Columns names the header cells of a keyword research export.
type Columns struct {
	Keyword    string `mapstructure:"keyword"`
	Volume     string `mapstructure:"volume"`
	Difficulty string `mapstructure:"difficulty"`
	CPC        string `mapstructure:"cpc"`
}

// DefaultColumns matches the exports the upload stage accepts.
func DefaultColumns() Columns {
	return Columns{
		Keyword:    "Keyword",
		Volume:     "Volume",
		Difficulty: "Keyword Difficulty",
		CPC:        "CPC (GBP)",
	}
}

// SourceLabel returns the label of the i-th uploaded file (0-based).
func SourceLabel(i int) string {
	return fmt.Sprintf("csv_file_%d", i+1)
}

// ReadDatasetFile reads a keyword export from disk.
func ReadDatasetFile(path, source string, cols Columns) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDataset(f, source, cols)
}

// ReadDataset parses a keyword export. The text may be UTF-8, UTF-8 or
// UTF-16 with a byte order mark, or Windows-1252; the delimiter may be a
// comma, tab or semicolon. Every column in cols must be present.
func ReadDataset(r io.Reader, source string, cols Columns) (Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read %s: %w", source, err)
	}

	text, err := decodeText(raw)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to decode %s: %w", source, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Dataset{}, &InputError{Source: source, Reason: "no header row"}
	}
	if err != nil {
		return Dataset{}, &InputError{Source: source, Reason: fmt.Sprintf("malformed header: %v", err)}
	}

	idx, err := locateColumns(header, source, cols)
	if err != nil {
		return Dataset{}, err
	}

	ds := Dataset{Source: source, Rows: []Row{}}
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, &InputError{Source: source, Reason: fmt.Sprintf("malformed row %d: %v", line, err)}
		}
		row := Row{
			Keyword:    field(fields, idx[0]),
			Volume:     field(fields, idx[1]),
			Difficulty: field(fields, idx[2]),
			CPC:        field(fields, idx[3]),
		}
		if strings.TrimSpace(row.Keyword) == "" {
			continue
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func locateColumns(header []string, source string, cols Columns) ([4]int, error) {
	idx := [4]int{-1, -1, -1, -1}
	wanted := [4]string{cols.Keyword, cols.Volume, cols.Difficulty, cols.CPC}
	for i, h := range header {
		name := normalizeHeader(h)
		for j, w := range wanted {
			if idx[j] == -1 && name == normalizeHeader(w) {
				idx[j] = i
			}
		}
	}
	for j, w := range wanted {
		if idx[j] == -1 {
			return idx, missingColumn(source, w)
		}
	}
	return idx, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// decodeText converts an upload to UTF-8. A BOM decides the encoding when
// present; otherwise invalid UTF-8 is read as Windows-1252.
func decodeText(raw []byte) (string, error) {
	if hasBOM(raw) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hasBOM(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
}

// sniffDelimiter picks the most frequent candidate on the header line.
func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	for _, c := range []rune{'\t', ';'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
