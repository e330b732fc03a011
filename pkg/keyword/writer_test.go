package keyword

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteKeywords(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteKeywords(&buf, []string{"running shoes", "shoes, cheap", `the "best" shoes`}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Keyword"},
		{"running shoes"},
		{"shoes, cheap"},
		{`the "best" shoes`},
	}, rows)
}

func TestWriteKeywordsEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteKeywords(&buf, nil))

	assert.Equal(t, "Keyword\n", buf.String())
}
