package keyword

import (
	"encoding/csv"
	"fmt"
	"io"
)

// OutputColumn is the single header of the selection artifact.
const OutputColumn = "Keyword"

// WriteKeywords writes keywords as a one-column CSV.
func WriteKeywords(w io.Writer, keywords []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{OutputColumn}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, kw := range keywords {
		if err := cw.Write([]string{kw}); err != nil {
			return fmt.Errorf("failed to write keyword: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
