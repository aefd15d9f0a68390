// internal/importer/importer.go
package importer

import (
	"encoding/csv"
	"io"
	"strings"

	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
	"github.com/unclebandit/paigham-backend/internal/model"
)

// SMSBaseColumns are the hard-required headers for an SMS-oriented import.
// Email campaigns derive their address through the field mapper instead.
var SMSBaseColumns = []string{"first_name", "last_name", "phone"}

// PreviewSize is how many records are returned for user confirmation.
const PreviewSize = 5

// Import is a parsed contact file: trimmed headers plus one record per
// non-blank data row.
type Import struct {
	Headers []string
	Records []model.ContactRecord
}

// Parse reads a delimited contact file. The first line is the header row;
// header cells and values are trimmed of surrounding whitespace. Rows shorter
// than the header are padded with empty strings rather than rejected. An
// empty or header-only file fails with ErrEmptyImport.
func Parse(r io.Reader) (*Import, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headerRow, err := cr.Read()
	if err == io.EOF {
		return nil, appErrors.NewEmptyImport()
	}
	if err != nil {
		return nil, err
	}

	headers := make([]string, len(headerRow))
	for i, h := range headerRow {
		headers[i] = strings.TrimSpace(h)
	}

	imp := &Import{Headers: headers}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(row) {
			continue
		}

		rec := model.ContactRecord{}
		for i, h := range headers {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			} else {
				rec[h] = ""
			}
		}
		imp.Records = append(imp.Records, rec)
	}

	if len(imp.Records) == 0 {
		return nil, appErrors.NewEmptyImport()
	}
	return imp, nil
}

// ValidateColumns checks that every required column appears among the
// headers, reporting the full list of missing columns.
func (imp *Import) ValidateColumns(required []string) error {
	present := make(map[string]bool, len(imp.Headers))
	for _, h := range imp.Headers {
		present[h] = true
	}

	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return appErrors.NewMissingFields(missing)
	}
	return nil
}

// Preview returns up to n records for user confirmation.
func (imp *Import) Preview(n int) []model.ContactRecord {
	if n > len(imp.Records) {
		n = len(imp.Records)
	}
	return imp.Records[:n]
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
