package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
)

func TestParse(t *testing.T) {
	csv := " first_name , last_name,phone\n" +
		"Alice, Smith ,0700111222\n" +
		"Bob,Jones,0700333444\n"

	imp, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, []string{"first_name", "last_name", "phone"}, imp.Headers)
	require.Len(t, imp.Records, 2)
	assert.Equal(t, "Alice", imp.Records[0]["first_name"])
	assert.Equal(t, "Smith", imp.Records[0]["last_name"])
	assert.Equal(t, "0700333444", imp.Records[1]["phone"])
}

func TestParsePadsShortRows(t *testing.T) {
	csv := "first_name,last_name,phone\nAlice\n"

	imp, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, imp.Records, 1)

	rec := imp.Records[0]
	assert.Equal(t, "Alice", rec["first_name"])
	assert.Equal(t, "", rec["last_name"])
	assert.Equal(t, "", rec["phone"])
	// Every header column is present even when the row was short.
	assert.Len(t, rec, 3)
}

func TestParseSkipsBlankLines(t *testing.T) {
	csv := "first_name,phone\nAlice,123\n , \nBob,456\n"

	imp, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, imp.Records, 2)
}

func TestParseEmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""))

	var empty *appErrors.ErrEmptyImport
	assert.True(t, errors.As(err, &empty))
}

func TestParseHeaderOnly(t *testing.T) {
	_, err := Parse(strings.NewReader("first_name,last_name,phone\n"))

	var empty *appErrors.ErrEmptyImport
	assert.True(t, errors.As(err, &empty))
}

func TestValidateColumnsReportsAllMissing(t *testing.T) {
	imp, err := Parse(strings.NewReader("name,email\nAlice,a@example.com\n"))
	require.NoError(t, err)

	err = imp.ValidateColumns(SMSBaseColumns)

	var missing *appErrors.ErrMissingFields
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"first_name", "last_name", "phone"}, missing.Fields)
}

func TestValidateColumnsOK(t *testing.T) {
	imp, err := Parse(strings.NewReader("first_name,last_name,phone\nAlice,Smith,123\n"))
	require.NoError(t, err)
	assert.NoError(t, imp.ValidateColumns(SMSBaseColumns))
}

func TestPreviewBounded(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("first_name\n")
	for i := 0; i < 10; i++ {
		sb.WriteString("row\n")
	}

	imp, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)

	assert.Len(t, imp.Preview(PreviewSize), 5)
	assert.Len(t, imp.Preview(20), 10)
}
