// internal/mapper/mapper.go
package mapper

import (
	"sort"
	"strings"

	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
	"github.com/unclebandit/paigham-backend/internal/model"
)

// FieldMapping binds abstract required fields (email, phone, template
// variables) to concrete import-file columns. It is immutable once built:
// the bindings are copied on construction and never exposed for writing.
type FieldMapping struct {
	bindings map[string]string
}

// Build validates and constructs a mapping. Every required field must be
// bound to a non-empty column name; the error names every unmapped field,
// not just the first.
func Build(required []string, bindings map[string]string) (FieldMapping, error) {
	var missing []string
	for _, field := range required {
		if strings.TrimSpace(bindings[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return FieldMapping{}, appErrors.NewIncompleteMapping(missing)
	}

	copied := make(map[string]string, len(bindings))
	for field, col := range bindings {
		copied[field] = col
	}
	return FieldMapping{bindings: copied}, nil
}

// Identity binds every field to a column of the same name. Used once
// contacts are committed and records already carry canonical column names.
func Identity(fields []string) FieldMapping {
	bindings := make(map[string]string, len(fields))
	for _, f := range fields {
		bindings[f] = f
	}
	return FieldMapping{bindings: bindings}
}

// Column returns the column bound to a field, or "" when unbound.
func (m FieldMapping) Column(field string) string {
	return m.bindings[field]
}

// Value looks a field up in a record through its binding.
func (m FieldMapping) Value(rec model.ContactRecord, field string) string {
	col, ok := m.bindings[field]
	if !ok {
		return ""
	}
	return rec[col]
}

// Fields returns the bound field names, sorted.
func (m FieldMapping) Fields() []string {
	out := make([]string, 0, len(m.bindings))
	for f := range m.bindings {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
