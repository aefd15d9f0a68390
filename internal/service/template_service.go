// internal/service/template_service.go
package service

import (
	"regexp"
	"strings"

	"github.com/unclebandit/paigham-backend/internal/mapper"
	"github.com/unclebandit/paigham-backend/internal/model"
)

// Matches {name} and {{name}} placeholder tokens.
var variablePattern = regexp.MustCompile(`\{\{?([A-Za-z_][A-Za-z0-9_]*)\}?\}`)

// ExtractVariables scans template content for placeholder tokens and returns
// the unique variable names in order of first appearance. Templates store
// this derived set; it is recomputed on every content edit.
func ExtractVariables(content string) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, m := range variablePattern.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			vars = append(vars, name)
		}
	}
	return vars
}

// Personalize substitutes the template's placeholders with per-recipient
// values resolved through the field mapping. When the record lacks the bound
// column, or the value is blank, the literal token stays in place so previews
// remain informative. Pure function of its inputs; no escaping is performed.
func Personalize(template string, rec model.ContactRecord, binding mapper.FieldMapping) string {
	result := template
	for _, name := range ExtractVariables(template) {
		value := binding.Value(rec, name)
		if strings.TrimSpace(value) == "" {
			continue
		}
		result = strings.ReplaceAll(result, "{{"+name+"}}", value)
		result = strings.ReplaceAll(result, "{"+name+"}", value)
	}
	return result
}
