package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xeipuuv/gojsonschema"
)

func TestFormatJSONValidatesAgainstSchema(t *testing.T) {
	reports := map[string]Report{
		"full":      sampleReport(),
		"deps-only": {SchemaVersion: SchemaVersion, RootPath: ".", Mode: "deps", Match: "word", Extension: ".dart", Dependencies: &DependencySection{Unused: []string{}, UnusedDev: []string{}}},
	}

	schemaPath, err := filepath.Abs(filepath.Join("..", "..", "testdata", "report", "report.schema.json"))
	if err != nil {
		t.Fatalf("resolve schema path: %v", err)
	}
	schema := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaPath))

	for name, reportData := range reports {
		t.Run(name, func(t *testing.T) {
			formatted, err := NewFormatter(false).Format(reportData, FormatJSON)
			if err != nil {
				t.Fatalf("format json: %v", err)
			}
			result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(formatted))
			if err != nil {
				t.Fatalf("validate report schema: %v", err)
			}
			if result.Valid() {
				return
			}
			messages := make([]string, 0, len(result.Errors()))
			for _, item := range result.Errors() {
				messages = append(messages, item.String())
			}
			t.Fatalf("report failed schema validation: %s", strings.Join(messages, "; "))
		})
	}
}
