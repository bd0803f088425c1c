package schema_test

import (
	"encoding/json"
	"testing"

	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/schema"
	"github.com/sunholo/ergo/internal/test"
)

// TestErrorSchemaIntegration verifies a Report's deterministic-JSON
// encoding round-trips through the schema package end-to-end.
func TestErrorSchemaIntegration(t *testing.T) {
	rep := &ergoerrors.Report{
		Schema:  ergoerrors.Schema,
		Code:    ergoerrors.TypeMismatch,
		Kind:    ergoerrors.KindType,
		Phase:   "typecheck",
		Message: "expected Int, got String",
	}
	encoded := ergoerrors.WithFix(rep, "", 0.0)

	jsonData, err := encoded.ToJSON()
	if err != nil {
		t.Fatalf("Failed to convert error to JSON: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonData, &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	schemaField, ok := parsed["schema"].(string)
	if !ok {
		t.Fatal("Missing or invalid schema field")
	}
	if !schema.Accepts(schemaField, schema.ErrorV1) {
		t.Errorf("Schema %q not accepted by %q", schemaField, schema.ErrorV1)
	}

	requiredFields := []string{"schema", "code", "kind", "phase", "message", "fix"}
	for _, field := range requiredFields {
		if _, ok := parsed[field]; !ok {
			t.Errorf("Missing required field: %s", field)
		}
	}
}

// TestTestReportSchemaIntegration verifies test report JSON schemas work end-to-end
func TestTestReportSchemaIntegration(t *testing.T) {
	runner := test.NewRunner()
	runner.RunTest("integration", "test1", func() error { return nil })
	report := runner.GetReport()

	jsonData, err := report.ToJSON()
	if err != nil {
		t.Fatalf("Failed to convert report to JSON: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonData, &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	schemaField, ok := parsed["schema"].(string)
	if !ok {
		t.Fatal("Missing or invalid schema field")
	}
	if !schema.Accepts(schemaField, schema.TestV1) {
		t.Errorf("Schema %q not accepted by %q", schemaField, schema.TestV1)
	}

	requiredFields := []string{"schema", "run_id", "duration_ms", "counts", "cases", "platform"}
	for _, field := range requiredFields {
		if _, ok := parsed[field]; !ok {
			t.Errorf("Missing required field: %s", field)
		}
	}
}

// TestCompactModeIntegration verifies compact mode works with real data
func TestCompactModeIntegration(t *testing.T) {
	runner := test.NewRunner()
	runner.RunTest("compact", "test1", func() error { return nil })
	report := runner.GetReport()

	schema.SetCompactMode(false)
	prettyJSON, err := report.ToJSON()
	if err != nil {
		t.Fatalf("Failed to generate pretty JSON: %v", err)
	}

	schema.SetCompactMode(true)
	compactJSON, err := report.ToJSON()
	if err != nil {
		t.Fatalf("Failed to generate compact JSON: %v", err)
	}
	schema.SetCompactMode(false)

	if len(prettyJSON) <= len(compactJSON) {
		t.Error("Pretty JSON should be longer than compact JSON")
	}

	var prettyParsed, compactParsed interface{}
	if err := json.Unmarshal(prettyJSON, &prettyParsed); err != nil {
		t.Fatalf("Failed to parse pretty JSON: %v", err)
	}
	if err := json.Unmarshal(compactJSON, &compactParsed); err != nil {
		t.Fatalf("Failed to parse compact JSON: %v", err)
	}
}

// TestDeterministicOutput verifies JSON output is deterministic across
// repeated runs of an identical report.
func TestDeterministicOutput(t *testing.T) {
	outputs := make([]string, 3)

	for i := 0; i < 3; i++ {
		runner := test.NewRunner()
		runner.RunTest("deterministic", "test1", func() error { return nil })
		runner.RunTest("deterministic", "test2", func() error { return nil })
		report := runner.GetReport()

		report.RunID = "fixed_run_id"
		report.Platform.Timestamp = "2024-01-01T00:00:00Z"
		report.DurationMs = 100
		for j := range report.Cases {
			report.Cases[j].TimeMs = 10
		}

		jsonData, err := report.ToJSON()
		if err != nil {
			t.Fatalf("Failed to generate JSON (iteration %d): %v", i, err)
		}
		outputs[i] = string(jsonData)
	}

	for i := 1; i < len(outputs); i++ {
		if outputs[i] != outputs[0] {
			t.Errorf("Output %d differs from output 0:\nOutput 0:\n%s\nOutput %d:\n%s",
				i, outputs[0], i, outputs[i])
		}
	}
}
