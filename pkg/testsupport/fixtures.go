// Package testsupport provides fixture loaders and golden-file helpers for
// tests across the module.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/schema"
)

// LoadForm reads a schema fixture. Testing helpers fail the test on error to
// keep contract tests concise.
func LoadForm(t *testing.T, path string) schema.Form {
	t.Helper()

	form, err := LoadFormFromPath(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadFormFromPath returns a Form without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadFormFromPath(path string) (schema.Form, error) {
	if path == "" {
		return schema.Form{}, errors.New("testsupport: form path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Form{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	var form schema.Form
	if err := json.Unmarshal(data, &form); err != nil {
		return schema.Form{}, fmt.Errorf("testsupport: unmarshal form: %w", err)
	}
	return form, nil
}

// LoadResponse reads a response fixture.
func LoadResponse(t *testing.T, path string) schema.Response {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load response: %v", err)
	}
	var response schema.Response
	if err := json.Unmarshal(data, &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return response
}

// LoadRaw reads a raw text fixture, typically captured model output.
func LoadRaw(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load raw fixture: %v", err)
	}
	return string(data)
}

// WriteGolden writes a JSON golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// AssertGolden compares a value against a JSON golden file, writing it first
// when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path string, value any) {
	t.Helper()

	WriteGolden(t, path, value)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden (run with UPDATE_GOLDENS=1 to create): %v", err)
	}

	var want any
	if err := json.Unmarshal(data, &want); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var got any
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("remarshal value: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}
