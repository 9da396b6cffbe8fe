package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateFile_JSON_Auto_OK(t *testing.T) {
	ctx := context.Background()
	validator := NewCheckoutValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "one.json")
	if err := os.WriteFile(path, []byte(checkoutJSON("Ada", "ada@example.com", `["p1"]`)), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	report, err := ValidateFile(ctx, validator, path, FormatAuto, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.String() != "1 valid / 0 invalid" {
		t.Fatalf("unexpected summary: %s", report)
	}
	var line CheckoutLine
	if err := json.Unmarshal(out.Bytes(), &line); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if line.Name != "Ada" || line.Units != 1 || len(line.Items) != 1 || line.Items[0].ID != "p1" {
		t.Fatalf("unexpected checkout line: %+v", line)
	}
}

func TestValidateFile_JSONL_Auto_Mixed(t *testing.T) {
	ctx := context.Background()
	validator := NewCheckoutValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "list.jsonl")
	content := oneLineJSON(checkoutJSON("Ada", "ada@example.com", `["p1"]`)) + "\n" +
		oneLineJSON(checkoutJSON("Bob", "bob@example.com", `[]`)) + "\n" + // пустая корзина
		oneLineJSON(checkoutJSON("Cy", "cy@example.com", `["p2"]`)) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	report, err := ValidateFile(ctx, validator, path, FormatAuto, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.String() != "2 valid / 1 invalid; missing cartProducts=1" {
		t.Fatalf("unexpected summary: %s", report)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(lines))
	}
}

func TestValidateFile_JSON_Invalid(t *testing.T) {
	ctx := context.Background()
	validator := NewCheckoutValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	// неизвестное поле
	raw := `{"unknown":1,` + checkoutJSON("Ada", "ada@example.com", `["p1"]`)[1:]
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	report, err := ValidateFile(ctx, validator, path, FormatJSON, &out)
	if err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if report.String() != "0 valid / 1 invalid (1 malformed)" {
		t.Fatalf("unexpected summary: %s", report)
	}
	if out.String() != "" {
		t.Fatalf("output must be empty for invalid single JSON")
	}
}

func TestValidateFile_ExplicitFormat_IgnoresExt(t *testing.T) {
	ctx := context.Background()
	validator := NewCheckoutValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	content := oneLineJSON(checkoutJSON("Ada", "ada@example.com", `["p1"]`)) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	report, err := ValidateFile(ctx, validator, path, FormatJSONL, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Valid != 1 || report.Rejected() != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestValidateFile_OpenError(t *testing.T) {
	ctx := context.Background()
	validator := NewCheckoutValidator()

	var out bytes.Buffer
	_, err := ValidateFile(ctx, validator, "no-such-file.json", FormatAuto, &out)
	if err == nil {
		t.Fatalf("expected open error")
	}
}

func TestValidateFile_UnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	validator := NewCheckoutValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "one.json")
	_ = os.WriteFile(path, []byte(checkoutJSON("Ada", "ada@example.com", `["p1"]`)), 0o600)

	var out bytes.Buffer
	_, err := ValidateFile(ctx, validator, path, InputFormat("yaml"), &out)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got: %v", err)
	}
}

func TestValidateFile_JSON_MissingFieldsReported(t *testing.T) {
	ctx := context.Background()
	validator := NewCheckoutValidator()

	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(path, []byte(checkoutJSON("", "", `[]`)), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	report, err := ValidateFile(ctx, validator, path, FormatAuto, &out)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if report.Invalid != 1 || report.Malformed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.String() != "0 valid / 1 invalid; missing cartProducts=1, email=1, name=1" {
		t.Fatalf("unexpected summary: %s", report)
	}
}

func TestResolveFormat(t *testing.T) {
	cases := map[string]InputFormat{
		"a.jsonl": FormatJSONL,
		"a.JSONL": FormatJSONL,
		"a.json":  FormatJSON,
		"a.txt":   FormatJSON,
	}
	for path, want := range cases {
		if got := ResolveFormat(FormatAuto, path); got != want {
			t.Fatalf("%s: got %s want %s", path, got, want)
		}
	}
	if got := ResolveFormat(FormatJSONL, "a.json"); got != FormatJSONL {
		t.Fatalf("explicit format must win, got %s", got)
	}
}
