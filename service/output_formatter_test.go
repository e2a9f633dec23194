package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/analyzer"
	"github.com/ludo-technologies/citescan/internal/parser"
)

func sampleResponse() *domain.ScoreResponse {
	result := analyzer.NewEngine().Score(richMarkdown, parser.FormatMarkdown)
	files := []domain.FileScore{
		{Path: "docs/guide.md", Format: "markdown", Result: result},
		{Path: "docs/broken.md", Format: "markdown", Error: "failed to read file: permission denied"},
	}
	return &domain.ScoreResponse{
		Files:       files,
		Summary:     summarize(files),
		Errors:      []string{"[docs/broken.md] failed to read file: permission denied"},
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     "test",
	}
}

func TestWriteJSON(t *testing.T) {
	data := map[string]interface{}{
		"name":  "test",
		"value": 42,
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}
	if result["name"] != "test" {
		t.Errorf("Expected name to be 'test', got %v", result["name"])
	}
}

func TestOutputFormatterWriteJSON(t *testing.T) {
	response := sampleResponse()

	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(response, domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded domain.ScoreResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}
	if len(decoded.Files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(decoded.Files))
	}
	if decoded.Files[0].Result == nil || decoded.Files[0].Result.Score != response.Files[0].Result.Score {
		t.Errorf("score not preserved: %+v", decoded.Files[0].Result)
	}
	if decoded.Files[1].Error == "" {
		t.Error("error of failed file not preserved")
	}
	if !strings.Contains(buf.String(), `"pattern_scores"`) {
		t.Error("JSON output should contain pattern_scores")
	}
}

func TestOutputFormatterWriteYAML(t *testing.T) {
	response := sampleResponse()

	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(response, domain.OutputFormatYAML, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to parse output as YAML: %v", err)
	}
	files, ok := decoded["files"].([]interface{})
	if !ok || len(files) != 2 {
		t.Fatalf("Expected 2 files in YAML, got %v", decoded["files"])
	}
	if !strings.Contains(buf.String(), "files_scored: 1") {
		t.Errorf("YAML summary missing:\n%s", buf.String())
	}
}

func TestOutputFormatterWriteText(t *testing.T) {
	response := sampleResponse()
	result := response.Files[0].Result

	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(response, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	wants := []string{
		"=== citescan Report ===",
		"docs/guide.md (markdown)",
		"Score: ",
		"Grade: " + result.Grade,
		"docs/broken.md (markdown)",
		"Error: failed to read file",
		"Files scored: 1",
		"Files failed: 1",
		"Errors:",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "Pattern Scores:") {
		t.Error("pattern scores should only be printed with ShowDetails")
	}
	if result.AntiPatternPenalties > 0 && !strings.Contains(out, "Penalties: -") {
		t.Error("penalties not printed")
	}
}

func TestOutputFormatterTextTopGaps(t *testing.T) {
	result := &domain.ScoreResult{Score: 0, Grade: "F"}
	for _, id := range domain.PatternIDs() {
		result.Gaps = append(result.Gaps, domain.Gap{ID: "gap_" + id, Category: "content", Severity: domain.SeverityLow, Description: id})
	}
	response := &domain.ScoreResponse{Files: []domain.FileScore{{Path: "a.md", Format: "markdown", Result: result}}}

	tests := []struct {
		name    string
		topGaps int
		want    string
	}{
		{"default five", 5, "Top 5 Gaps:"},
		{"two", 2, "Top 2 Gaps:"},
		{"all", -1, "Top 10 Gaps:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &OutputFormatterImpl{TopGaps: tt.topGaps}
			var buf bytes.Buffer
			if err := f.Write(response, domain.OutputFormatText, &buf); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestOutputFormatterTextNoGaps(t *testing.T) {
	response := &domain.ScoreResponse{Files: []domain.FileScore{{
		Path:   "a.md",
		Result: &domain.ScoreResult{Score: 100, Grade: "A+", Gaps: []domain.Gap{}},
	}}}

	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(response, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No gaps found!") {
		t.Errorf("output missing no-gaps line:\n%s", buf.String())
	}
}

func TestOutputFormatterTextDetails(t *testing.T) {
	response := sampleResponse()
	f := NewOutputFormatterFromRequest(domain.ScoreRequest{ShowDetails: true})

	var buf bytes.Buffer
	if err := f.Write(response, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	for _, name := range []string{"Pattern Scores:", "Structured Data", "FAQ Injection", "Meta-Context"} {
		if !strings.Contains(out, name) {
			t.Errorf("details missing %q:\n%s", name, out)
		}
	}
}

func TestOutputFormatterWriteHTML(t *testing.T) {
	response := sampleResponse()

	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(response, domain.OutputFormatHTML, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	wants := []string{
		"<!DOCTYPE html>",
		"citescan Report",
		"docs/guide.md",
		gradeClass(response.Files[0].Result.Grade),
		"Structured Data",
		"permission denied",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestGradeClass(t *testing.T) {
	tests := map[string]string{
		"A+": "grade-a",
		"A":  "grade-a",
		"B":  "grade-b",
		"C":  "grade-c",
		"D":  "grade-d",
		"F":  "grade-f",
		"":   "grade-f",
	}
	for grade, want := range tests {
		if got := gradeClass(grade); got != want {
			t.Errorf("gradeClass(%q) = %q, want %q", grade, got, want)
		}
	}
}

func TestOutputFormatterErrors(t *testing.T) {
	f := NewOutputFormatter()

	err := f.Write(sampleResponse(), domain.OutputFormat("xml"), &bytes.Buffer{})
	if domain.ErrorCode(err) != domain.ErrCodeOutput {
		t.Errorf("unsupported format error code = %q", domain.ErrorCode(err))
	}

	if err := f.Write(nil, domain.OutputFormatJSON, &bytes.Buffer{}); err == nil {
		t.Error("Write(nil) should fail")
	}

	err = f.Write(sampleResponse(), domain.OutputFormatText, failingWriter{})
	if !errors.Is(err, errWriteFailed) {
		t.Errorf("write error not propagated: %v", err)
	}
}

var errWriteFailed = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWriteFailed }
