package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/analyzer"
	"github.com/ludo-technologies/citescan/internal/config"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	// ShowDetails prints per-pattern scores in text output
	ShowDetails bool

	// TopGaps limits the gaps printed per file in text output (negative = all)
	TopGaps int
}

var _ domain.OutputFormatter = (*OutputFormatterImpl)(nil)

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{TopGaps: config.DefaultTopGaps}
}

// NewOutputFormatterFromRequest creates a formatter honoring the request's detail settings
func NewOutputFormatterFromRequest(req domain.ScoreRequest) *OutputFormatterImpl {
	f := NewOutputFormatter()
	f.ShowDetails = req.ShowDetails
	if req.TopGaps != 0 {
		f.TopGaps = req.TopGaps
	}
	return f
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes the scoring response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.ScoreResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("nothing to write", nil)
	}

	var err error
	switch format {
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, response)
	case domain.OutputFormatHTML:
		err = f.WriteHTML(response, writer)
	case domain.OutputFormatText, "":
		err = f.writeText(response, writer)
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write %s output", format), err)
	}
	return nil
}

// patternName returns the display name of a pattern
func patternName(id string) string {
	if info, ok := analyzer.LookupPattern(id); ok {
		return info.Name
	}
	return strings.ReplaceAll(id, "_", " ")
}

// writeText writes the response as plain text
func (f *OutputFormatterImpl) writeText(response *domain.ScoreResponse, writer io.Writer) error {
	w := &errWriter{w: writer}

	w.printf("\n=== citescan Report ===\n")
	w.printf("Generated: %s\n", response.GeneratedAt)
	w.printf("Version: %s\n", response.Version)

	for _, file := range response.Files {
		f.writeFileText(w, file)
	}

	s := response.Summary
	w.printf("\nSummary:\n")
	w.printf("  Files scored: %d\n", s.FilesScored)
	if s.FilesFailed > 0 {
		w.printf("  Files failed: %d\n", s.FilesFailed)
	}
	if s.FilesScored > 0 {
		w.printf("  Average score: %.1f\n", s.AverageScore)
		w.printf("  Min / Max: %.1f / %.1f\n", s.MinScore, s.MaxScore)
		w.printf("  Total gaps: %d\n", s.TotalGaps)
		w.printf("  Grades:")
		for _, grade := range config.ValidGrades {
			if n := s.GradeDistribution[grade]; n > 0 {
				w.printf(" %s=%d", grade, n)
			}
		}
		w.printf("\n")
	}

	if len(response.Warnings) > 0 {
		w.printf("\nWarnings:\n")
		for _, warning := range response.Warnings {
			w.printf("  - %s\n", warning)
		}
	}

	if len(response.Errors) > 0 {
		w.printf("\nErrors:\n")
		for _, e := range response.Errors {
			w.printf("  - %s\n", e)
		}
	}

	return w.err
}

func (f *OutputFormatterImpl) writeFileText(w *errWriter, file domain.FileScore) {
	w.printf("\n%s (%s)\n", file.Path, file.Format)
	if file.Failed() {
		w.printf("  Error: %s\n", file.Error)
		return
	}

	r := file.Result
	w.printf("  Score: %.1f/100\n", r.Score)
	w.printf("  Grade: %s\n", r.Grade)
	w.printf("  Words: %d\n", r.WordCount)

	if r.AntiPatternPenalties > 0 {
		ids := make([]string, len(r.AntiPatterns))
		for i, hit := range r.AntiPatterns {
			ids[i] = hit.ID
		}
		w.printf("  Penalties: -%d (%s)\n", r.AntiPatternPenalties, strings.Join(ids, ", "))
	}

	if f.ShowDetails {
		w.printf("  Pattern Scores:\n")
		for _, id := range domain.PatternIDs() {
			ps, ok := r.PatternScores[id]
			if !ok {
				continue
			}
			status := "-"
			if ps.Detected {
				status = "+"
			}
			w.printf("    %s %-24s %5.1f/%g\n", status, patternName(id), ps.Score, ps.Max)
		}
	}

	gaps := r.TopGaps(f.TopGaps)
	if len(gaps) == 0 {
		w.printf("  No gaps found!\n")
		return
	}
	w.printf("  Top %d Gaps:\n", len(gaps))
	for i, gap := range gaps {
		w.printf("    %d. [%s] %s\n", i+1, gap.Category, gap.Description)
		w.printf("       Severity: %s\n", gap.Severity)
	}
}

// errWriter keeps the first write error so text output can be written without per-line checks
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
