package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/analyzer"
	"github.com/ludo-technologies/citescan/service"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	audit := service.NewAuditService(nil, nil, service.WithAuditLogger(quietLogger()))
	ts := httptest.NewServer(New(audit, nil, quietLogger()).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestAudit(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"markdown content", `{"content": "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"}`, http.StatusOK, ""},
		{"html content", `{"content": "<h1>Title</h1><p>text</p>", "format": "html"}`, http.StatusOK, ""},
		{"url", `{"url": "https://example.com"}`, http.StatusBadRequest, domain.ErrCodeURLNotSupported},
		{"empty", `{}`, http.StatusBadRequest, domain.ErrCodeInvalidInput},
		{"bad format", `{"content": "x", "format": "pdf"}`, http.StatusBadRequest, domain.ErrCodeInvalidInput},
		{"malformed json", `{"content": `, http.StatusBadRequest, domain.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/aieo/audit", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			if tt.wantCode == "" {
				var result domain.AuditResult
				decode(t, resp, &result)
				if result.ID == "" || result.Grade == "" {
					t.Errorf("incomplete audit result: %+v", result)
				}
				if result.Fixes == nil {
					t.Error("fixes should be an empty list")
				}
				return
			}

			var body errorBody
			decode(t, resp, &body)
			if body.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Error.Code, tt.wantCode)
			}
			if body.Error.Message == "" {
				t.Error("error message should be set")
			}
		})
	}
}

func TestAuditContentTooLarge(t *testing.T) {
	validator := &service.ContentValidator{MaxWords: 3}
	audit := service.NewAuditService(nil, validator, service.WithAuditLogger(quietLogger()))
	ts := httptest.NewServer(New(audit, nil, quietLogger()).Routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/aieo/audit", "application/json",
		strings.NewReader(`{"content": "one two three four"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", resp.StatusCode)
	}

	var body errorBody
	decode(t, resp, &body)
	if body.Error.Code != domain.ErrCodeContentTooLarge {
		t.Errorf("error code = %q", body.Error.Code)
	}
}

type failingAudit struct{}

func (failingAudit) Audit(context.Context, domain.AuditRequest) (*domain.AuditResult, error) {
	return nil, errors.New("boom")
}

func TestAuditInternalError(t *testing.T) {
	ts := httptest.NewServer(New(failingAudit{}, nil, quietLogger()).Routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/aieo/audit", "application/json", strings.NewReader(`{"content": "x"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	var body errorBody
	decode(t, resp, &body)
	if strings.Contains(body.Error.Message, "boom") {
		t.Error("internal error details should not leak")
	}
}

func TestPatterns(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/aieo/patterns")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Patterns []domain.PatternInfo `json:"patterns"`
	}
	decode(t, resp, &body)
	if len(body.Patterns) != len(domain.PatternIDs()) {
		t.Errorf("got %d patterns, want %d", len(body.Patterns), len(domain.PatternIDs()))
	}
}

func TestPattern(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/aieo/patterns/faq_injection")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var info domain.PatternInfo
	decode(t, resp, &info)
	if info.ID != domain.PatternFAQInjection {
		t.Errorf("ID = %q", info.ID)
	}

	resp, err = http.Get(ts.URL + "/api/v1/aieo/patterns/unknown")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body errorBody
	decode(t, resp, &body)
	if body.Error.Code != domain.ErrCodeNotFound {
		t.Errorf("error code = %q", body.Error.Code)
	}
}

func TestPatternsUseEngineWeights(t *testing.T) {
	cfg := analyzer.DefaultScoringConfig()
	cfg.Weights[domain.PatternFAQInjection] = 7
	engine := analyzer.NewEngine(analyzer.WithScoringConfig(cfg))

	audit := service.NewAuditService(engine, nil, service.WithAuditLogger(quietLogger()))
	ts := httptest.NewServer(New(audit, engine, quietLogger()).Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/aieo/patterns")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var body struct {
		Patterns []domain.PatternInfo `json:"patterns"`
	}
	decode(t, resp, &body)
	for _, p := range body.Patterns {
		if p.ID == domain.PatternFAQInjection && p.Weight != 7 {
			t.Errorf("listed weight = %v, want 7", p.Weight)
		}
	}

	resp, err = http.Get(ts.URL + "/api/v1/aieo/patterns/faq_injection")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var info domain.PatternInfo
	decode(t, resp, &info)
	if info.Weight != 7 {
		t.Errorf("pattern weight = %v, want 7", info.Weight)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
