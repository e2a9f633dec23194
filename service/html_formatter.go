package service

import (
	"html/template"
	"io"
	"time"

	"github.com/ludo-technologies/citescan/domain"
)

// HTMLPattern is one row of the per-file pattern chart
type HTMLPattern struct {
	Name     string
	Score    float64
	Max      float64
	Percent  int
	Detected bool
}

// HTMLFile is the template view of one scored file
type HTMLFile struct {
	domain.FileScore
	Patterns []HTMLPattern
}

// HTMLData represents the data for HTML template
type HTMLData struct {
	GeneratedAt string
	Duration    int64
	Version     string
	Summary     domain.ScoreSummary
	Files       []HTMLFile
	Errors      []string
}

var htmlFuncs = template.FuncMap{
	"gradeClass": gradeClass,
	"scoreQuality": func(percent int) string {
		switch {
		case percent >= 80:
			return "excellent"
		case percent >= 60:
			return "good"
		case percent >= 40:
			return "fair"
		default:
			return "poor"
		}
	},
}

var reportTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(htmlTemplate))

// gradeClass maps a letter grade to its badge CSS class
func gradeClass(grade string) string {
	switch grade {
	case "A+", "A":
		return "grade-a"
	case "B":
		return "grade-b"
	case "C":
		return "grade-c"
	case "D":
		return "grade-d"
	default:
		return "grade-f"
	}
}

// WriteHTML writes the scoring response as a standalone HTML report
func (f *OutputFormatterImpl) WriteHTML(response *domain.ScoreResponse, writer io.Writer) error {
	data := HTMLData{
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Duration:    response.DurationMs,
		Version:     response.Version,
		Summary:     response.Summary,
		Errors:      response.Errors,
	}

	for _, file := range response.Files {
		view := HTMLFile{FileScore: file}
		if !file.Failed() {
			for _, id := range domain.PatternIDs() {
				ps, ok := file.Result.PatternScores[id]
				if !ok {
					continue
				}
				percent := 0
				if ps.Max > 0 {
					percent = int(ps.Score / ps.Max * 100)
				}
				view.Patterns = append(view.Patterns, HTMLPattern{
					Name:     patternName(id),
					Score:    ps.Score,
					Max:      ps.Max,
					Percent:  percent,
					Detected: ps.Detected,
				})
			}
		}
		data.Files = append(data.Files, view)
	}

	return reportTemplate.Execute(writer, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>citescan Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #eef1f7;
        }
        .container { max-width: 1100px; margin: 0 auto; padding: 20px; }
        .card {
            background: white;
            border-radius: 10px;
            padding: 24px;
            margin-bottom: 20px;
            box-shadow: 0 6px 20px rgba(0,0,0,0.08);
        }
        h1 { color: #3949ab; margin-bottom: 6px; }
        h2 { font-size: 18px; word-break: break-all; }
        .subtitle { color: #666; font-size: 14px; }
        .badge {
            display: inline-block;
            padding: 6px 16px;
            border-radius: 20px;
            font-weight: bold;
            color: white;
        }
        .grade-a { background: #4caf50; }
        .grade-b { background: #8bc34a; }
        .grade-c { background: #ff9800; }
        .grade-d { background: #ff5722; }
        .grade-f { background: #f44336; }
        .file-header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 12px; }
        .metric-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 16px; margin-top: 16px; }
        .metric { background: #f8f9fa; padding: 16px; border-radius: 8px; text-align: center; }
        .metric-value { font-size: 28px; font-weight: bold; color: #3949ab; }
        .metric-label { color: #666; font-size: 13px; }
        .bar-row { display: grid; grid-template-columns: 220px 1fr 70px; gap: 10px; align-items: center; margin: 6px 0; font-size: 14px; }
        .bar { height: 10px; background: #e0e0e0; border-radius: 5px; overflow: hidden; }
        .bar-fill { height: 100%; border-radius: 5px; }
        .score-excellent { background: #4caf50; }
        .score-good { background: #8bc34a; }
        .score-fair { background: #ff9800; }
        .score-poor { background: #f44336; }
        .missing { color: #999; }
        .table { width: 100%; border-collapse: collapse; margin-top: 12px; font-size: 14px; }
        .table th, .table td { padding: 8px; text-align: left; border-bottom: 1px solid #ddd; }
        .table th { background: #f8f9fa; }
        .severity-high { color: #f44336; font-weight: 600; }
        .severity-medium { color: #ff9800; }
        .severity-low { color: #2196f3; }
        .penalty { color: #f44336; margin-top: 8px; font-size: 14px; }
        .error { color: #f44336; }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h1>citescan Report</h1>
            <p class="subtitle">Generated: {{.GeneratedAt}} | Duration: {{.Duration}}ms | Version: {{.Version}}</p>
            <div class="metric-grid">
                <div class="metric">
                    <div class="metric-value">{{.Summary.FilesScored}}</div>
                    <div class="metric-label">Files Scored</div>
                </div>
                <div class="metric">
                    <div class="metric-value">{{printf "%.1f" .Summary.AverageScore}}</div>
                    <div class="metric-label">Average Score</div>
                </div>
                <div class="metric">
                    <div class="metric-value">{{.Summary.TotalGaps}}</div>
                    <div class="metric-label">Total Gaps</div>
                </div>
                {{if gt .Summary.FilesFailed 0}}
                <div class="metric">
                    <div class="metric-value error">{{.Summary.FilesFailed}}</div>
                    <div class="metric-label">Files Failed</div>
                </div>
                {{end}}
            </div>
        </div>

        {{range .Files}}
        <div class="card">
            <div class="file-header">
                <h2>{{.Path}}</h2>
                {{if .Result}}
                <span class="badge {{gradeClass .Result.Grade}}">{{printf "%.1f" .Result.Score}}/100 &middot; {{.Result.Grade}}</span>
                {{end}}
            </div>
            {{if .Result}}
            {{range .Patterns}}
            <div class="bar-row">
                <span{{if not .Detected}} class="missing"{{end}}>{{.Name}}</span>
                <div class="bar"><div class="bar-fill score-{{scoreQuality .Percent}}" style="width: {{.Percent}}%"></div></div>
                <span>{{printf "%.1f" .Score}}/{{.Max}}</span>
            </div>
            {{end}}
            {{if gt .Result.AntiPatternPenalties 0}}
            <p class="penalty">Penalties: -{{.Result.AntiPatternPenalties}}{{range .Result.AntiPatterns}} ({{.ID}}){{end}}</p>
            {{end}}
            {{if .Result.Gaps}}
            <table class="table">
                <thead>
                    <tr><th>Severity</th><th>Category</th><th>Gap</th><th>Fix</th></tr>
                </thead>
                <tbody>
                    {{range .Result.Gaps}}
                    <tr>
                        <td class="severity-{{.Severity}}">{{.Severity}}</td>
                        <td>{{.Category}}</td>
                        <td>{{.Description}}</td>
                        <td>{{.ExampleFix}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{else}}
            <p style="color: #4caf50; font-weight: bold; margin-top: 12px;">No gaps found</p>
            {{end}}
            {{else}}
            <p class="error">{{.Error}}</p>
            {{end}}
        </div>
        {{end}}
    </div>
</body>
</html>`
