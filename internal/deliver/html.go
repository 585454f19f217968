package deliver

import (
	"fmt"
	"html/template"
	"io"
)

// compiledIndex is parsed at init time to fail fast on template errors.
var compiledIndex *template.Template

func init() {
	compiledIndex = template.Must(template.New("index").Funcs(template.FuncMap{
		"time": formatTime,
	}).Parse(indexTemplate))
}

// NotAvailable is shown in place of links to missing artifacts.
const NotAvailable = "not available"

// indexLink is one cell of the artifact columns.
type indexLink struct {
	Href string
	Text string
}

type indexRow struct {
	Record
	Artifacts []indexLink
}

type indexData struct {
	Index
	Rows         []indexRow
	NotAvailable string
}

// WriteIndexHTML renders the run's table of contents. All free text is
// escaped by html/template.
func WriteIndexHTML(w io.Writer, idx *Index) error {
	data := indexData{Index: *idx, NotAvailable: NotAvailable}
	for _, r := range idx.Records {
		data.Rows = append(data.Rows, indexRow{
			Record: r,
			Artifacts: []indexLink{
				{Href: r.Links.Interactive, Text: "interactive"},
				{Href: r.Links.Hubs, Text: "hubs"},
				{Href: r.Links.GraphML, Text: "GraphML"},
				{Href: r.Links.Report, Text: "report"},
				{Href: r.Links.Enrichment, Text: "enrichment"},
				{Href: r.Links.Archive, Text: "zip"},
			},
		})
	}

	if err := compiledIndex.Execute(w, data); err != nil {
		return fmt.Errorf("executing index template: %w", err)
	}
	return nil
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Module deliverables</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 2em;
      background: #f5f5f5;
      color: #333;
    }
    .meta {
      color: #666;
      font-size: 13px;
      margin-bottom: 1.5em;
    }
    table {
      border-collapse: collapse;
      width: 100%;
      background: white;
    }
    th, td {
      border: 1px solid #ddd;
      padding: 6px 10px;
      vertical-align: top;
      font-size: 13px;
      text-align: left;
    }
    th {
      background: #4A90D9;
      color: white;
    }
    td.summary {
      max-width: 480px;
    }
    .na {
      color: #aaa;
      font-style: italic;
    }
    .empty-state {
      text-align: center;
      color: #666;
      padding: 3em;
    }
  </style>
</head>
<body>
  <h1>Module deliverables</h1>
  <div class="meta">
    <div>Generated: {{time .GeneratedAt}}</div>
    <div>Source: <code>{{.RunDir}}</code></div>
    <div>Mode: {{.Tone}}</div>
  </div>
{{- if .Rows}}
  <table>
    <thead>
      <tr>
        <th>Module</th><th>Size</th><th>Label</th><th>Top hubs</th><th>Enrichment</th><th>Summary</th><th>Artifacts</th>
      </tr>
    </thead>
    <tbody>
{{- range .Rows}}
      <tr class="module" id="{{.Module}}">
        <td>{{.Module}}</td>
        <td>{{.Size}}</td>
        <td>{{.Label}}</td>
        <td>{{.HubsText}}</td>
        <td>{{.TermsText}}</td>
        <td class="summary">{{.Summary}}</td>
        <td>
{{- range .Artifacts}}
          {{if .Href}}<a href="{{.Href}}">{{.Text}}</a>{{else}}<span class="na" title="{{.Text}}">{{$.NotAvailable}}</span>{{end}}<br>
{{- end}}
        </td>
      </tr>
{{- end}}
    </tbody>
  </table>
{{- else}}
  <div class="empty-state">
    <h2>No modules</h2>
    <p>No module directory in this run had a readable network artifact.</p>
  </div>
{{- end}}
</body>
</html>
`
