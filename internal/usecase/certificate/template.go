package certificate

import (
	"bytes"
	"html/template"
	"time"
)

// certificateHTML is the document handed to the render service. Layout is
// deliberately plain; the render service applies the letterhead stylesheet.
var certificateHTML = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Resale Certificate</title></head>
<body>
  <h1>Resale Certificate</h1>
  <p>Application {{.ApplicationID}}</p>
  {{if .PropertyName}}<h2>{{.PropertyName}}</h2>{{end}}
  {{if .PropertyLocation}}<p>{{.PropertyLocation}}</p>{{end}}
  <table>
    <tr><td>Requested by</td><td>{{.RequesterName}}</td></tr>
    {{if .UnitAddress}}<tr><td>Unit</td><td>{{.UnitAddress}}</td></tr>{{end}}
    <tr><td>Issued</td><td>{{.IssuedAt.Format "January 2, 2006"}}</td></tr>
  </table>
  {{range .Sections}}
  <h3>{{.Title}}</h3>
  <dl>
    {{range $k, $v := .Fields}}<dt>{{$k}}</dt><dd>{{$v}}</dd>
    {{end}}
  </dl>
  {{end}}
</body>
</html>`))

type certificateSection struct {
	Title  string
	Fields map[string]any
}

type certificateData struct {
	ApplicationID    string
	PropertyName     string
	PropertyLocation string
	RequesterName    string
	UnitAddress      string
	IssuedAt         time.Time
	Sections         []certificateSection
}

func renderCertificateHTML(d certificateData) (string, error) {
	var buf bytes.Buffer
	if err := certificateHTML.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
