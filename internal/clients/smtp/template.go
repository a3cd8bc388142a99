package smtp

import (
	"html/template"
	"strings"
)

func renderText(title, message, link, agencyName string) string {

	var b strings.Builder
	b.WriteString(title + "\n\n" + message)
	if link != "" {
		b.WriteString("\n\nLink: " + link)
	}
	if agencyName != "" {
		b.WriteString("\n\nFrom: " + agencyName)
	}
	return b.String()
}

var htmlTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;font-family:sans-serif;background-color:#f4f4f4;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;padding:30px;">
    <h2 style="color:#333333;">{{.Title}}</h2>
    <p style="color:#666666;line-height:1.6;">{{.Message}}</p>
    {{if .Link}}<p><a href="{{.Link}}" style="display:inline-block;padding:12px 30px;background-color:#667eea;color:#ffffff;text-decoration:none;border-radius:6px;">View properties</a></p>{{end}}
    {{if .AgencyName}}<p style="color:#999999;font-size:13px;">From: {{.AgencyName}}</p>{{end}}
  </div>
</body>
</html>`))

func renderHTML(title, message, link, agencyName string) string {

	var b strings.Builder
	err := htmlTemplate.Execute(&b, struct {
		Title      string
		Message    string
		Link       string
		AgencyName string
	}{title, message, link, agencyName})

	if err != nil {
		return renderText(title, message, link, agencyName)
	}
	return b.String()
}
