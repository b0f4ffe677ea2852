// Package render draws formatted display blocks for the web page and the
// terminal.
package render

import (
	"html/template"
	"strings"

	"nba-chat/internal/chat"
	"nba-chat/internal/formatter"
)

var blocksTmpl = template.Must(template.New("blocks").Parse(
	`{{range .}}` +
		`{{if eq .Kind "header"}}<h4>{{.Text}}</h4>` +
		`{{else if eq .Kind "paragraph"}}{{if .Emphasized}}<p><em>{{.Text}}</em></p>{{else}}<p>{{.Text}}</p>{{end}}` +
		`{{else if eq .ListKind "bullet"}}<ul>{{range .Items}}<li{{if eq .Category "bullet-nested"}} class="nested"{{end}}>{{.Content}}</li>{{end}}</ul>` +
		`{{else}}<ol>{{range .Items}}<li>{{.Content}}</li>{{end}}</ol>` +
		`{{end}}{{end}}`))

// HTML renders blocks as escaped markup
func HTML(blocks []formatter.Block) template.HTML {
	var sb strings.Builder
	if err := blocksTmpl.Execute(&sb, blocks); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return template.HTML(sb.String())
}

// MessageHTML renders a chat message body. Formatted messages go through
// the formatter, the rest are shown as escaped plain text.
func MessageHTML(m chat.Message) template.HTML {
	if m.IsFormatted {
		return HTML(formatter.Format(m.Text))
	}
	return template.HTML(template.HTMLEscapeString(m.Text))
}
