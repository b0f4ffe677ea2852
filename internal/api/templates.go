package api

import (
	"html/template"

	"nba-chat/internal/chat"
	"nba-chat/internal/render"
)

var pageFuncs = template.FuncMap{
	"body": render.MessageHTML,
	"label": func(m chat.Message) string {
		switch {
		case m.IsUser():
			return "You"
		case m.Sender == "" || m.Sender == chat.SenderAI:
			return "AI"
		default:
			return m.Sender
		}
	},
}

const pageStyle = `<style>
body { font-family: sans-serif; max-width: 760px; margin: 2rem auto; }
.chat-box { border: 1px solid #ccc; padding: 1rem; min-height: 300px; }
.user-msg { text-align: right; margin: .5rem 0; }
.ai-msg { text-align: left; margin: .5rem 0; }
.ai-msg ol { list-style: none; padding-left: 1rem; }
.ai-msg li.nested { margin-left: 1.5rem; }
.chat-form { display: flex; gap: .5rem; margin-top: 1rem; }
.chat-form input { flex: 1; }
</style>`

var chatPage = template.Must(template.New("chat").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>AI Chat</title>` + pageStyle + `</head>
<body>
<div class="chat-container">
  <h2>AI Chat</h2>
  <div class="chat-box">
    {{range .Messages}}
    <div class="{{if .IsUser}}user-msg{{else}}ai-msg{{end}}"><b>{{label .}}:</b> {{body .}}</div>
    {{end}}
    {{if .Busy}}<div class="ai-msg">AI is typing...</div>{{end}}
  </div>
  <form class="chat-form" method="post" action="/send">
    <input type="text" name="message" placeholder="Type your message..." autofocus {{if .Busy}}disabled{{end}}>
    <button type="submit" {{if .Busy}}disabled{{end}}>Send</button>
  </form>
  <p><a href="/tickets">Tickets</a></p>
</div>
</body>
</html>
`))

var ticketsPage = template.Must(template.New("tickets").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Tickets</title>` + pageStyle + `</head>
<body>
<div>
  <h2>Tickets</h2>
  <ul>
    {{range .}}<li>{{.TicketNumber}} - {{.Subject}}</li>
    {{end}}
  </ul>
  <p><a href="/">Chat</a></p>
</div>
</body>
</html>
`))
