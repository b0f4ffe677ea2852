package render

import (
	"strings"
	"testing"

	"nba-chat/internal/chat"
	"nba-chat/internal/formatter"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"header and paragraph", "SUMMARY:\nSome text.", "<h4>SUMMARY</h4><p>Some text.</p>"},
		{"emphasis", `"quoted"`, "<p><em>&#34;quoted&#34;</em></p>"},
		{"bullets", "- a\n  - b", `<ul><li>a</li><li class="nested">b</li></ul>`},
		{"numbered", "1. a\nb. c", "<ol><li>1. a</li><li>b. c</li></ol>"},
		{"escaped", "- <script>x</script>", "<ul><li>&lt;script&gt;x&lt;/script&gt;</li></ul>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(HTML(formatter.Format(tt.in))); got != tt.want {
				t.Errorf("HTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMessageHTML(t *testing.T) {
	plain := MessageHTML(chat.Message{Text: "- a & b"})
	if string(plain) != "- a &amp; b" {
		t.Errorf("plain message = %q", plain)
	}

	formatted := MessageHTML(chat.Message{Text: "- a & b", IsFormatted: true})
	if string(formatted) != "<ul><li>a &amp; b</li></ul>" {
		t.Errorf("formatted message = %q", formatted)
	}
}

func TestTerminalBlocks(t *testing.T) {
	r := NewTerminal(0)
	out := r.Blocks(formatter.Format("ACTIONS:\n1. Call credit\n- note\n  - detail\n(aside)"))

	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}
	for i, want := range []string{"ACTIONS", "1. Call credit", "• note", "◦ detail", "(aside)"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestTerminalMessage(t *testing.T) {
	r := NewTerminal(0)

	if got := r.Message(chat.Message{Sender: chat.SenderUser, Text: "hi"}); !strings.Contains(got, "You:") || !strings.HasSuffix(got, " hi") {
		t.Errorf("user message = %q", got)
	}
	if got := r.Message(chat.Message{Sender: chat.SenderAI, Text: "- raw"}); !strings.Contains(got, "AI:") || !strings.HasSuffix(got, "- raw") {
		t.Errorf("unformatted reply = %q", got)
	}
	if got := r.Message(chat.Message{Sender: "NBA_Threshold", Text: "x"}); !strings.Contains(got, "NBA_Threshold:") {
		t.Errorf("agent reply = %q", got)
	}
	if got := r.Message(chat.Message{Sender: chat.SenderAI, Text: "- a", IsFormatted: true}); !strings.Contains(got, "• a") {
		t.Errorf("formatted reply = %q", got)
	}
}
