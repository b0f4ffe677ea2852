package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nba-chat/internal/chat"
	"nba-chat/internal/formatter"
)

// Terminal renders blocks and messages for a terminal
type Terminal struct {
	Header   lipgloss.Style
	Emphasis lipgloss.Style
	Item     lipgloss.Style
	Nested   lipgloss.Style
	User     lipgloss.Style
	Agent    lipgloss.Style
	Width    int
}

// NewTerminal creates a terminal renderer. Width 0 disables wrapping.
func NewTerminal(width int) *Terminal {
	return &Terminal{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Emphasis: lipgloss.NewStyle().Italic(true),
		Item:     lipgloss.NewStyle().PaddingLeft(2),
		Nested:   lipgloss.NewStyle().PaddingLeft(4),
		User:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Agent:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Width:    width,
	}
}

// Blocks renders display blocks, one line per block or list item
func (t *Terminal) Blocks(blocks []formatter.Block) string {
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case formatter.KindHeader:
			lines = append(lines, t.wrap(t.Header).Render(b.Text))
		case formatter.KindParagraph:
			style := lipgloss.NewStyle()
			if b.Emphasized {
				style = t.Emphasis
			}
			lines = append(lines, t.wrap(style).Render(b.Text))
		case formatter.KindList:
			for _, item := range b.Items {
				lines = append(lines, t.item(b.ListKind, item))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) item(kind formatter.ListKind, e formatter.Entry) string {
	if kind == formatter.ListNumbered {
		return t.wrap(t.Item).Render(e.Content)
	}
	if e.Category == formatter.CategoryBulletNested {
		return t.wrap(t.Nested).Render("◦ " + e.Content)
	}
	return t.wrap(t.Item).Render("• " + e.Content)
}

func (t *Terminal) wrap(s lipgloss.Style) lipgloss.Style {
	if t.Width > 0 {
		return s.Width(t.Width)
	}
	return s
}

// Message renders a chat message with its sender label
func (t *Terminal) Message(m chat.Message) string {
	label := t.Agent.Render(agentLabel(m) + ":")
	if m.IsUser() {
		label = t.User.Render("You:")
	}

	if m.IsFormatted {
		return label + "\n" + t.Blocks(formatter.Format(m.Text))
	}
	return label + " " + m.Text
}

// agentLabel is the display name of a reply's sender
func agentLabel(m chat.Message) string {
	if m.Sender == "" || m.Sender == chat.SenderAI {
		return "AI"
	}
	return m.Sender
}
