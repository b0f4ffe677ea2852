// Package cli implements the nba-chat terminal client commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nba-chat/internal/chat"
	"nba-chat/internal/models"
	"nba-chat/internal/render"
)

const defaultURL = "http://localhost:3000"

type options struct {
	url   string
	width int
}

// NewRootCmd creates the top-level command. Without a subcommand it starts
// an interactive conversation.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "nba-chat",
		Short:        "Chat with the next-best-action agents",
		Long:         "A terminal client for the NBA chat agents. Answers are formatted the same way as in the web UI.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.url, "url", "u", "", "Web server origin (default: $NBA_CHAT_URL or "+defaultURL+")")
	root.PersistentFlags().IntVarP(&opts.width, "width", "w", 0, "Wrap answers at this width (0 disables wrapping)")

	root.AddCommand(newAskCmd(opts), newInteractiveCmd(opts), newTicketsCmd(opts))
	return root
}

func (o *options) origin() string {
	u := o.url
	if u == "" {
		u = os.Getenv("NBA_CHAT_URL")
	}
	if u == "" {
		u = defaultURL
	}
	return strings.TrimSuffix(u, "/")
}

func (o *options) client() *chat.Client {
	return chat.NewClient(o.origin() + "/api/chat")
}

func (o *options) terminal() *render.Terminal {
	return render.NewTerminal(o.width)
}

// fetchTickets reads the ticket listing of the web server
func fetchTickets(ctx context.Context, origin string) ([]models.Ticket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/api/tickets", nil)
	if err != nil {
		return nil, fmt.Errorf("build tickets request: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tickets request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tickets request: status %d", resp.StatusCode)
	}

	var tickets []models.Ticket
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}
	return tickets, nil
}
