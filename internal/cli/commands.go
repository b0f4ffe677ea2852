package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nba-chat/internal/chat"
	"nba-chat/internal/render"
)

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask one question and print the answers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := chat.NewLog()
			err := log.Submit(cmd.Context(), opts.client(), strings.Join(args, " "))
			if errors.Is(err, chat.ErrEmpty) {
				return err
			}

			printReplies(cmd.OutOrStdout(), opts.terminal(), log.Messages(), 1)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			return nil
		},
	}
}

func newInteractiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start a conversation (type 'exit' to quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}
}

func newTicketsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tickets",
		Short: "List tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tickets, err := fetchTickets(cmd.Context(), opts.origin())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tickets) == 0 {
				fmt.Fprintln(out, "No tickets.")
				return nil
			}
			for _, t := range tickets {
				fmt.Fprintf(out, "%s - %s\n", t.TicketNumber, t.Subject)
			}
			return nil
		},
	}
}

func runInteractive(cmd *cobra.Command, opts *options) error {
	return converse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts.client(), opts.terminal())
}

// converse reads questions line by line until exit, quit or end of input.
// Failed requests show the error message and the conversation goes on.
func converse(ctx context.Context, in io.Reader, out io.Writer, sender chat.Sender, term *render.Terminal) error {
	log := chat.NewLog()
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "NBA Chat - ask about next best actions (type 'exit' to quit)")

	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			break
		}
		if input == "" {
			continue
		}

		fmt.Fprint(out, "Thinking... ")
		from := len(log.Messages()) + 1
		// failures are recorded in the log as an error reply
		_ = log.Submit(ctx, sender, input)
		fmt.Fprint(out, "\r")
		printReplies(out, term, log.Messages(), from)
	}

	return scanner.Err()
}

// printReplies prints the messages starting at from
func printReplies(out io.Writer, term *render.Terminal, msgs []chat.Message, from int) {
	if from > len(msgs) {
		return
	}
	for _, m := range msgs[from:] {
		fmt.Fprintln(out, term.Message(m))
	}
}
