package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"nba-chat/internal/chat"
	"nba-chat/internal/models"
)

// fakeWeb serves /api/chat with body and /api/tickets with tickets
func fakeWeb(t *testing.T, status int, body any, calls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		var req models.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.User != "user" {
			t.Errorf("bad chat request: %+v, %v", req, err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("GET /api/tickets", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Ticket{
			{TicketNumber: "T-1", Subject: "Credit hold"},
			{TicketNumber: "T-2", Subject: "RR hold"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAsk(t *testing.T) {
	var calls int32
	srv := fakeWeb(t, http.StatusOK, []models.AgentAnswer{
		{Agent: "NBA_Threshold", Answer: "Release the hold."},
		{Agent: "ActionReview", Answer: "Call the customer."},
	}, &calls)

	out, err := run(t, "", "--url", srv.URL, "ask", "What", "about", "BMS?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	for _, want := range []string{"NBA_Threshold:", "Release the hold.", "ActionReview:", "Call the customer."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "What about BMS?") {
		t.Errorf("ask should not echo the question:\n%s", out)
	}
}

func TestAskFailure(t *testing.T) {
	var calls int32
	srv := fakeWeb(t, http.StatusInternalServerError, map[string]string{"detail": "Chat error: boom"}, &calls)

	out, err := run(t, "", "--url", srv.URL, "ask", "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out, chat.ErrorText) {
		t.Errorf("output missing error message:\n%s", out)
	}
}

func TestInteractive(t *testing.T) {
	var calls int32
	srv := fakeWeb(t, http.StatusOK, models.SummaryResponse{
		Items: []models.SummaryItem{{Text: "SUMMARY:\n- hold released"}},
	}, &calls)

	for _, args := range [][]string{
		{"--url", srv.URL},
		{"--url", srv.URL, "interactive"},
	} {
		atomic.StoreInt32(&calls, 0)
		out, err := run(t, "What about BMS?\n\n   \nEXIT\nnever sent\n", args...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if n := atomic.LoadInt32(&calls); n != 1 {
			t.Errorf("%v: %d requests, want 1", args, n)
		}
		for _, want := range []string{"> ", "AI:", "SUMMARY", "• hold released"} {
			if !strings.Contains(out, want) {
				t.Errorf("%v: output missing %q:\n%s", args, want, out)
			}
		}
	}
}

func TestInteractiveContinuesAfterFailure(t *testing.T) {
	var calls int32
	srv := fakeWeb(t, http.StatusBadGateway, nil, &calls)

	out, err := run(t, "one\ntwo\n", "--url", srv.URL)
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("%d requests, want 2", n)
	}
	if strings.Count(out, chat.ErrorText) != 2 {
		t.Errorf("want two error messages:\n%s", out)
	}
}

func TestTickets(t *testing.T) {
	var calls int32
	srv := fakeWeb(t, http.StatusOK, nil, &calls)

	out, err := run(t, "", "tickets", "--url", srv.URL+"/")
	if err != nil {
		t.Fatalf("tickets: %v", err)
	}
	if out != "T-1 - Credit hold\nT-2 - RR hold\n" {
		t.Errorf("output = %q", out)
	}
}

func TestOriginFromEnv(t *testing.T) {
	t.Setenv("NBA_CHAT_URL", "http://example.test:3000/")
	o := &options{}
	if got := o.origin(); got != "http://example.test:3000" {
		t.Errorf("origin = %q", got)
	}

	o.url = "http://flag.test"
	if got := o.origin(); got != "http://flag.test" {
		t.Errorf("flag should win, got %q", got)
	}
}
