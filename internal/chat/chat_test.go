package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"nba-chat/internal/models"
)

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Message
	}{
		{
			name: "agent answers",
			body: `[{"agent":"NBA_Threshold","answer":"a1"},{"agent":"","answer":"a2"}]`,
			want: []Message{
				{Sender: "NBA_Threshold", Text: "a1", Agent: "NBA_Threshold"},
				{Sender: SenderAI, Text: "a2"},
			},
		},
		{
			name: "items",
			body: `{"items":[{"text":"SUMMARY:\n- a"},{"text":"ignored"}]}`,
			want: []Message{{Sender: SenderAI, Text: "SUMMARY:\n- a", IsFormatted: true}},
		},
		{
			name: "empty items fall through to answer",
			body: `{"items":[],"answer":"legacy"}`,
			want: []Message{{Sender: SenderAI, Text: "legacy"}},
		},
		{
			name: "answer",
			body: `{"answer":"hello"}`,
			want: []Message{{Sender: SenderAI, Text: "hello"}},
		},
		{
			name: "response",
			body: `{"response":"older"}`,
			want: []Message{{Sender: SenderAI, Text: "older"}},
		},
		{
			name: "unknown object",
			body: `{"detail":"nope"}`,
			want: []Message{{Sender: SenderAI, Text: NoAnswerText}},
		},
		{
			name: "not json",
			body: `Server error`,
			want: []Message{{Sender: SenderAI, Text: NoAnswerText}},
		},
		{
			name: "null",
			body: `null`,
			want: []Message{{Sender: SenderAI, Text: NoAnswerText}},
		},
		{
			name: "empty array",
			body: `[]`,
			want: []Message{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeResponse([]byte(tt.body))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeResponse(%s) = %+v, want %+v", tt.body, got, tt.want)
			}
		})
	}
}

func TestClientSend(t *testing.T) {
	var got models.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode([]models.AgentAnswer{{Agent: "ActionReview", Answer: "1. Call"}})
	}))
	defer srv.Close()

	msgs, err := NewClient(srv.URL+"/api/chat").Send(context.Background(), "BMS")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.User != "user" || got.Message != "BMS" {
		t.Errorf("request = %+v", got)
	}
	if len(msgs) != 1 || msgs[0].Sender != "ActionReview" || msgs[0].IsFormatted {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestClientSendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Chat error: boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Send(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 500")
	}
}

func TestClientSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewClient(url).Send(context.Background(), "x"); err == nil {
		t.Fatal("expected transport error")
	}
}

type senderFunc func(ctx context.Context, text string) ([]Message, error)

func (f senderFunc) Send(ctx context.Context, text string) ([]Message, error) { return f(ctx, text) }

func TestLogSubmit(t *testing.T) {
	l := NewLog()
	err := l.Submit(context.Background(), senderFunc(func(ctx context.Context, text string) ([]Message, error) {
		return []Message{{Sender: "A", Text: "r1"}, {Sender: "B", Text: "r2"}}, nil
	}), "hello")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	want := []Message{
		{Sender: SenderUser, Text: "hello"},
		{Sender: "A", Text: "r1"},
		{Sender: "B", Text: "r2"},
	}
	if got := l.Messages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Messages = %+v, want %+v", got, want)
	}
	if l.Busy() {
		t.Error("log still busy")
	}
}

func TestLogSubmitError(t *testing.T) {
	l := NewLog()
	boom := errors.New("boom")
	err := l.Submit(context.Background(), senderFunc(func(ctx context.Context, text string) ([]Message, error) {
		return nil, boom
	}), "hello")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	msgs := l.Messages()
	if len(msgs) != 2 || msgs[1].Text != ErrorText || msgs[1].IsFormatted {
		t.Errorf("Messages = %+v", msgs)
	}
	if l.Busy() {
		t.Error("busy flag not cleared after error")
	}
}

func TestLogSubmitEmpty(t *testing.T) {
	l := NewLog()
	if err := l.Submit(context.Background(), nil, "   "); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
	if len(l.Messages()) != 0 {
		t.Error("blank submission should not be logged")
	}
}

func TestLogRejectsOverlappingSubmit(t *testing.T) {
	l := NewLog()
	entered := make(chan struct{})
	release := make(chan struct{})
	slow := senderFunc(func(ctx context.Context, text string) ([]Message, error) {
		close(entered)
		<-release
		return []Message{{Sender: SenderAI, Text: "done"}}, nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Submit(context.Background(), slow, "first")
	}()

	<-entered
	if !l.Busy() {
		t.Error("log should be busy while a request is outstanding")
	}
	if err := l.Submit(context.Background(), slow, "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
	close(release)
	wg.Wait()

	msgs := l.Messages()
	if len(msgs) != 2 || msgs[0].Text != "first" || msgs[1].Text != "done" {
		t.Errorf("Messages = %+v", msgs)
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Submit(context.Background(), senderFunc(func(ctx context.Context, text string) ([]Message, error) {
		return nil, nil
	}), "x")
	msgs := l.Messages()
	msgs[0].Text = "changed"
	if l.Messages()[0].Text != "x" {
		t.Error("Messages should not expose internal storage")
	}
}
