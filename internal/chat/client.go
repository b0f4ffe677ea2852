// Package chat sends user messages to the chat endpoint and keeps the
// conversation log shown by the front ends.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nba-chat/internal/models"
)

const (
	// SenderUser marks messages typed by the user
	SenderUser = "user"
	// SenderAI is used for replies that name no agent
	SenderAI = "ai"

	// NoAnswerText is shown when a reply has no recognizable shape
	NoAnswerText = "No answer returned."
	// ErrorText is shown when the request fails
	ErrorText = "Error: Could not get answer."
)

// Message is one entry of the conversation
type Message struct {
	Sender      string `json:"sender"`
	Text        string `json:"text"`
	IsFormatted bool   `json:"is_formatted"`
	Agent       string `json:"agent,omitempty"`
}

// IsUser reports whether the user wrote the message
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Client posts chat messages to an endpoint
type Client struct {
	Endpoint   string
	User       string
	HTTPClient *http.Client
}

// NewClient creates a client for the given chat endpoint URL
func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint:   endpoint,
		User:       SenderUser,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Send posts text and returns the reply messages. Transport failures and
// non-2xx responses are both errors.
func (c *Client) Send(ctx context.Context, text string) ([]Message, error) {
	body, err := json.Marshal(models.ChatRequest{User: c.User, Message: text})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chat request: status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	return DecodeResponse(respBody), nil
}

// DecodeResponse maps a chat response body onto display messages. The
// endpoint has answered with several shapes over time: an array of agent
// answers, an object with items, and the older answer and response objects.
// TODO: drop the answer and response shapes once every backend sends items.
func DecodeResponse(body []byte) []Message {
	var answers []models.AgentAnswer
	if err := json.Unmarshal(body, &answers); err == nil && answers != nil {
		msgs := make([]Message, 0, len(answers))
		for _, a := range answers {
			sender := a.Agent
			if sender == "" {
				sender = SenderAI
			}
			msgs = append(msgs, Message{Sender: sender, Text: a.Answer, Agent: a.Agent})
		}
		return msgs
	}

	var obj struct {
		Items    []models.SummaryItem `json:"items"`
		Answer   string               `json:"answer"`
		Response string               `json:"response"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return []Message{{Sender: SenderAI, Text: NoAnswerText}}
	}

	switch {
	case len(obj.Items) > 0:
		return []Message{{Sender: SenderAI, Text: obj.Items[0].Text, IsFormatted: true}}
	case obj.Answer != "":
		return []Message{{Sender: SenderAI, Text: obj.Answer}}
	case obj.Response != "":
		return []Message{{Sender: SenderAI, Text: obj.Response}}
	default:
		return []Message{{Sender: SenderAI, Text: NoAnswerText}}
	}
}
