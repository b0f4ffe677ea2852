package models

// TextChunk represents a chunk of text from a knowledge document
type TextChunk struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Metadata  Metadata  `json:"metadata"`
	Embedding []float64 `json:"embedding,omitempty"`
}

// Metadata contains information about the text chunk
type Metadata struct {
	Index      string `json:"index"`                // Knowledge index the chunk belongs to (e.g., "threshold")
	Source     string `json:"source"`               // Source document file name
	PageNumber int    `json:"page_number"`          // First page the chunk was read from
	Section    string `json:"section,omitempty"`    // Nearest heading above the chunk
	ChunkType  string `json:"chunk_type,omitempty"` // "section", "paragraph"
}

// Ticket is one row of the tickets table
type Ticket struct {
	TicketNumber     string `json:"ticket_number"`
	CreationDate     string `json:"creation_date"`
	CurrentStatus    string `json:"current_Status"`
	AssignedTo       string `json:"assigned_to"`
	Priority         string `json:"priority"`
	Subject          string `json:"subject"`
	AnyOtherComments string `json:"any_other_comments"`
}

// ChatRequest is the body of a chat request
type ChatRequest struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// AgentAnswer is a single agent's reply to a chat request
type AgentAnswer struct {
	Agent  string `json:"agent"`
	Answer string `json:"answer"`
}

// SummaryItem is one entry of a summarized chat response
type SummaryItem struct {
	Text string `json:"text"`
}

// SummaryResponse is the chat response body in summary mode
type SummaryResponse struct {
	Items []SummaryItem `json:"items"`
}

// Response represents the response from the LLM
type Response struct {
	Answer    string      `json:"answer"`
	Sources   []TextChunk `json:"sources"`
	Timestamp string      `json:"timestamp"`
}

// ServiceCheck is the health of one dependency
type ServiceCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by health endpoints
type HealthResponse struct {
	Status   string        `json:"status"`
	Ollama   *ServiceCheck `json:"ollama,omitempty"`
	Database *ServiceCheck `json:"database,omitempty"`
}
