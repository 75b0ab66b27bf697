package domain

// Role of a conversation turn
type Role string

// Turn roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation about a paper
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	PaperURL  string `json:"paper_url"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the response from a chat message
type ChatResponse struct {
	OK        bool   `json:"ok"`
	Answer    string `json:"answer"`
	SessionID string `json:"session_id,omitempty"`
}
