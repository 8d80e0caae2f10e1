package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is immutable once created; identity is the ID.
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}
