package model

// Conversation holds an ordered, append-only message history. The title is
// derived once from the first user message and then frozen.
type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

func (c Conversation) RecordID() string { return c.ID }
