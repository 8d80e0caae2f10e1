package model

import "time"

// Document content is set once from upload and never mutated afterwards.
// Summary starts absent and is overwritten by each summarize call.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Content   string    `json:"content"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

func (d Document) RecordID() string { return d.ID }
