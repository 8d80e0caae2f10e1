package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"llm-workbench/internal/ai"
	"llm-workbench/internal/model"
	"llm-workbench/internal/pkg/pdfextract"
	"llm-workbench/internal/store"
)

const (
	// docContextRunes caps how much document content rides along in a single
	// request. Flat character truncation, not token-aware: it can cut
	// mid-word.
	docContextRunes = 12000

	summarizeSystemPrompt = "Summarize clearly and concisely."
	askSystemPrompt       = "Answer only using the provided document context."
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrQuestionEmpty    = errors.New("question is empty")
	ErrNoReadableText   = errors.New("no readable text found")
)

// DocumentService owns the document Q&A mode: upload, summarize, and ask,
// plus the pending answer tied to the current selection.
type DocumentService struct {
	documents   *store.CollectionStore[model.Document]
	credentials *store.CredentialStore
	llmClient   *ai.Client
	llm         ai.ChatConfig

	mu     sync.Mutex
	answer string
}

func NewDocumentService(
	documents *store.CollectionStore[model.Document],
	credentials *store.CredentialStore,
	llmClient *ai.Client,
	llm ai.ChatConfig,
) *DocumentService {
	return &DocumentService{
		documents:   documents,
		credentials: credentials,
		llmClient:   llmClient,
		llm:         llm,
	}
}

// Upload reads the file, extracts text (PDF via the extraction collaborator,
// everything else verbatim), and prepends a new document, selecting it.
func (s *DocumentService) Upload(filename string, r io.Reader) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload failed: %w", err)
	}

	var text string
	if isPDF(filename, data) {
		text, err = pdfextract.ExtractText(data)
		if err != nil {
			return nil, err
		}
	} else {
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoReadableText
	}

	doc := model.Document{
		ID:        model.NewID(),
		Filename:  filename,
		Content:   text,
		CreatedAt: time.Now(),
	}
	if err := s.documents.Insert(doc); err != nil {
		return nil, err
	}
	s.documents.Select(doc.ID)
	s.setAnswer("")

	slog.Info("document uploaded", "document_id", doc.ID, "filename", filename, "chars", len(text))
	return &doc, nil
}

func (s *DocumentService) ListDocuments() []model.Document {
	return s.documents.Items()
}

// SelectDocument moves the selection pointer and drops the pending answer.
func (s *DocumentService) SelectDocument(id string) {
	s.documents.Select(id)
	s.setAnswer("")
}

func (s *DocumentService) SelectedDocument() (model.Document, bool) {
	return s.documents.Selected()
}

// RemoveDocument deletes the document; removing the selected one also clears
// the pending answer.
func (s *DocumentService) RemoveDocument(id string, confirmed bool) error {
	selected, ok := s.documents.Selected()
	if err := s.documents.Remove(id, confirmed); err != nil {
		return err
	}
	if ok && selected.ID == id {
		s.setAnswer("")
	}
	return nil
}

// Summarize asks the provider for a summary of the document's leading
// content and writes it through the collection. Each call overwrites the
// previous summary.
func (s *DocumentService) Summarize(ctx context.Context, id string) (string, error) {
	doc, ok := s.documents.Get(id)
	if !ok {
		return "", ErrDocumentNotFound
	}

	cfg := s.llm
	cfg.APIKey = s.credentials.Current()
	if cfg.APIKey == "" {
		return "", ErrNoCredential
	}

	messages := []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: summarizeSystemPrompt},
		{Role: ai.RoleUser, Content: truncateRunes(doc.Content, docContextRunes)},
	}
	summary, err := s.llmClient.Complete(ctx, cfg, messages, ai.CompleteOptions{})
	if err != nil {
		slog.Warn("summarize failed", "document_id", id, "error", err)
		return "", err
	}

	if err := s.documents.Update(id, func(d model.Document) model.Document {
		d.Summary = &summary
		return d
	}); err != nil {
		return "", err
	}
	return summary, nil
}

// Ask answers a question against the document's leading content. The answer
// becomes the pending answer for the current selection.
func (s *DocumentService) Ask(ctx context.Context, id, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrQuestionEmpty
	}
	doc, ok := s.documents.Get(id)
	if !ok {
		return "", ErrDocumentNotFound
	}

	cfg := s.llm
	cfg.APIKey = s.credentials.Current()
	if cfg.APIKey == "" {
		return "", ErrNoCredential
	}

	messages := []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: askSystemPrompt},
		{Role: ai.RoleUser, Content: "Document:\n" + truncateRunes(doc.Content, docContextRunes) + "\n\nQuestion: " + question},
	}
	answer, err := s.llmClient.Complete(ctx, cfg, messages, ai.CompleteOptions{})
	if err != nil {
		slog.Warn("ask failed", "document_id", id, "error", err)
		return "", err
	}

	s.setAnswer(answer)
	return answer, nil
}

// Answer returns the pending answer for the selected document, empty when
// none.
func (s *DocumentService) Answer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answer
}

func (s *DocumentService) setAnswer(answer string) {
	s.mu.Lock()
	s.answer = answer
	s.mu.Unlock()
}

func isPDF(filename string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF"))
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
