package app

import (
	"context"
	"strings"

	"llm-workbench/internal/ai"
	"llm-workbench/internal/store"
)

// CredentialService fronts the credential store and the advisory key probe.
type CredentialService struct {
	credentials *store.CredentialStore
	llmClient   *ai.Client
	llm         ai.ChatConfig
}

func NewCredentialService(credentials *store.CredentialStore, llmClient *ai.Client, llm ai.ChatConfig) *CredentialService {
	return &CredentialService{
		credentials: credentials,
		llmClient:   llmClient,
		llm:         llm,
	}
}

func (s *CredentialService) Save(value string) error {
	return s.credentials.Save(value)
}

func (s *CredentialService) Masked() string {
	return s.credentials.Masked()
}

func (s *CredentialService) Saved() bool {
	return s.credentials.Current() != ""
}

// Validate probes the provider with the given key, or the saved one when
// blank. The probe never persists anything.
func (s *CredentialService) Validate(ctx context.Context, value string) (ai.KeyValidation, error) {
	key := strings.TrimSpace(value)
	if key == "" {
		key = s.credentials.Current()
	}
	if key == "" {
		return ai.KeyValidation{}, store.ErrEmptyCredential
	}

	cfg := s.llm
	cfg.APIKey = key
	return s.llmClient.ValidateKey(ctx, cfg)
}
