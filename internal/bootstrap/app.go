package bootstrap

import (
	"fmt"
	"time"

	"llm-workbench/internal/ai"
	"llm-workbench/internal/config"
	"llm-workbench/internal/logging"
	"llm-workbench/internal/model"
	"llm-workbench/internal/storage"
	"llm-workbench/internal/store"
)

// App wires the process-wide dependencies: configuration, the blob store,
// the domain stores, and the completion client. Stores are injectable
// dependencies, not ambient singletons.
type App struct {
	Config        *config.Config
	Blobs         *storage.BlobStore
	Credentials   *store.CredentialStore
	Conversations *store.CollectionStore[model.Conversation]
	Documents     *store.CollectionStore[model.Document]
	LLMClient     *ai.Client

	StartedAt time.Time
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logging.Init(cfg.App.Env)

	blobs, err := storage.New(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:        cfg,
		Blobs:         blobs,
		Credentials:   store.NewCredentialStore(blobs),
		Conversations: store.NewCollectionStore[model.Conversation](blobs, storage.KeyConversations),
		Documents:     store.NewCollectionStore[model.Document](blobs, storage.KeyDocuments),
		LLMClient:     ai.NewClient(),
		StartedAt:     time.Now(),
	}, nil
}

// LLMConfig is the provider config without a key; callers attach the saved
// credential per request.
func (a *App) LLMConfig() ai.ChatConfig {
	return ai.ChatConfig{
		BaseURL: a.Config.LLM.BaseURL,
		Model:   a.Config.LLM.Model,
	}
}
