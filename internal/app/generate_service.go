package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"llm-workbench/internal/ai"
	"llm-workbench/internal/store"
)

const (
	blogSystemPrompt = "You are a professional blog writer who writes structured, engaging, SEO-friendly blog posts with headings and proper formatting."
	codeSystemPrompt = "You are an expert programmer. Generate clean, efficient, and well-commented code in %s. Always provide the code inside triple backticks first, then a brief explanation."

	blogTemperature = 0.7
	codeTemperature = 0.5

	defaultBlogTone     = "professional"
	defaultCodeLanguage = "javascript"
)

var (
	ErrTopicEmpty = errors.New("blog topic is empty")
	ErrTaskEmpty  = errors.New("code task is empty")
)

var codeFenceRe = regexp.MustCompile("(?s)```\\w*\\n(.*?)```")

// GenerateService owns the structured generation modes (blog, code): single
// request, system instruction selects the output shape.
type GenerateService struct {
	credentials *store.CredentialStore
	llmClient   *ai.Client
	llm         ai.ChatConfig
}

func NewGenerateService(credentials *store.CredentialStore, llmClient *ai.Client, llm ai.ChatConfig) *GenerateService {
	return &GenerateService{
		credentials: credentials,
		llmClient:   llmClient,
		llm:         llm,
	}
}

// Blog generates a blog post about the topic in the requested tone and
// length band.
func (s *GenerateService) Blog(ctx context.Context, topic, tone, length string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrTopicEmpty
	}
	tone = strings.TrimSpace(tone)
	if tone == "" {
		tone = defaultBlogTone
	}

	cfg := s.llm
	cfg.APIKey = s.credentials.Current()
	if cfg.APIKey == "" {
		return "", ErrNoCredential
	}

	user := fmt.Sprintf(
		"Write a %s blog about \"%s\" in %s. Use clear headings, subheadings, and proper paragraph formatting.",
		tone, topic, blogLengthGuide(length),
	)
	messages := []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: blogSystemPrompt},
		{Role: ai.RoleUser, Content: user},
	}
	return s.llmClient.Complete(ctx, cfg, messages, ai.CompleteOptions{
		Temperature: ai.Temperature(blogTemperature),
	})
}

type CodeResult struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// Code generates code for the task and splits the reply into the first
// fenced block and the surrounding explanation. Without a fence the whole
// reply is treated as code.
func (s *GenerateService) Code(ctx context.Context, language, task string) (*CodeResult, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, ErrTaskEmpty
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = defaultCodeLanguage
	}

	cfg := s.llm
	cfg.APIKey = s.credentials.Current()
	if cfg.APIKey == "" {
		return nil, ErrNoCredential
	}

	messages := []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: fmt.Sprintf(codeSystemPrompt, language)},
		{Role: ai.RoleUser, Content: task},
	}
	reply, err := s.llmClient.Complete(ctx, cfg, messages, ai.CompleteOptions{
		Temperature: ai.Temperature(codeTemperature),
	})
	if err != nil {
		return nil, err
	}
	return splitCodeReply(reply), nil
}

func blogLengthGuide(length string) string {
	switch length {
	case "short":
		return "300-500 words"
	case "medium":
		return "700-1000 words"
	default:
		return "1500-2000 words"
	}
}

func splitCodeReply(reply string) *CodeResult {
	loc := codeFenceRe.FindStringSubmatchIndex(reply)
	if loc == nil {
		return &CodeResult{Code: reply}
	}
	code := strings.TrimSpace(reply[loc[2]:loc[3]])
	explanation := strings.TrimSpace(reply[:loc[0]] + reply[loc[1]:])
	return &CodeResult{Code: code, Explanation: explanation}
}
