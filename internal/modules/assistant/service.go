package assistant

import (
	"context"
	"strings"

	appcfg "github.com/schoolboard/core/internal/config"
	appconfigs "github.com/schoolboard/core/internal/modules/configs"
)

const defaultSystemPrompt = "You are the helpful assistant of a school information website. " +
	"Answer questions about the school using a friendly, concise tone. " +
	"If you do not know an answer, say so and point the visitor to the school office."

// Service proxies visitor conversations to the configured provider.
// The API key stays server-side; clients only ever see the replies.
type Service struct {
	cfgSvc *appconfigs.Service
}

func NewService(cfgSvc *appconfigs.Service) *Service {
	return &Service{cfgSvc: cfgSvc}
}

func (s *Service) options() (system string, maxTokens int, provider *appcfg.AIProvider, err error) {
	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return "", 0, nil, err
	}
	if !cfg.Assistant.Enable {
		return "", 0, nil, ErrAssistantDisabled
	}
	system = cfg.Assistant.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = defaultSystemPrompt
	}
	maxTokens = cfg.Assistant.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}
	p := cfg.Assistant.Provider
	return system, maxTokens, &p, nil
}

func (s *Service) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	system, maxTokens, provider, err := s.options()
	if err != nil {
		return "", err
	}
	return callChat(ctx, provider, system, messages, maxTokens)
}

func (s *Service) ChatStream(ctx context.Context, messages []ChatMessage, onToken func(string)) (string, error) {
	system, maxTokens, provider, err := s.options()
	if err != nil {
		return "", err
	}
	return callChatStream(ctx, provider, system, messages, maxTokens, onToken)
}
