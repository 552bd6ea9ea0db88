package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/schoolboard/core/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
)

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

func isOpenAICompatible(raw string) bool {
	t := normalizeProviderType(raw)
	return t == "openai-compatible" || t == "openaicompatible"
}

func isAnthropic(raw string) bool {
	return normalizeProviderType(raw) == "anthropic"
}

// callChat sends a conversation through the configured provider and
// returns the full reply.
func callChat(ctx context.Context, provider *appcfg.AIProvider, system string, messages []ChatMessage, maxTokens int) (string, error) {
	if isOpenAICompatible(provider.Type) {
		return callCompatible(ctx, provider, system, messages, maxTokens, nil)
	}

	model, err := buildLanguageModel(provider)
	if err != nil {
		return "", err
	}
	resp, err := jetai.GenerateText(
		ctx,
		buildPromptMessages(system, messages),
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxTokens),
	)
	if err != nil {
		return "", err
	}
	return extractText(resp)
}

// callChatStream streams the reply token by token through onToken and
// returns the accumulated text.
func callChatStream(ctx context.Context, provider *appcfg.AIProvider, system string, messages []ChatMessage, maxTokens int, onToken func(string)) (string, error) {
	if isOpenAICompatible(provider.Type) {
		return callCompatible(ctx, provider, system, messages, maxTokens, onToken)
	}

	model, err := buildLanguageModel(provider)
	if err != nil {
		return "", err
	}
	streamResp, err := jetai.StreamText(
		ctx,
		buildPromptMessages(system, messages),
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxTokens),
	)
	if err != nil {
		return "", err
	}

	var full strings.Builder
	for event := range streamResp.Stream {
		switch evt := event.(type) {
		case *jetapi.TextDeltaEvent:
			if evt.TextDelta == "" {
				continue
			}
			full.WriteString(evt.TextDelta)
			if onToken != nil {
				onToken(evt.TextDelta)
			}
		case *jetapi.ErrorEvent:
			if evt.Err == nil {
				return "", errors.New("assistant stream returned an unknown error")
			}
			return "", fmt.Errorf("%v", evt.Err)
		}
	}
	reply := full.String()
	if strings.TrimSpace(reply) == "" {
		return "", errEmptyReply
	}
	return reply, nil
}

func buildLanguageModel(provider *appcfg.AIProvider) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(provider.APIKey)
	if apiKey == "" {
		return nil, errProviderKeyEmpty
	}
	modelID := strings.TrimSpace(provider.Model)
	baseURL := strings.TrimSpace(provider.BaseURL)

	if isAnthropic(provider.Type) {
		if modelID == "" {
			modelID = defaultAnthropicModel
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if baseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(baseURL, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	if modelID == "" {
		modelID = defaultOpenAIModel
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(baseURL); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func buildPromptMessages(system string, messages []ChatMessage) []jetapi.Message {
	out := make([]jetapi.Message, 0, len(messages)+1)
	if strings.TrimSpace(system) != "" {
		out = append(out, &jetapi.SystemMessage{Content: system})
	}
	for _, m := range messages {
		if m.Role == "assistant" {
			out = append(out, &jetapi.AssistantMessage{Content: jetapi.ContentFromText(m.Content)})
			continue
		}
		out = append(out, &jetapi.UserMessage{Content: jetapi.ContentFromText(m.Content)})
	}
	return out
}

func extractText(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errEmptyReply
	}
	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}
	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errEmptyReply
	}
	return text, nil
}

// callCompatible speaks the plain chat-completions wire format for
// self-hosted and proxy backends. With onToken set it requests SSE.
func callCompatible(ctx context.Context, provider *appcfg.AIProvider, system string, messages []ChatMessage, maxTokens int, onToken func(string)) (string, error) {
	if strings.TrimSpace(provider.APIKey) == "" {
		return "", errProviderKeyEmpty
	}
	endpoint := normalizeCompatibleEndpoint(provider.BaseURL)
	model := strings.TrimSpace(provider.Model)
	if model == "" {
		model = defaultOpenAIModel
	}

	wire := make([]map[string]string, 0, len(messages)+1)
	if strings.TrimSpace(system) != "" {
		wire = append(wire, map[string]string{"role": "system", "content": system})
	}
	for _, m := range messages {
		wire = append(wire, map[string]string{"role": m.Role, "content": m.Content})
	}

	payload := map[string]interface{}{
		"model":      model,
		"messages":   wire,
		"max_tokens": maxTokens,
	}
	streaming := onToken != nil
	if streaming {
		payload["stream"] = true
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(provider.APIKey))
	req.Header.Set("Content-Type", "application/json")
	if streaming {
		req.Header.Set("Accept", "text/event-stream")
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("assistant provider error: %s", strings.TrimSpace(string(respBody)))
	}

	if !streaming {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		var result struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
			Error *struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return "", err
		}
		if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
			return "", fmt.Errorf("assistant provider error: %s", result.Error.Message)
		}
		if len(result.Choices) == 0 {
			return "", errEmptyReply
		}
		return result.Choices[0].Message.Content, nil
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			break
		}
		var event struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}
		if len(event.Choices) == 0 || event.Choices[0].Delta.Content == "" {
			continue
		}
		token := event.Choices[0].Delta.Content
		full.WriteString(token)
		onToken(token)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	reply := full.String()
	if strings.TrimSpace(reply) == "" {
		return "", errEmptyReply
	}
	return reply, nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}
	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeCompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(strings.TrimRight(base, "/"), "/v1")
	}
	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
