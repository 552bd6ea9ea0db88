package assistant

import "errors"

// ChatMessage is one turn of the conversation relayed by the client.
type ChatMessage struct {
	Role    string `json:"role"    binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type ChatDTO struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

var (
	ErrAssistantDisabled = errors.New("assistant disabled")
	errProviderKeyEmpty  = errors.New("assistant provider api key is empty")
	errEmptyReply        = errors.New("empty response from assistant provider")
)
