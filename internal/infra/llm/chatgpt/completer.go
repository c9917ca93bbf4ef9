package chatgpt

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/glowedge/skincare-backend/internal/domain/routine"
	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
	"github.com/glowedge/skincare-backend/pkg/metrics"
)

// Completer adapts the ChatGPT client to the routine engine. Finish reasons
// are normalized so the engine never has to know provider vocabulary.
type Completer struct {
	client      *Client
	model       string
	temperature float32
	maxTokens   int
}

// NewCompleter constructs the adapter.
func NewCompleter(client *Client, model string, temperature float32, maxTokens int) *Completer {
	return &Completer{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Complete sends the prompt as a single user message.
func (c *Completer) Complete(ctx context.Context, prompt string) (routine.Completion, error) {
	resp, err := c.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return routine.Completion{}, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return routine.Completion{}, apperrors.Wrap(apperrors.CodeProviderUnavailable, "chatgpt returned no choices", nil)
	}

	choice := resp.Choices[0]
	return routine.Completion{
		Text:   choice.Message.Content,
		Status: finishReasonStatus(choice.FinishReason),
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func finishReasonStatus(reason string) routine.CompletionStatus {
	switch strings.ToLower(reason) {
	case "stop", "":
		return routine.CompletionStatusOK
	case "length":
		return routine.CompletionStatusTruncated
	case "content_filter":
		return routine.CompletionStatusBlocked
	default:
		return routine.CompletionStatusOther
	}
}

func classifyError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.Wrap(apperrors.CodeProviderUnavailable, "chatgpt rejected credentials", err)
		case http.StatusTooManyRequests:
			return apperrors.Wrap(apperrors.CodeProviderUnavailable, "chatgpt rate limit exceeded", err)
		default:
			return apperrors.Wrap(apperrors.CodeProviderUnavailable, "chatgpt request failed", err)
		}
	}
	return apperrors.Wrap(apperrors.CodeProviderUnavailable, "chatgpt unreachable", err)
}

var _ routine.Completer = (*Completer)(nil)
