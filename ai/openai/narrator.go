package openai

import (
	"context"
	"log/slog"

	"github.com/symposic/agendaquery/ai"
	"github.com/symposic/agendaquery/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Narrator implements ai.Narrator using OpenAI-compatible chat APIs.
type Narrator struct {
	client llms.Model
	logger *slog.Logger
}

func newNarrator(config *ai.Config) (*Narrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.NarratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.NarratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Narrator{
		client: client,
		logger: slog.Default().With("component", "openai-narrator"),
	}, nil
}

// NewNarrator creates a narrator using the provided configuration.
//
// Returns ai.Narrator interface to enforce abstraction.
func NewNarrator(config *ai.Config) (ai.Narrator, error) {
	return newNarrator(config)
}

// Narrate generates a prose summary of the payload. The completion text is
// returned unmodified; callers pass it through to the UI layer as-is.
func (n *Narrator) Narrate(ctx context.Context, payload string, verbosity core.Verbosity) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildNarrationPrompt(verbosity)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(payload),
			},
		},
	}

	response, err := n.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		n.logger.Error("failed to generate narration", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		n.logger.Debug("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}
