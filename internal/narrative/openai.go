// ABOUTME: Azure OpenAI backend for the narrative generator
// ABOUTME: Wraps azopenai chat completions; absence on error like every Generator

package narrative

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

// OpenAIClient generates text via an Azure OpenAI chat-completions deployment.
type OpenAIClient struct {
	client     *azopenai.Client
	deployment string
	logger     *slog.Logger
}

// NewOpenAIClient creates an Azure OpenAI backed Generator.
func NewOpenAIClient(endpoint, apiKey, deployment string, logger *slog.Logger) (*OpenAIClient, error) {
	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(apiKey), nil)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		client:     client,
		deployment: deployment,
		logger:     logger.With("component", "narrative", "provider", "openai"),
	}, nil
}

// Generate asks the deployment for a message about the topic.
func (c *OpenAIClient) Generate(ctx context.Context, topic string) (string, error) {
	resp, err := c.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(c.deployment),
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(topic),
			},
		},
	}, nil)
	if err != nil {
		c.logger.Warn("generation request failed", "error", err)
		return "", fmt.Errorf("calling openai: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		c.logger.Warn("generation response had no text")
		return "", fmt.Errorf("openai returned no text")
	}
	return *resp.Choices[0].Message.Content, nil
}
