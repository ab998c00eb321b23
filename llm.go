package main

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// ChatClient is the single-request language-model contract everything in
// the pipeline generates through. One call, one prompt, one text reply.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIChat wraps the chat-completions endpoint
type OpenAIChat struct {
	client *openai.Client
	model  string
}

func NewOpenAIChat(apiKey string) *OpenAIChat {
	return &OpenAIChat{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

func (c *OpenAIChat) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned in chat completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// GeminiChat wraps the Gemini generate-content endpoint; used for image
// prompt derivation
type GeminiChat struct {
	apiKey string
	model  string
}

func NewGeminiChat(apiKey string) *GeminiChat {
	return &GeminiChat{apiKey: apiKey, model: "gemini-2.0-flash"}
}

func (c *GeminiChat) Complete(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.SetTemperature(0.7)
	model.SetTopK(40)
	model.SetTopP(0.8)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned, possible safety filter: %+v", resp)
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content parts in the first candidate: %+v", resp)
	}

	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("expected text part in response, got: %+v", resp.Candidates[0].Content.Parts[0])
	}
	return string(textPart), nil
}
