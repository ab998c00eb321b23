package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ImageGenerator derives an image prompt from the post text with one
// Gemini call, requests one image from the OpenAI images endpoint, and
// downloads the result. Every failure in this path is recoverable by the
// caller: the post simply ships without an image.
type ImageGenerator struct {
	promptChat ChatClient
	client     *openai.Client
	httpClient *http.Client
	now        func() time.Time
}

func NewImageGenerator(promptChat ChatClient, openAIKey string) *ImageGenerator {
	return &ImageGenerator{
		promptChat: promptChat,
		client:     openai.NewClient(openAIKey),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		now:        time.Now,
	}
}

func (g *ImageGenerator) GenerateImage(ctx context.Context, postText, outputDir string) (string, error) {
	prompt, err := g.deriveImagePrompt(ctx, postText)
	if err != nil {
		return "", fmt.Errorf("failed to derive image prompt: %w", err)
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          openai.CreateImageModelDallE3,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
		N:              1,
	})
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("no image URL in response")
	}

	rawPath, err := g.download(ctx, resp.Data[0].URL, outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	optimized, err := OptimizeImage(rawPath)
	if err != nil {
		// The raw download is still a usable image
		logg.Warnf("image optimization failed, keeping raw image: %v", err)
		return rawPath, nil
	}
	os.Remove(rawPath)
	return optimized, nil
}

func (g *ImageGenerator) deriveImagePrompt(ctx context.Context, postText string) (string, error) {
	instruction := fmt.Sprintf(`Generate a photorealistic image prompt for a social media post.

Guidelines:
1. Start with "A photo of...". Emphasize photography style.
2. The subject must be relevant to the post's theme, kept generic enough to avoid naming real people or brands.
3. Include context that sets mood and atmosphere (location, lighting, time of day).
4. Add quality modifiers: 4K, HDR, taken by a professional photographer.

Post text:
%s

Generate ONLY the image prompt, no extra text or explanation.`, postText)

	prompt, err := g.promptChat.Complete(ctx, instruction)
	if err != nil {
		return "", err
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("empty prompt from model")
	}
	return prompt, nil
}

func (g *ImageGenerator) download(ctx context.Context, imageURL, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}

	outputPath := filepath.Join(outputDir, fmt.Sprintf("image_%d.png", g.now().Unix()))
	out, err := os.Create(outputPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(outputPath)
		return "", err
	}
	return outputPath, nil
}
