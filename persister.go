package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const artifactName = "current_post.json"

// ImageMaker is the image sub-path contract; failures degrade to a post
// without an image
type ImageMaker interface {
	GenerateImage(ctx context.Context, postText, outputDir string) (string, error)
}

// Persister writes the current-post artifact, optionally with a
// generated image. The output directory is cleared and recreated each
// run; the artifact is the durable handoff to downstream publishing.
type Persister struct {
	outputDir    string
	imageProb    float64
	enableImages bool
	images       ImageMaker
	randFloat    func() float64
	now          func() time.Time
}

func NewPersister(outputDir string, imageProb float64, enableImages bool, images ImageMaker) *Persister {
	return &Persister{
		outputDir:    outputDir,
		imageProb:    imageProb,
		enableImages: enableImages,
		images:       images,
		randFloat:    rand.Float64,
		now:          time.Now,
	}
}

func (p *Persister) Persist(ctx context.Context, platform, text string, idea PostIdea) (*CurrentPost, error) {
	if err := os.RemoveAll(p.outputDir); err != nil {
		return nil, fmt.Errorf("failed to clear output directory: %w", err)
	}
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	post := &CurrentPost{
		ID:        uuid.New().String(),
		Platform:  platform,
		Text:      text,
		Idea:      idea.Concept,
		Timestamp: p.now(),
	}

	if p.enableImages && p.images != nil && p.randFloat() < p.imageProb {
		imagePath, err := p.images.GenerateImage(ctx, text, p.outputDir)
		if err != nil {
			logg.Warnf("image generation failed, posting without image: %v", err)
		} else {
			post.ImagePath = &imagePath
		}
	}

	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := os.WriteFile(filepath.Join(p.outputDir, artifactName), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	return post, nil
}
