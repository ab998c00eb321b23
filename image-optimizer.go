package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/h2non/bimg"
)

const (
	postImageSize = 1080 // square post image
	thumbSize     = 400
)

// OptimizeImage converts a downloaded image into a square webp post
// image plus a small thumbnail next to it, returning the post image path
func OptimizeImage(inputPath string) (string, error) {
	buffer, err := bimg.Read(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %v", err)
	}

	basePath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	postPath := basePath + "_post.webp"
	thumbPath := basePath + "_thumb.webp"

	if err := resizeSquare(buffer, postImageSize, postPath); err != nil {
		return "", fmt.Errorf("failed to create post image: %v", err)
	}
	if err := resizeSquare(buffer, thumbSize, thumbPath); err != nil {
		return "", fmt.Errorf("failed to create thumbnail: %v", err)
	}

	return postPath, nil
}

func resizeSquare(buffer []byte, target int, outputPath string) error {
	size, err := bimg.NewImage(buffer).Size()
	if err != nil {
		return fmt.Errorf("failed to get image dimensions: %v", err)
	}

	// Resize the short edge to the target, then center-crop to square
	var resized []byte
	if size.Height < size.Width {
		resized, err = bimg.NewImage(buffer).Process(bimg.Options{
			Height:  target,
			Force:   true,
			Enlarge: true,
			Type:    bimg.WEBP,
		})
	} else {
		resized, err = bimg.NewImage(buffer).Process(bimg.Options{
			Width:   target,
			Force:   true,
			Enlarge: true,
			Type:    bimg.WEBP,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to resize: %v", err)
	}

	resizedSize, err := bimg.NewImage(resized).Size()
	if err != nil {
		return fmt.Errorf("failed to get resized dimensions: %v", err)
	}

	x := (resizedSize.Width - target) / 2
	y := (resizedSize.Height - target) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	cropped, err := bimg.NewImage(resized).Extract(y, x, target, target)
	if err != nil {
		return fmt.Errorf("failed to crop: %v", err)
	}

	return bimg.Write(outputPath, cropped)
}
