package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor normalizes uploaded photos before they hit storage.
type ImageProcessor struct {
	maxEdge int
	quality int
}

// NewImageProcessor creates an ImageProcessor that bounds photos to maxEdge
// pixels on their longest side and re-encodes them as JPEG.
func NewImageProcessor(maxEdge int) *ImageProcessor {
	return &ImageProcessor{
		maxEdge: maxEdge,
		quality: 85,
	}
}

// Normalize decodes the source image, downscales it to fit the configured
// bounding box (never upscales) and returns JPEG content. Returns an error
// when the content is not a decodable image.
func (p *ImageProcessor) Normalize(content io.Reader) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.maxEdge || bounds.Dy() > p.maxEdge {
		img = imaging.Fit(img, p.maxEdge, p.maxEdge, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf, nil
}
