package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ErrNoCover is returned when there is no image data to decode.
var ErrNoCover = errors.New("no cover image data")

// ImageService provides image processing operations for cover art.
//
// ImageService is used to:
//   - Decode cover images served as WebP (or JPEG/PNG) into pixel buffers
//   - Resize covers to thumbnail dimensions for the web and terminal UIs
//
// Example usage:
//
//	svc := NewImageService()
//
//	data, _ := fetcher.FetchCover(ctx, track.ImageURL)
//	thumb, _ := svc.ResizeImage(ctx, data, 100, 100)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Decode decodes image data into a pixel buffer.
//
// The format is sniffed from the data; WebP, JPEG and PNG are registered.
func (s *ImageService) Decode(ctx context.Context, data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoCover
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Fit scales img down to fit within maxWidth x maxHeight.
//
// The aspect ratio is preserved and images that already fit are returned
// as an RGBA copy of the same size. The Catmull-Rom kernel is used.
func (s *ImageService) Fit(img image.Image, maxWidth, maxHeight int) *image.RGBA {
	bounds := img.Bounds()
	width, height := fitDimensions(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. If the image is already smaller than the
// maximum dimensions, it will still be processed (re-encoded as JPEG).
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - data: Original image data (WebP, JPEG, PNG)
//   - maxWidth: Maximum width in pixels
//   - maxHeight: Maximum height in pixels
//
// Returns the resized image as JPEG-encoded bytes.
//
// Example:
//
//	// A 300x300 cover becomes 100x100
//	thumb, err := svc.ResizeImage(ctx, webpData, 100, 100)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, err := s.Decode(ctx, data)
	if err != nil {
		return nil, err
	}

	dst := s.Fit(img, maxWidth, maxHeight)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// fitDimensions computes the largest size within max that keeps the ratio.
func fitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return 1, 1
	}
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		width = int(float64(maxHeight) * ratio)
		height = maxHeight
	} else {
		// Width is the limiting factor
		height = int(float64(maxWidth) / ratio)
		width = maxWidth
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
