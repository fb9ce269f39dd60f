// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Atomic file replacement
//   - Directory creation
//   - Cover image decoding (WebP, JPEG, PNG) and thumbnailing
//
// # File Operations
//
//	// Replace a file without exposing a half-written version
//	err := ioutils.WriteFileAtomic(ctx, "/data/tracks.csv", content)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/data")
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Decode a WebP cover into a pixel buffer
//	img, err := svc.Decode(ctx, webpData)
//
//	// Resize to fit within 100x100 and re-encode as JPEG
//	thumb, err := svc.ResizeImage(ctx, webpData, 100, 100)
package ioutils
