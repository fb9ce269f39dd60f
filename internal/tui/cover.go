package tui

import (
	"context"
	"fmt"
	"image"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ioutils "github.com/handiism/radiotracks/internal/io"
)

// coverWidth is the width of a rendered cover in terminal cells. Each cell
// holds two vertically stacked pixels.
const coverWidth = 24

// CoverFetcher downloads raw cover bytes.
type CoverFetcher interface {
	FetchCover(ctx context.Context, url string) ([]byte, error)
}

// CoverMsg carries a rendered cover back to the model.
type CoverMsg struct {
	URL string
	Art string
	Err error
}

// loadCover fetches, decodes and renders the cover at url.
func loadCover(ctx context.Context, fetcher CoverFetcher, images *ioutils.ImageService, url string) tea.Cmd {
	return func() tea.Msg {
		data, err := fetcher.FetchCover(ctx, url)
		if err != nil {
			return CoverMsg{URL: url, Err: err}
		}
		img, err := images.Decode(ctx, data)
		if err != nil {
			return CoverMsg{URL: url, Err: fmt.Errorf("decode cover: %w", err)}
		}
		return CoverMsg{URL: url, Art: renderHalfBlocks(images.Fit(img, coverWidth, coverWidth))}
	}
}

// renderHalfBlocks draws img with "▀" cells: the foreground colors the
// upper pixel and the background the lower one. An odd last row is drawn
// over the terminal's default background.
func renderHalfBlocks(img image.Image) string {
	b := img.Bounds()
	var out strings.Builder

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			out.WriteString("\n")
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(img, x, y))
			if y+1 < b.Max.Y {
				style = style.Background(hexColor(img, x, y+1))
			}
			out.WriteString(style.Render("▀"))
		}
	}
	return out.String()
}

func hexColor(img image.Image, x, y int) lipgloss.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
