// Package ocr extracts text content from PDF files, either locally via
// the pdftotext CLI or through the Mistral OCR API for scanned inputs.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/atusdev/timeuse-cli/internal/config"
)

// Extractor extracts text content from PDF files.
type Extractor interface {
	// ExtractText extracts the whole document. Pages are separated by
	// form-feed characters.
	ExtractText(ctx context.Context, pdfPath string) (string, error)

	// ExtractPages extracts an inclusive 1-based page range.
	ExtractPages(ctx context.Context, pdfPath string, first, last int) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}

// SplitPages splits extracted text into pages on form-feed boundaries.
func SplitPages(text string) []string {
	var pages []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\f' {
			pages = append(pages, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		pages = append(pages, text[start:])
	}
	return pages
}
