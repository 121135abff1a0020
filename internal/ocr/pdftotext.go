package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText runs pdftotext -layout on the given PDF and returns stdout.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	return p.run(ctx, pdfPath, nil)
}

// ExtractPages runs pdftotext -layout restricted to the 1-based
// inclusive page range [first, last].
func (p *PdfToText) ExtractPages(ctx context.Context, pdfPath string, first, last int) (string, error) {
	if first < 1 || last < first {
		return "", eris.Errorf("ocr: invalid page range %d-%d", first, last)
	}
	return p.run(ctx, pdfPath, []string{"-f", strconv.Itoa(first), "-l", strconv.Itoa(last)})
}

func (p *PdfToText) run(ctx context.Context, pdfPath string, extra []string) (string, error) {
	args := append([]string{"-layout"}, extra...)
	args = append(args, pdfPath, "-")

	cmd := exec.CommandContext(ctx, p.binPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return stdout.String(), nil
}
