// Package poppler reads and rasterises PDFs with the poppler command-line
// tools: pdftotext for the text layer and pdftoppm for page images.
package poppler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Tool names.
const (
	TextTool   = "pdftotext"
	RenderTool = "pdftoppm"
)

// ErrToolNotFound indicates a poppler binary is missing from PATH.
var ErrToolNotFound = errors.New("poppler tool not found in PATH (pdftotext, pdftoppm)")

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. Stderr is folded into the error on failure.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s failed: %w", name, err)
		}
		return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// CheckAvailable reports whether both poppler tools are on PATH.
func CheckAvailable() error {
	for _, tool := range []string{TextTool, RenderTool} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%w: %s", ErrToolNotFound, tool)
		}
	}
	return nil
}

// InstallInstructions returns platform hints for installing poppler.
func InstallInstructions() string {
	return `PDF ingestion needs pdftotext and pdftoppm from poppler.

Install:
  macOS:          brew install poppler
  Ubuntu/Debian:  sudo apt install poppler-utils
  Fedora:         sudo dnf install poppler-utils
  Arch:           sudo pacman -S poppler

Scanned documents also need Tesseract with Vietnamese data:
  macOS:          brew install tesseract tesseract-lang
  Ubuntu/Debian:  sudo apt install tesseract-ocr tesseract-ocr-vie`
}

// windowArgs returns the -f/-l flags for window, or nothing for all pages.
func windowArgs(start, end int) []string {
	if start == 0 {
		return nil
	}
	return []string{"-f", fmt.Sprint(start), "-l", fmt.Sprint(end)}
}
