package graph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrRendererNotFound is returned when the Graphviz binary is not on PATH.
var ErrRendererNotFound = errors.New("graphviz 'dot' executable not found")

// DotBinary is the Graphviz layout command used by RenderImage.
var DotBinary = "dot"

// RenderImage lays out the DOT file at dotPath with Graphviz and writes the
// image to imagePath. The image format follows the output extension
// (png when there is none).
func RenderImage(ctx context.Context, dotPath, imagePath string) error {
	bin, err := exec.LookPath(DotBinary)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRendererNotFound, err)
	}

	format := strings.TrimPrefix(filepath.Ext(imagePath), ".")
	if format == "" {
		format = "png"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-T"+format, dotPath, "-o", imagePath)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("dot failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
