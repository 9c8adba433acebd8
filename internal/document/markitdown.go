// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/style-engine/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownConverter pipes documents through the markitdown container
// image on a docker or podman runtime.
type MarkitdownConverter struct {
	runtime container.Runtime
}

// NewMarkitdownConverter verifies that the markitdown image exists in rt.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt}, nil
}

// DetectMarkitdown is a ConverterFactory that finds a container runtime
// and checks for the markitdown image.
func DetectMarkitdown(ctx context.Context) (Converter, error) {
	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return nil, err
	}
	return NewMarkitdownConverter(ctx, rt)
}

// Convert implements Converter.
func (m *MarkitdownConverter) Convert(ctx context.Context, format Format, data []byte) (string, error) {
	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, bytes.NewReader(data), &out); err != nil {
		return "", fmt.Errorf("markitdown %s: %w", format, err)
	}
	return out.String(), nil
}
