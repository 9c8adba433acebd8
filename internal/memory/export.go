// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/style-engine/pkg/types"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
)

// Snapshot is the exported state of one scope.
type Snapshot struct {
	Scope         types.Scope               `json:"scope" yaml:"scope"`
	ExportedAt    time.Time                 `json:"exported_at" yaml:"exported_at"`
	ActiveProfile *types.StyleProfile       `json:"active_profile,omitempty" yaml:"active_profile,omitempty"`
	Artifacts     []types.GeneratedArtifact `json:"artifacts" yaml:"artifacts"`
}

// TakeSnapshot reads the active profile and all artifacts of scope.
func TakeSnapshot(ctx context.Context, s Store, scope types.Scope) (Snapshot, error) {
	snap := Snapshot{Scope: scope, ExportedAt: time.Now().UTC()}

	p, ok, err := s.ReadActiveStyleProfile(ctx, scope)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading active profile: %w", err)
	}
	if ok {
		snap.ActiveProfile = &p
	}

	arts, err := s.ListArtifacts(ctx, scope, ListOptions{})
	if err != nil {
		return Snapshot{}, fmt.Errorf("listing artifacts: %w", err)
	}
	snap.Artifacts = arts
	if snap.Artifacts == nil {
		snap.Artifacts = []types.GeneratedArtifact{}
	}
	return snap, nil
}

// Export writes a snapshot of scope to w in the given format.
func Export(ctx context.Context, s Store, scope types.Scope, w io.Writer, format ExportFormat) error {
	snap, err := TakeSnapshot(ctx, s, scope)
	if err != nil {
		return err
	}

	switch format {
	case ExportYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
