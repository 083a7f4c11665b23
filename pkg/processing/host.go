package processing

import (
	"fmt"
	"log/slog"

	"github.com/systemstart/steptick/pkg/api"
	"github.com/systemstart/steptick/pkg/step"
	"github.com/systemstart/steptick/pkg/steps"
	"github.com/systemstart/steptick/pkg/tick"
)

// ManifestHost supplies the steps declared by a set of manifests. Every
// discovery builds fresh step instances.
type ManifestHost struct {
	manifests []*api.Manifest
}

var _ tick.Host = (*ManifestHost)(nil)

// NewManifestHost creates a host over already loaded manifests.
func NewManifestHost(manifests []*api.Manifest) *ManifestHost {
	return &ManifestHost{manifests: manifests}
}

// LoadHost discovers manifests below root and returns a host for them.
func LoadHost(root string, maxDepth int) (*ManifestHost, error) {
	manifests, err := DiscoverManifests(root, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("discovering manifests: %w", err)
	}
	if len(manifests) == 0 {
		slog.Warn("no manifest files found", "dir", root, "file", api.ManifestFileName)
	}
	return NewManifestHost(manifests), nil
}

// Manifests returns the manifests the host was built from.
func (h *ManifestHost) Manifests() []*api.Manifest { return h.manifests }

// DiscoverSteps implements tick.Host.
func (h *ManifestHost) DiscoverSteps() ([]step.Step, error) {
	var found []step.Step
	for _, m := range h.manifests {
		for _, cfg := range m.Steps {
			s, err := steps.NewStep(cfg)
			if err != nil {
				return nil, fmt.Errorf("creating step %q from %s: %w", cfg.ID, m.FilePath, err)
			}
			found = append(found, s)
		}
		slog.Debug("manifest loaded", "path", m.FilePath, "steps", len(m.Steps))
	}
	return found, nil
}
