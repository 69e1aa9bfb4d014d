package refinement

import (
	"context"
	"encoding/json"
)

// Provider defines the interface for a generative text model.
// This interface serves as a boundary between the refinement pipeline and
// external AI services.
type Provider interface {
	// Generate sends a fully formed instruction and returns the model's raw text.
	Generate(ctx context.Context, instruction string) (string, error)

	// GenerateStructured sends an instruction asking for JSON output and
	// returns the JSON payload with any Markdown fencing removed.
	GenerateStructured(ctx context.Context, instruction string) (json.RawMessage, error)
}
