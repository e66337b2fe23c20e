package voicevox

import (
	"context"
	"encoding/json"
)

// Synthesizer defines the two-step synthesis exchange. The interface exists
// so the asset pipeline can be tested without a running engine.
type Synthesizer interface {
	AudioQuery(ctx context.Context, text string, speaker int) (json.RawMessage, error)
	Synthesize(ctx context.Context, query json.RawMessage, speaker int) ([]byte, error)
}

// Ensure Client implements the interface
var _ Synthesizer = (*Client)(nil)
