// Package report renders comparison and trend results as Markdown or JSON.
package report

import (
	"time"

	"github.com/google/uuid"
)

// Meta identifies one rendering run.
type Meta struct {
	RunID       string    `json:"run_id"`
	Sources     []string  `json:"sources"`
	GeneratedAt time.Time `json:"generated_at"`
	// Narrative is the optional model-written summary.
	Narrative string `json:"narrative,omitempty"`
}

// NewMeta stamps a fresh run id and the current UTC time.
func NewMeta(sources ...string) Meta {
	return Meta{RunID: uuid.NewString(), Sources: sources, GeneratedAt: time.Now().UTC()}
}

// Options controls rendering.
type Options struct {
	// MaxRows caps rows per rendered table; 0 means unlimited.
	MaxRows int
}
