// Package api exposes the trainer over HTTP as pure JSON data. Rendering,
// layout, and styling belong to whatever front end consumes these routes.
package api

import (
	"sync"

	"github.com/norangai/Minimal-Pair-Test/internal/assets"
	"github.com/norangai/Minimal-Pair-Test/internal/catalog"
	"github.com/norangai/Minimal-Pair-Test/internal/feedback"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
	"github.com/norangai/Minimal-Pair-Test/internal/scheduler"
)

// Server wires the catalog, scheduler, asset pipeline, and feedback log
// behind HTTP handlers.
//
// The scheduler and its state are single-threaded by design; mu serializes
// every handler that touches them. The pipeline manages its own concurrency.
type Server struct {
	Catalog     *catalog.Catalog
	Scheduler   *scheduler.Scheduler
	Pipeline    *assets.Pipeline
	AudioStore  *assets.Store
	Feedback    *feedback.Log
	DailyTarget int

	mu   sync.Mutex
	open *models.Question // at most one unresolved question
}
