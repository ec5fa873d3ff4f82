// Package analytics delivers behavioural events to the tracking pixel
// and the activity table. Everything here is fire-and-forget: no
// caller may block on it, and no failure may propagate out.
package analytics

import "storefront/internal/model"

// Emitter sends one event. Implementations must never block the caller
// beyond queueing and must swallow every transport error.
type Emitter interface {
	Emit(event model.Activity)

	// Close waits for queued events to drain.
	Close()
}

// nopEmitter discards everything. Used when tracking is disabled.
type nopEmitter struct{}

// NewNopEmitter returns an emitter that discards all events.
func NewNopEmitter() Emitter {
	return nopEmitter{}
}

func (nopEmitter) Emit(model.Activity) {}
func (nopEmitter) Close()              {}
