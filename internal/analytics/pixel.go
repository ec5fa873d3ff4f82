package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/model"
)

// pixelEmitter posts events to the tracking pixel endpoint and records
// them in the user_activity table. Each event is handled on its own
// goroutine with a bounded timeout; errors are logged at debug level
// and dropped.
type pixelEmitter struct {
	endpoint     string
	client       *http.Client
	activityRepo ActivitySink
	logger       zerolog.Logger
	wg           sync.WaitGroup
}

// ActivitySink is the slice of the activity repository the emitter
// needs.
type ActivitySink interface {
	Insert(ctx context.Context, activity model.Activity) error
}

// NewPixelEmitter creates a best-effort emitter. Either endpoint or
// sink may be empty/nil; the remaining channel still receives events.
func NewPixelEmitter(endpoint string, timeout time.Duration, sink ActivitySink, logger zerolog.Logger) Emitter {
	return &pixelEmitter{
		endpoint:     endpoint,
		client:       &http.Client{Timeout: timeout},
		activityRepo: sink,
		logger:       logger.With().Str("component", "analytics").Logger(),
	}
}

// Emit queues the event and returns immediately.
func (e *pixelEmitter) Emit(event model.Activity) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			// A panicking sink must not take the process down.
			if r := recover(); r != nil {
				e.logger.Debug().Interface("panic", r).Msg("analytics delivery panicked")
			}
		}()
		e.deliver(event)
	}()
}

// Close waits for in-flight deliveries to finish.
func (e *pixelEmitter) Close() {
	e.wg.Wait()
}

func (e *pixelEmitter) deliver(event model.Activity) {
	ctx, cancel := context.WithTimeout(context.Background(), e.client.Timeout)
	defer cancel()

	if e.activityRepo != nil {
		if err := e.activityRepo.Insert(ctx, event); err != nil {
			e.logger.Debug().Err(err).Str("activity_type", event.ActivityType).Msg("activity insert dropped")
		}
	}

	if e.endpoint == "" {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		e.logger.Debug().Err(err).Msg("event encode dropped")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		e.logger.Debug().Err(err).Msg("pixel request dropped")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug().Err(err).Msg("pixel delivery dropped")
		return
	}
	resp.Body.Close()
}
