package audit

import (
	"context"

	"github.com/clinicore/hospital-portal/internal/logger"
)

// Dispatcher decouples audit writes from the request that produced them.
// Dispatch never blocks and never fails the caller: a full queue drops
// the event and a failed write is logged as a degraded state. The
// business mutation's outcome is independent of the audit outcome.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(auditLogger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: auditLogger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.logger.Record(context.Background(), ev); err != nil {
			logger.Get().Errorw("audit write failed",
				"action", ev.Action,
				"resource_type", ev.ResourceType,
				"resource_id", ev.ResourceID,
				"error", err,
			)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// Queue full: drop the event rather than stall the request.
		logger.Get().Errorw("audit queue full, dropping event",
			"action", ev.Action,
			"resource_type", ev.ResourceType,
		)
	}
}

// Close drains the queue and stops the worker. Used on shutdown so
// buffered entries still reach the store.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
