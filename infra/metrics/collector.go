package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/drivecycle/core/metrics"
	"github.com/kilianp07/drivecycle/core/model"
	"github.com/kilianp07/drivecycle/infra/logger"
	"github.com/kilianp07/drivecycle/internal/eventbus"
)

// StartStepCollector subscribes to the step bus and records every event on
// sink. It stops when the bus is closed or the context is canceled; the
// returned channel is closed once it has stopped. The subscription is taken
// before returning, so no event published afterwards is missed.
func StartStepCollector(ctx context.Context, bus *eventbus.TypedBus[model.StepEvent], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordStep(ev); err != nil {
					log.Warnf("record step %d of run %s: %v", ev.Step, ev.RunID, err)
				}
			}
		}
	}()
	return done
}
