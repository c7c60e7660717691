package infrastructure

import (
	"context"
	"errors"

	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/application/port"
	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/domain"
)

// FanOutSink forwards each event to every configured sink. All sinks are
// attempted; errors are joined so a failing sink never starves the others.
type FanOutSink struct {
	sinks []port.EventSink
}

func NewFanOutSink(sinks ...port.EventSink) *FanOutSink {
	kept := make([]port.EventSink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}
	return &FanOutSink{sinks: kept}
}

func (s *FanOutSink) Publish(ctx context.Context, evt domain.ReconciliationEvent) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.EventSink = (*FanOutSink)(nil)
