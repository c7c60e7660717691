package port

import (
	"context"

	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/domain"
)

// EventSink receives reconciliation events after a successful write-back.
// Sinks are observational: publish failures are logged by the caller and
// never influence the webhook response.
type EventSink interface {
	Publish(ctx context.Context, evt domain.ReconciliationEvent) error
}
