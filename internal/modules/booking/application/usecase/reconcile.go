package usecase

import (
	"context"
	"log/slog"

	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/application/port"
	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/domain"
)

// ReconcileTagsUseCase moves a customer from "eligible" to "booked" in the
// remote store: resolve the current tag string, compute the new one, write it
// back. The two remote calls are strictly sequential and there are no retries
// at this layer.
type ReconcileTagsUseCase struct {
	cfg   port.StoreConfig
	store port.CustomerStore
}

func NewReconcileTagsUseCase(cfg port.StoreConfig, store port.CustomerStore) *ReconcileTagsUseCase {
	return &ReconcileTagsUseCase{cfg: cfg, store: store}
}

// Reconcile resolves the customer's current tags, applies the booked
// transition and persists the result.
//
// knownTags is trusted as the current state only when the caller explicitly
// supplied a non-empty value; a nil pointer or an empty string triggers a
// fresh fetch. Any failure aborts the operation before further remote calls.
func (uc *ReconcileTagsUseCase) Reconcile(ctx context.Context, customerID string, knownTags *string) (*domain.ReconciliationResult, error) {
	if !uc.cfg.Complete() {
		return nil, port.ErrStoreNotConfigured
	}

	current, fetched, err := uc.resolveCurrentTags(ctx, customerID, knownTags)
	if err != nil {
		return nil, err
	}
	slog.Debug("current tags resolved",
		slog.String("customerId", customerID),
		slog.String("tags", current),
		slog.Bool("fetched", fetched),
	)

	newTags := domain.ParseTagSet(current).MarkBooked().String()

	updated, err := uc.store.UpdateCustomerTags(ctx, customerID, newTags)
	if err != nil {
		return nil, err
	}

	return &domain.ReconciliationResult{
		PreviousTags: current,
		NewTags:      newTags,
		Changed:      true,
		Customer:     updated,
	}, nil
}

func (uc *ReconcileTagsUseCase) resolveCurrentTags(ctx context.Context, customerID string, knownTags *string) (string, bool, error) {
	if knownTags != nil && *knownTags != "" {
		return *knownTags, false, nil
	}
	customer, err := uc.store.FetchCustomer(ctx, customerID)
	if err != nil {
		return "", false, err
	}
	return customer.Tags, true, nil
}
