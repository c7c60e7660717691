package port

import (
	"context"
	"errors"
	"fmt"

	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/domain"
)

// ErrStoreNotConfigured signals missing store credentials. Fatal for the
// request and non-retryable; no remote call is attempted.
var ErrStoreNotConfigured = errors.New("store access token and domain are not configured")

// StoreConfig carries the two values required to reach the remote store.
type StoreConfig struct {
	AccessToken string
	StoreDomain string
}

// Complete reports whether both required values are present.
func (c StoreConfig) Complete() bool {
	return c.AccessToken != "" && c.StoreDomain != ""
}

// CustomerStore is the outbound port to the remote customer-record system.
type CustomerStore interface {
	// FetchCustomer reads the current customer record by id. The Tags field
	// defaults to an empty string when the record omits it.
	FetchCustomer(ctx context.Context, id string) (*domain.Customer, error)
	// UpdateCustomerTags replaces the customer's full tag string and returns
	// the updated record.
	UpdateCustomerTags(ctx context.Context, id, tags string) (*domain.Customer, error)
}

// StatusError represents a non-success HTTP status from the remote store.
// Body is populated for write failures so diagnostics survive into logs.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: unexpected status %d %s: %s", e.Op, e.StatusCode, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.StatusCode, e.Status)
}
