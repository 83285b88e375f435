// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/ and core/.
package ports

import (
	"context"
	"time"

	"github.com/openfeel/decisionbridge/domain/decision"
	"github.com/openfeel/decisionbridge/domain/feel"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Collaborator Ports
// -----------------------------------------------------------------------------

// ExpressionParser parses a textual expression into a typed FEEL value.
// It is synchronous and side-effect free. There are no partial results:
// either the whole expression parses or an error is returned.
type ExpressionParser interface {
	Parse(expr string) (feel.Value, error)
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// ServiceRegistry stores registered decision services.
type ServiceRegistry interface {
	// Put stores a service, replacing any existing service with the
	// same name.
	Put(ctx context.Context, svc decision.Service) error

	// Get retrieves a service by name. Returns
	// decision.ErrServiceNotFound if no such service exists.
	Get(ctx context.Context, name string) (decision.Service, error)

	// List returns all registered services, sorted by name.
	List(ctx context.Context) ([]decision.Service, error)

	// Delete removes a service by name. Returns
	// decision.ErrServiceNotFound if no such service exists.
	Delete(ctx context.Context, name string) error
}

// AuditStore records decisions for the audit trail.
type AuditStore interface {
	// Record stores an audit entry. Implementations must not block the
	// decision path.
	Record(entry decision.AuditEntry)

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]decision.AuditEntry, error)

	// Close flushes pending entries and releases resources.
	Close() error
}
