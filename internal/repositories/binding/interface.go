package binding

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/steamwatch/internal/repositories/binding Repository

import (
	"context"
)

// Repository defines durable storage for member bindings grouped by chat group
type Repository interface {
	// LoadBindings returns every persisted binding keyed by group ID
	LoadBindings(ctx context.Context) (*LoadBindingsOutput, error)

	// SaveBindings replaces the persisted bindings
	SaveBindings(ctx context.Context, input *SaveBindingsInput) error
}
