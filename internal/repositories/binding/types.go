package binding

import "github.com/KirkDiggler/steamwatch/internal/models"

// LoadBindingsOutput contains the persisted bindings keyed by group ID
type LoadBindingsOutput struct {
	Groups map[string][]*models.Binding
}

// SaveBindingsInput contains the bindings to persist keyed by group ID
type SaveBindingsInput struct {
	Groups map[string][]*models.Binding
}
