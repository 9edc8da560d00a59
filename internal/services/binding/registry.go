package binding

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/KirkDiggler/steamwatch/internal/models"
	bindingRepo "github.com/KirkDiggler/steamwatch/internal/repositories/binding"
)

// Registry maps (group, member) pairs to Steam accounts
type Registry struct {
	mu     sync.RWMutex
	groups map[string][]*models.Binding
	repo   bindingRepo.Repository
	logger *slog.Logger
}

// New creates an empty binding registry
func New(cfg *Config) (*Registry, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		groups: make(map[string][]*models.Binding),
		repo:   cfg.Repository,
		logger: logger,
	}, nil
}

// Load replaces the in-memory bindings with the persisted ones
func (r *Registry) Load(ctx context.Context) error {
	output, err := r.repo.LoadBindings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bindings: %w", err)
	}

	groups := make(map[string][]*models.Binding, len(output.Groups))
	for groupID, bindings := range output.Groups {
		if len(bindings) > 0 {
			groups[groupID] = bindings
		}
	}

	r.mu.Lock()
	r.groups = groups
	r.mu.Unlock()

	r.logger.Info("loaded bindings", "groups", len(groups))
	return nil
}

// Save persists a copy of the current bindings
func (r *Registry) Save(ctx context.Context) error {
	r.mu.RLock()
	groups := make(map[string][]*models.Binding, len(r.groups))
	for groupID, bindings := range r.groups {
		groups[groupID] = cloneAll(bindings)
	}
	r.mu.RUnlock()

	if err := r.repo.SaveBindings(ctx, &bindingRepo.SaveBindingsInput{Groups: groups}); err != nil {
		return fmt.Errorf("failed to save bindings: %w", err)
	}

	return nil
}

// Add binds a member to a Steam account. A member that is already bound is
// rebound in place; a Steam account owned by another member of the group is
// rejected with a *ConflictError.
func (r *Registry) Add(input *AddInput) (*AddOutput, error) {
	if input == nil || input.GroupID == "" || input.MemberID == "" || input.SteamID == "" {
		return nil, ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var existing *models.Binding
	for _, b := range r.groups[input.GroupID] {
		if b.SteamID == input.SteamID && b.MemberID != input.MemberID {
			return nil, &ConflictError{
				GroupID:       input.GroupID,
				SteamID:       input.SteamID,
				OwnerMemberID: b.MemberID,
			}
		}
		if b.MemberID == input.MemberID {
			existing = b
		}
	}

	if existing != nil {
		existing.SteamID = input.SteamID
		return &AddOutput{
			Binding: existing.Clone(),
			Rebound: true,
		}, nil
	}

	b := &models.Binding{
		GroupID:  input.GroupID,
		MemberID: input.MemberID,
		SteamID:  input.SteamID,
	}
	r.groups[input.GroupID] = append(r.groups[input.GroupID], b)

	return &AddOutput{
		Binding: b.Clone(),
	}, nil
}

// Remove unbinds a member from a group
func (r *Registry) Remove(groupID, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.removeLocked(groupID, memberID) {
		return ErrNotBound
	}
	return nil
}

// RemoveMember drops a departed member from the given groups, or from every
// group when groupIDs is nil. It returns the groups that changed.
func (r *Registry) RemoveMember(memberID string, groupIDs []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if groupIDs == nil {
		groupIDs = r.groupIDsLocked()
	}

	var removed []string
	for _, groupID := range groupIDs {
		if r.removeLocked(groupID, memberID) {
			removed = append(removed, groupID)
		}
	}
	return removed
}

func (r *Registry) removeLocked(groupID, memberID string) bool {
	bindings := r.groups[groupID]
	for i, b := range bindings {
		if b.MemberID != memberID {
			continue
		}

		bindings = append(bindings[:i:i], bindings[i+1:]...)
		if len(bindings) == 0 {
			delete(r.groups, groupID)
		} else {
			r.groups[groupID] = bindings
		}
		return true
	}
	return false
}

// Get returns a member's binding in a group
func (r *Registry) Get(groupID, memberID string) (*models.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.groups[groupID] {
		if b.MemberID == memberID {
			return b.Clone(), nil
		}
	}
	return nil, ErrNotBound
}

// GetBySteamID returns the binding that owns a Steam account in a group
func (r *Registry) GetBySteamID(groupID, steamID string) (*models.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.groups[groupID] {
		if b.SteamID == steamID {
			return b.Clone(), nil
		}
	}
	return nil, ErrNotBound
}

// SetNickname sets or clears the display nickname of a bound member
func (r *Registry) SetNickname(input *SetNicknameInput) (*models.Binding, error) {
	if input == nil {
		return nil, ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.groups[input.GroupID] {
		if b.MemberID != input.MemberID {
			continue
		}

		nickname := strings.TrimSpace(input.Nickname)
		if nickname == "" {
			b.Nickname = nil
		} else {
			b.Nickname = &nickname
		}
		return b.Clone(), nil
	}
	return nil, ErrNotBound
}

// Bindings returns copies of every binding in a group
func (r *Registry) Bindings(groupID string) []*models.Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.groups[groupID])
}

// PlayerIDs lists the distinct Steam IDs bound in a group, in bind order
func (r *Registry) PlayerIDs(groupID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, b := range r.groups[groupID] {
		if !seen[b.SteamID] {
			seen[b.SteamID] = true
			ids = append(ids, b.SteamID)
		}
	}
	return ids
}

// AllPlayerIDs lists the distinct Steam IDs bound in any group
func (r *Registry) AllPlayerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, groupID := range r.groupIDsLocked() {
		for _, b := range r.groups[groupID] {
			if !seen[b.SteamID] {
				seen[b.SteamID] = true
				ids = append(ids, b.SteamID)
			}
		}
	}
	return ids
}

// Groups lists every group with at least one binding, sorted
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.groupIDsLocked()
}

func (r *Registry) groupIDsLocked() []string {
	ids := make([]string, 0, len(r.groups))
	for groupID := range r.groups {
		ids = append(ids, groupID)
	}
	sort.Strings(ids)
	return ids
}

func cloneAll(bindings []*models.Binding) []*models.Binding {
	result := make([]*models.Binding, 0, len(bindings))
	for _, b := range bindings {
		result = append(result, b.Clone())
	}
	return result
}
