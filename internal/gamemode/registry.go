package gamemode

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wikihop/wikihop/internal/wikihop"
)

var (
	// ErrModeNotFound indicates an unregistered mode id.
	ErrModeNotFound = errors.New("gamemode not found in registry")
	// ErrNoCurrentMode indicates no mode has been made current yet.
	ErrNoCurrentMode = errors.New("no gamemode is currently active")
)

// Registry is a keyed store of the gamemode instances plus the single
// mutable "current" slot. It holds no run data — it is pure routing.
type Registry struct {
	mu      sync.RWMutex
	modes   map[wikihop.ModeID]Mode
	current Mode
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modes: make(map[wikihop.ModeID]Mode)}
}

// Register adds a mode, overwriting any previous registration for its id.
func (r *Registry) Register(m Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes[m.Info().ID] = m
}

// Get looks up a mode by id.
func (r *Registry) Get(id wikihop.ModeID) (Mode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModeNotFound, id)
	}
	return m, nil
}

// SetCurrent makes the mode with the given id current and returns it.
func (r *Registry) SetCurrent(id wikihop.ModeID) (Mode, error) {
	m, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.current = m
	r.mu.Unlock()
	return m, nil
}

// Current returns the active mode.
func (r *Registry) Current() (Mode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return nil, ErrNoCurrentMode
	}
	return r.current, nil
}

// ClearCurrent empties the current slot, used on run teardown.
func (r *Registry) ClearCurrent() {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
}

// All returns every registered mode's info, sorted by id.
func (r *Registry) All() []wikihop.ModeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]wikihop.ModeInfo, 0, len(r.modes))
	for _, m := range r.modes {
		infos = append(infos, m.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// SinglePlayer returns the non-multiplayer partition.
func (r *Registry) SinglePlayer() []wikihop.ModeInfo {
	return r.filter(false)
}

// Multiplayer returns the multiplayer partition.
func (r *Registry) Multiplayer() []wikihop.ModeInfo {
	return r.filter(true)
}

func (r *Registry) filter(multiplayer bool) []wikihop.ModeInfo {
	all := r.All()
	out := all[:0:0]
	for _, info := range all {
		if info.Multiplayer == multiplayer {
			out = append(out, info)
		}
	}
	return out
}

// IsRuleEnabled reports whether a named rule is set for a mode.
func (r *Registry) IsRuleEnabled(id wikihop.ModeID, rule string) (bool, error) {
	m, err := r.Get(id)
	if err != nil {
		return false, err
	}
	rules := m.Info().Rules
	switch rule {
	case "sharedClicks":
		return rules.SharedClicks, nil
	case "sharedTimer":
		return rules.SharedTimer, nil
	case "competitiveScoring":
		return rules.CompetitiveScoring, nil
	case "allowCollaboration":
		return rules.AllowCollaboration, nil
	default:
		return false, nil
	}
}
