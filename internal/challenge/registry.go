package challenge

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/felixgeelhaar/devgenius/internal/domain"
)

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Difficulty domain.Difficulty
	Language   domain.Language
}

func (f Filter) matches(c *domain.Challenge) bool {
	if f.Difficulty != "" && c.Difficulty != f.Difficulty {
		return false
	}
	if f.Language != "" && c.Language != f.Language {
		return false
	}
	return true
}

// Registry provides access to challenges and packs.
// Loaders are applied in order; a later pack replaces an earlier one with the same ID.
type Registry struct {
	loaders    []*Loader
	mu         sync.RWMutex
	packs      map[string]*domain.ChallengePack
	challenges map[string]*domain.Challenge
}

// NewRegistry creates a registry over the given loaders
func NewRegistry(loaders ...*Loader) *Registry {
	return &Registry{
		loaders:    loaders,
		packs:      make(map[string]*domain.ChallengePack),
		challenges: make(map[string]*domain.Challenge),
	}
}

// NewDefaultRegistry loads the builtin packs and, if userDir is set, the packs under it
func NewDefaultRegistry(userDir string) (*Registry, error) {
	loaders := []*Loader{NewLoader(BuiltinFS())}
	if userDir != "" {
		loaders = append(loaders, NewLoader(os.DirFS(userDir)))
	}

	r := NewRegistry(loaders...)
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load reads all packs. On error the previous contents are kept.
func (r *Registry) Load() error {
	packs := make(map[string]*domain.ChallengePack)
	challenges := make(map[string]*domain.Challenge)

	for _, loader := range r.loaders {
		loaded, err := loader.LoadAllPacks()
		if err != nil {
			return fmt.Errorf("load packs: %w", err)
		}

		for _, pack := range loaded {
			items, err := loader.LoadPackChallenges(pack)
			if err != nil {
				return fmt.Errorf("load challenges for pack %s: %w", pack.ID, err)
			}

			if old, ok := packs[pack.ID]; ok {
				for _, id := range old.ChallengeIDs {
					delete(challenges, id)
				}
			}
			packs[pack.ID] = pack
			for _, c := range items {
				challenges[c.ID] = c
			}
		}
	}

	r.mu.Lock()
	r.packs = packs
	r.challenges = challenges
	r.mu.Unlock()
	return nil
}

// Get returns a challenge by ID
func (r *Registry) Get(id string) (*domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.challenges[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, id)
	}
	return c, nil
}

// List returns matching challenges ordered by pack ID, then position in the pack
func (r *Registry) List(filter Filter) []*domain.Challenge {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Challenge, 0, len(r.challenges))
	for _, c := range r.challenges {
		if filter.matches(c) {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PackID != out[j].PackID {
			return out[i].PackID < out[j].PackID
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// GetPack returns a pack by ID
func (r *Registry) GetPack(id string) (*domain.ChallengePack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pack, ok := r.packs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChallengePackNotFound, id)
	}
	return pack, nil
}

// ListPacks returns all packs ordered by ID
func (r *Registry) ListPacks() []*domain.ChallengePack {
	r.mu.RLock()
	defer r.mu.RUnlock()

	packs := make([]*domain.ChallengePack, 0, len(r.packs))
	for _, pack := range r.packs {
		packs = append(packs, pack)
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].ID < packs[j].ID })
	return packs
}

// Stats returns counts of loaded challenges
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		PackCount:      len(r.packs),
		ChallengeCount: len(r.challenges),
		ByDifficulty:   make(map[domain.Difficulty]int),
	}
	for _, c := range r.challenges {
		stats.ByDifficulty[c.Difficulty]++
	}
	return stats
}

// RegistryStats holds statistics about the registry
type RegistryStats struct {
	PackCount      int                       `json:"pack_count"`
	ChallengeCount int                       `json:"challenge_count"`
	ByDifficulty   map[domain.Difficulty]int `json:"by_difficulty"`
}
