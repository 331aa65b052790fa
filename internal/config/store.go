// Package config provides typed, path-addressed access to the layered
// key/value configuration backed by git config.
package config

import (
	"context"
	"strings"

	"github.com/diseaz-joom/dsaflow/internal/git"
)

// Store is the raw multimap from dotted path strings to ordered value
// lists. All typed access is a view over a Store; mutation always goes
// through the store's own primitives, never by editing a cached read.
type Store interface {
	// Raw returns the full key -> values multimap.
	Raw() map[string][]string
	// Set replaces all values of a key with a single value.
	Set(ctx context.Context, key, value string) error
	// Append adds a value to a key, keeping existing ones.
	Append(ctx context.Context, key, value string) error
	// Unset removes all values of a key.
	Unset(ctx context.Context, key string) error
}

// GitStore is a Store backed by the repository-local git config. The full
// config is read once; writes shell out to git and patch the in-memory
// copy so subsequent reads observe them.
type GitStore struct {
	raw map[string][]string
}

// LoadGitStore reads the whole git config into memory.
func LoadGitStore(ctx context.Context) (*GitStore, error) {
	lines, err := git.RunGitCommandLines(ctx, "config", "--list")
	if err != nil {
		return nil, err
	}
	raw := make(map[string][]string)
	for _, line := range lines {
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		raw[name] = append(raw[name], value)
	}
	return &GitStore{raw: raw}, nil
}

// Raw returns the cached key -> values multimap.
func (s *GitStore) Raw() map[string][]string {
	return s.raw
}

// Set replaces all values of a key.
func (s *GitStore) Set(ctx context.Context, key, value string) error {
	if err := git.MutateGitCommand(ctx, "config", "--local", "--replace-all", key, value); err != nil {
		return err
	}
	s.raw[key] = []string{value}
	return nil
}

// Append adds a value to a key.
func (s *GitStore) Append(ctx context.Context, key, value string) error {
	if err := git.MutateGitCommand(ctx, "config", "--local", "--add", key, value); err != nil {
		return err
	}
	s.raw[key] = append(s.raw[key], value)
	return nil
}

// Unset removes all values of a key.
func (s *GitStore) Unset(ctx context.Context, key string) error {
	if err := git.MutateGitCommand(ctx, "config", "--local", "--unset-all", key); err != nil {
		return err
	}
	delete(s.raw, key)
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	raw map[string][]string
}

// NewMemStore creates a MemStore seeded with the given multimap.
func NewMemStore(raw map[string][]string) *MemStore {
	if raw == nil {
		raw = make(map[string][]string)
	}
	return &MemStore{raw: raw}
}

// Raw returns the key -> values multimap.
func (s *MemStore) Raw() map[string][]string {
	return s.raw
}

// Set replaces all values of a key.
func (s *MemStore) Set(_ context.Context, key, value string) error {
	s.raw[key] = []string{value}
	return nil
}

// Append adds a value to a key.
func (s *MemStore) Append(_ context.Context, key, value string) error {
	s.raw[key] = append(s.raw[key], value)
	return nil
}

// Unset removes all values of a key.
func (s *MemStore) Unset(_ context.Context, key string) error {
	delete(s.raw, key)
	return nil
}
