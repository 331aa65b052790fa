package config

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/diseaz-joom/dsaflow/internal/git"
)

// Separator joins path segments into dotted config keys.
const Separator = "."

// ValueType converts between config strings and typed values.
type ValueType[T any] struct {
	Parse  func(s string) (T, error)
	Format func(v T) string
}

// StringType passes values through unchanged.
var StringType = ValueType[string]{
	Parse:  func(s string) (string, error) { return s, nil },
	Format: func(v string) string { return v },
}

// BranchType holds branch names.
var BranchType = ValueType[git.BranchName]{
	Parse:  func(s string) (git.BranchName, error) { return git.BranchName(s), nil },
	Format: func(v git.BranchName) string { return string(v) },
}

// IntType holds integers.
var IntType = ValueType[int]{
	Parse:  strconv.Atoi,
	Format: strconv.Itoa,
}

// BoolType holds booleans in git config notation.
var BoolType = ValueType[bool]{
	Parse:  parseBool,
	Format: func(v bool) string { return strconv.FormatBool(v) },
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Section binds a dotted path prefix over a Store.
type Section struct {
	store Store
	path  string
}

// NewSection creates a root section with an empty path.
func NewSection(store Store) Section {
	return Section{store: store}
}

// Sub returns a nested section.
func (s Section) Sub(parts ...string) Section {
	return Section{store: s.store, path: joinPath(s.path, parts...)}
}

// Path returns the dotted path prefix of the section.
func (s Section) Path() string {
	return s.path
}

// Raw exposes the raw key/value view of the whole store.
func (s Section) Raw() map[string][]string {
	return s.store.Raw()
}

// SetRaw writes an untyped value under the section.
func (s Section) SetRaw(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, joinPath(s.path, key), value)
}

// UnsetRaw removes a key under the section.
func (s Section) UnsetRaw(ctx context.Context, key string) error {
	return s.store.Unset(ctx, joinPath(s.path, key))
}

// Keys lists the distinct first path segments under the section, sorted.
func (s Section) Keys() []string {
	prefix := s.path + Separator
	seen := make(map[string]bool)
	for k := range s.store.Raw() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		seg, _, _ := strings.Cut(k[len(prefix):], Separator)
		seen[seg] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Section) first(key string) (string, bool) {
	values := s.store.Raw()[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func joinPath(base string, parts ...string) string {
	segs := make([]string, 0, len(parts)+1)
	if base != "" {
		segs = append(segs, base)
	}
	segs = append(segs, parts...)
	return strings.Join(segs, Separator)
}

// Value reads the first value at a path with a typed parser, falling back
// to a static default when the key is absent or malformed.
type Value[T any] struct {
	sec Section
	key string
	typ ValueType[T]
	def T
}

// NewValue declares a typed value with a default.
func NewValue[T any](sec Section, typ ValueType[T], def T, parts ...string) Value[T] {
	return Value[T]{sec: sec, key: joinPath(sec.path, parts...), typ: typ, def: def}
}

// Path returns the full dotted key.
func (v Value[T]) Path() string { return v.key }

// Get returns the first configured value or the default.
func (v Value[T]) Get() T {
	raw, ok := v.sec.first(v.key)
	if !ok {
		return v.def
	}
	parsed, err := v.typ.Parse(raw)
	if err != nil {
		slog.Debug("malformed config value", "key", v.key, "value", raw, "err", err)
		return v.def
	}
	return parsed
}

// Set writes the value at the branch-specific (most specific) location.
func (v Value[T]) Set(ctx context.Context, value T) error {
	return v.sec.store.Set(ctx, v.key, v.typ.Format(value))
}

// Unset removes the key.
func (v Value[T]) Unset(ctx context.Context) error {
	return v.sec.store.Unset(ctx, v.key)
}

// MaybeValue is a typed value without a default: absence is observable.
type MaybeValue[T any] struct {
	sec Section
	key string
	typ ValueType[T]
}

// NewMaybeValue declares a typed value with observable absence.
func NewMaybeValue[T any](sec Section, typ ValueType[T], parts ...string) MaybeValue[T] {
	return MaybeValue[T]{sec: sec, key: joinPath(sec.path, parts...), typ: typ}
}

// Path returns the full dotted key.
func (v MaybeValue[T]) Path() string { return v.key }

// Get returns the first configured value and whether it was present.
func (v MaybeValue[T]) Get() (T, bool) {
	var zero T
	raw, ok := v.sec.first(v.key)
	if !ok {
		return zero, false
	}
	parsed, err := v.typ.Parse(raw)
	if err != nil {
		slog.Debug("malformed config value", "key", v.key, "value", raw, "err", err)
		return zero, false
	}
	return parsed, true
}

// Set writes the value.
func (v MaybeValue[T]) Set(ctx context.Context, value T) error {
	return v.sec.store.Set(ctx, v.key, v.typ.Format(value))
}

// Unset removes the key.
func (v MaybeValue[T]) Unset(ctx context.Context) error {
	return v.sec.store.Unset(ctx, v.key)
}

// ListValue reads all values of a key in file order.
type ListValue[T any] struct {
	sec Section
	key string
	typ ValueType[T]
}

// NewListValue declares a typed multi-value key.
func NewListValue[T any](sec Section, typ ValueType[T], parts ...string) ListValue[T] {
	return ListValue[T]{sec: sec, key: joinPath(sec.path, parts...), typ: typ}
}

// Path returns the full dotted key.
func (v ListValue[T]) Path() string { return v.key }

// Get returns all configured values in file order, skipping malformed ones.
func (v ListValue[T]) Get() []T {
	var result []T
	for _, raw := range v.sec.store.Raw()[v.key] {
		parsed, err := v.typ.Parse(raw)
		if err != nil {
			slog.Debug("malformed config value", "key", v.key, "value", raw, "err", err)
			continue
		}
		result = append(result, parsed)
	}
	return result
}

// Set replaces the whole list.
func (v ListValue[T]) Set(ctx context.Context, values []T) error {
	if len(values) == 0 {
		return v.sec.store.Unset(ctx, v.key)
	}
	if err := v.sec.store.Set(ctx, v.key, v.typ.Format(values[0])); err != nil {
		return err
	}
	for _, value := range values[1:] {
		if err := v.sec.store.Append(ctx, v.key, v.typ.Format(value)); err != nil {
			return err
		}
	}
	return nil
}

// Append adds a value to the list.
func (v ListValue[T]) Append(ctx context.Context, value T) error {
	return v.sec.store.Append(ctx, v.key, v.typ.Format(value))
}
