package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/circusagent/internal/repository"
)

// minPrefixLen keeps single-character prefixes from matching half the table.
const minPrefixLen = 4

// resolveByPrefix looks input up as a full ID first, then as a unique prefix.
func resolveByPrefix[T any](ctx context.Context, kind, input string,
	get func(context.Context, string) (T, error),
	find func(context.Context, string) ([]T, error),
	idOf func(T) string,
) (T, error) {
	var zero T
	input = strings.TrimSpace(input)
	if input == "" {
		return zero, fmt.Errorf("%s ID is required", kind)
	}

	v, err := get(ctx, input)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return zero, err
	}
	if len(input) < minPrefixLen {
		return zero, fmt.Errorf("%s not found: %q: %w", kind, input, repository.ErrNotFound)
	}

	matches, err := find(ctx, input)
	if err != nil {
		return zero, err
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s not found: %q: %w", kind, input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, 0, len(matches))
		for _, m := range matches {
			id := idOf(m)
			ids = append(ids, id[:min(8, len(id))])
		}
		return zero, fmt.Errorf("%s ID prefix %q is ambiguous (%d matches: %s)", kind, input, len(matches), strings.Join(ids, ", "))
	}
}
