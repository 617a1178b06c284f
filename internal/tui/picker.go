package tui

import (
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/tokf/tokf/internal/discovery"
)

// PickFilter runs an interactive fuzzy-find over candidates and returns the
// chosen one. Used by `tokf show` when the given name matches more than one
// tier (e.g. a project-local override shadowing a built-in of the same
// name), so the user sees both instead of silently taking the
// highest-priority match.
func PickFilter(candidates []discovery.Resolved) (*discovery.Resolved, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("tui: no candidates to pick from")
	}
	if len(candidates) == 1 {
		return &candidates[0], nil
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", candidates[i].Path, candidates[i].Source)
		},
		fuzzyfinder.WithPromptString("filter> "),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: picker: %w", err)
	}
	return &candidates[idx], nil
}
