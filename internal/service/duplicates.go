package service

import (
	"context"
	"fmt"
	"strings"

	"panokit/internal/adapter"
	"panokit/internal/dedupe"
	"panokit/internal/domain"
)

// AllScopes asks for every device group known to Panorama
const AllScopes = "all"

// DuplicateTable is the report name of a duplicate check
const DuplicateTable = "duplicates"

// DuplicateOptions tunes a duplicate check
type DuplicateOptions struct {
	// IncludeShared adds the shared scope to every check
	IncludeShared bool
	// ExemptEmptyValues keeps objects without a value out of value groups
	ExemptEmptyValues bool
}

// DuplicateService finds duplicate address objects per device group
type DuplicateService struct {
	fetcher adapter.Fetcher
	events  *EventBus
	opts    DuplicateOptions
}

// NewDuplicateService creates a new duplicate service
func NewDuplicateService(fetcher adapter.Fetcher, events *EventBus, opts DuplicateOptions) *DuplicateService {
	return &DuplicateService{
		fetcher: fetcher,
		events:  events,
		opts:    opts,
	}
}

// ResolveScopes expands the requested scopes. An empty request or "all"
// means every device group on the server. Repeats are dropped and the
// shared scope is appended when configured.
func (s *DuplicateService) ResolveScopes(ctx context.Context, requested []string) ([]string, error) {
	all := len(requested) == 0
	for _, r := range requested {
		if strings.EqualFold(strings.TrimSpace(r), AllScopes) {
			all = true
		}
	}

	scopes := requested
	if all {
		groups, err := s.fetcher.DeviceGroups(ctx)
		if err != nil {
			return nil, fmt.Errorf("list device groups: %w", err)
		}
		scopes = groups
	}

	seen := make(map[string]bool, len(scopes)+1)
	out := make([]string, 0, len(scopes)+1)
	for _, sc := range scopes {
		sc = strings.TrimSpace(sc)
		if sc == "" || seen[sc] {
			continue
		}
		seen[sc] = true
		out = append(out, sc)
	}
	if s.opts.IncludeShared && !seen[domain.SharedScope] {
		out = append(out, domain.SharedScope)
	}
	return out, nil
}

// Check classifies the address objects of each scope independently and
// returns one report row per colliding object
func (s *DuplicateService) Check(ctx context.Context, scopes []string) (*Result, error) {
	var opts []dedupe.Option
	if s.opts.ExemptEmptyValues {
		opts = append(opts, dedupe.ExemptEmptyValues())
	}

	result := &Result{
		Table: domain.NewTable(DuplicateTable, "Duplicate Address Objects", domain.DuplicateColumns...),
	}
	runner := scopeRunner{task: "Checking address objects", events: s.events}

	err := runner.run(ctx, result, scopes, func(scope string) (int, error) {
		objects, err := s.fetcher.AddressObjects(ctx, scope)
		if err != nil {
			return 0, err
		}
		rows := dedupe.Classify(objects, opts...)
		for _, row := range rows {
			if err := result.Table.AddRow(row.Record()...); err != nil {
				return 0, err
			}
		}
		return len(rows), nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
