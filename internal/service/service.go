package service

import (
	"context"
	"fmt"
	"log"

	"panokit/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ScopeError records a device group that could not be processed
type ScopeError struct {
	Scope string
	Err   error
}

func (e ScopeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Scope, e.Err)
}

func (e ScopeError) Unwrap() error {
	return e.Err
}

// Result is the table produced by a service run plus the scopes that
// failed along the way
type Result struct {
	Table    *domain.Table
	Scopes   []string
	Failures []ScopeError
}

// OK reports whether every scope was processed
func (r *Result) OK() bool {
	return len(r.Failures) == 0
}

// scopeRunner walks scopes one at a time. A failing scope is logged,
// published and recorded; the walk continues with the next scope. Only
// context cancellation stops it early.
type scopeRunner struct {
	task   string
	events *EventBus
}

func (r scopeRunner) run(ctx context.Context, result *Result, scopes []string, fn func(scope string) (int, error)) error {
	for _, scope := range scopes {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.events.Publish(Event{Type: EventScopeStarted, Task: r.task, Scope: scope})
		n, err := fn(scope)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("service: %s for %s failed: %v", r.task, scope, err)
			result.Failures = append(result.Failures, ScopeError{Scope: scope, Err: err})
			r.events.Publish(Event{Type: EventScopeFailed, Task: r.task, Scope: scope, Err: err})
			continue
		}
		r.events.Publish(Event{Type: EventScopeDone, Task: r.task, Scope: scope, Count: n})
	}
	result.Scopes = scopes
	return nil
}

// SortDeviceGroups returns a copy of groups in case-insensitive collation
// order, so "branch-2" sorts next to "Branch-1"
func SortDeviceGroups(groups []string) []string {
	sorted := append([]string(nil), groups...)
	collate.New(language.Und, collate.IgnoreCase).SortStrings(sorted)
	return sorted
}
