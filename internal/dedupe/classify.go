package dedupe

import (
	"cmp"
	"slices"

	"panokit/internal/domain"
)

// Option adjusts classification
type Option func(*options)

type options struct {
	exemptEmpty bool
}

// ExemptEmptyValues keeps objects without a value out of value grouping.
// By default every empty value lands in the same group and is reported as a
// value duplicate of every other empty value.
func ExemptEmptyValues() Option {
	return func(o *options) {
		o.exemptEmpty = true
	}
}

// index maps a grouping key to object positions in input order
type index map[string][]int

func (ix index) add(key string, pos int) {
	ix[key] = append(ix[key], pos)
}

// Classify reports every object of a single scope that shares its name or
// its normalized value with another object. Rows follow input order.
// The caller guarantees all objects belong to the same scope.
func Classify(objects []domain.NamedObject, opts ...Option) []domain.DuplicateReportRow {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	byName := make(index)
	byValue := make(index)
	valueKeys := make([]string, len(objects))
	valued := make([]bool, len(objects))

	for i, obj := range objects {
		byName.add(obj.Name, i)

		if o.exemptEmpty && !obj.HasValue() {
			continue
		}
		valueKeys[i] = Normalize(obj.RawValue)
		valued[i] = true
		byValue.add(valueKeys[i], i)
	}

	var rows []domain.DuplicateReportRow
	for i, obj := range objects {
		var kind domain.DuplicateKind
		others := make(map[int]struct{})

		if group := byName[obj.Name]; len(group) > 1 {
			kind |= domain.DuplicateName
			collectOthers(others, group, i)
		}
		if valued[i] {
			if group := byValue[valueKeys[i]]; len(group) > 1 {
				kind |= domain.DuplicateValue
				collectOthers(others, group, i)
			}
		}

		if kind == 0 {
			continue
		}

		rows = append(rows, domain.DuplicateReportRow{
			Scope:         obj.Scope,
			ObjectName:    obj.Name,
			ObjectValue:   obj.RawValue,
			Kind:          kind,
			DuplicateWith: sortedNames(objects, others),
		})
	}

	return rows
}

// ClassifyScopes splits objects by scope and classifies each scope on its
// own. Scopes are reported in the order they first appear.
func ClassifyScopes(objects []domain.NamedObject, opts ...Option) []domain.DuplicateReportRow {
	var order []string
	byScope := make(map[string][]domain.NamedObject)
	for _, obj := range objects {
		if _, seen := byScope[obj.Scope]; !seen {
			order = append(order, obj.Scope)
		}
		byScope[obj.Scope] = append(byScope[obj.Scope], obj)
	}

	var rows []domain.DuplicateReportRow
	for _, scope := range order {
		rows = append(rows, Classify(byScope[scope], opts...)...)
	}
	return rows
}

func collectOthers(dst map[int]struct{}, group []int, self int) {
	for _, pos := range group {
		if pos != self {
			dst[pos] = struct{}{}
		}
	}
}

// sortedNames orders the other objects by name, ties by input position
func sortedNames(objects []domain.NamedObject, positions map[int]struct{}) []string {
	order := make([]int, 0, len(positions))
	for pos := range positions {
		order = append(order, pos)
	}
	slices.SortFunc(order, func(a, b int) int {
		if c := cmp.Compare(objects[a].Name, objects[b].Name); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	names := make([]string, len(order))
	for i, pos := range order {
		names[i] = objects[pos].Name
	}
	return names
}
