package domain

import "strings"

// DuplicateKind is the set of axes on which an object collides
type DuplicateKind uint8

const (
	// DuplicateName marks a collision on object name
	DuplicateName DuplicateKind = 1 << iota
	// DuplicateValue marks a collision on normalized value
	DuplicateValue
)

// Has reports whether k includes every kind in other
func (k DuplicateKind) Has(other DuplicateKind) bool {
	return other != 0 && k&other == other
}

// String renders the kind the way the report columns expect it
// ("name", "value" or "name,value")
func (k DuplicateKind) String() string {
	var parts []string
	if k.Has(DuplicateName) {
		parts = append(parts, "name")
	}
	if k.Has(DuplicateValue) {
		parts = append(parts, "value")
	}
	return strings.Join(parts, ",")
}

// DuplicateReportRow describes one object that collides with others of its scope
type DuplicateReportRow struct {
	Scope       string        `json:"device_group" yaml:"device_group"`
	ObjectName  string        `json:"object_name" yaml:"object_name"`
	ObjectValue string        `json:"object_value" yaml:"object_value"`
	Kind        DuplicateKind `json:"-" yaml:"-"`
	// DuplicateWith holds the names of the other colliding objects, one
	// entry per object, sorted
	DuplicateWith []string `json:"duplicate_with" yaml:"duplicate_with"`
}

// DuplicateColumns are the report columns of a duplicate-object check
var DuplicateColumns = []string{
	"device_group", "object_name", "object_value", "duplicate_type", "duplicate_with",
}

// Record returns the row in DuplicateColumns order
func (r DuplicateReportRow) Record() []string {
	return []string{
		r.Scope,
		r.ObjectName,
		r.ObjectValue,
		r.Kind.String(),
		strings.Join(r.DuplicateWith, ","),
	}
}
