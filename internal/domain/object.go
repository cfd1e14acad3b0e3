package domain

import "strings"

// SharedScope is the scope name of address objects defined outside any
// device group.
const SharedScope = "shared"

// AddressType identifies which field of an address entry carried the value
type AddressType string

const (
	AddressTypeIPNetmask  AddressType = "ip-netmask"
	AddressTypeFQDN       AddressType = "fqdn"
	AddressTypeIPRange    AddressType = "ip-range"
	AddressTypeIPWildcard AddressType = "ip-wildcard"
	AddressTypeNone       AddressType = ""
)

// NamedObject is an address object as read from one scope.
// Name is not required to be unique within the scope.
type NamedObject struct {
	Name     string      `json:"name" yaml:"name"`
	RawValue string      `json:"value" yaml:"value"`
	Type     AddressType `json:"type,omitempty" yaml:"type,omitempty"`
	Scope    string      `json:"scope" yaml:"scope"`
}

// NewNamedObject creates an address object for the given scope
func NewNamedObject(scope, name, value string) NamedObject {
	return NamedObject{
		Name:     name,
		RawValue: value,
		Scope:    scope,
	}
}

// HasValue reports whether the object carried an address value other
// than whitespace
func (o NamedObject) HasValue() bool {
	return strings.TrimSpace(o.RawValue) != ""
}
