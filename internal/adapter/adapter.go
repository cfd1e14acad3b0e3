package adapter

import (
	"context"

	"panokit/internal/domain"
)

// Authenticator exchanges credentials for an API key
type Authenticator interface {
	Keygen(ctx context.Context, username, password string) (string, error)
}

// Fetcher retrieves configuration records from the management server
type Fetcher interface {
	// DeviceGroups returns the names of all device groups in server order
	DeviceGroups(ctx context.Context) ([]string, error)

	// AddressObjects returns the address objects of a device group, or of
	// the shared scope when scope is domain.SharedScope
	AddressObjects(ctx context.Context, scope string) ([]domain.NamedObject, error)

	// Tags returns the tag objects of a device group
	Tags(ctx context.Context, deviceGroup string) ([]domain.Tag, error)

	// SecurityRules returns the rules of one rulebase of a device group
	SecurityRules(ctx context.Context, deviceGroup string, rulebase domain.Rulebase) ([]domain.SecurityRule, error)

	// SystemInfo returns the output of "show system info"
	SystemInfo(ctx context.Context) (*domain.SystemInfo, error)
}
