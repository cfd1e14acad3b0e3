package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"panokit/internal/adapter"
	"panokit/internal/domain"
)

// PolicyTable is the report name of a policy export
const PolicyTable = "policies"

// PolicyColumns are the report columns of a policy export
var PolicyColumns = []string{
	"device_group", "rulebase", "rule_name", "source", "destination",
	"application", "service", "action", "enabled",
}

// PolicyService exports security rules of device groups
type PolicyService struct {
	fetcher adapter.Fetcher
	events  *EventBus
}

// NewPolicyService creates a new policy service
func NewPolicyService(fetcher adapter.Fetcher, events *EventBus) *PolicyService {
	return &PolicyService{fetcher: fetcher, events: events}
}

// Export returns one row per security rule. With RulebaseBoth the pre
// rules of a device group are followed by its post rules.
func (s *PolicyService) Export(ctx context.Context, deviceGroups []string, rulebase domain.Rulebase) (*Result, error) {
	if !rulebase.IsValid() {
		return nil, fmt.Errorf("invalid rulebase %q", rulebase)
	}

	result := &Result{
		Table: domain.NewTable(PolicyTable, "Security Policies", PolicyColumns...),
	}
	runner := scopeRunner{task: "Exporting policies", events: s.events}

	err := runner.run(ctx, result, deviceGroups, func(dg string) (int, error) {
		var (
			count int
			errs  []error
		)
		for _, rb := range rulebase.Expand() {
			rules, err := s.fetcher.SecurityRules(ctx, dg, rb)
			if err != nil {
				if ctx.Err() != nil {
					return count, err
				}
				errs = append(errs, fmt.Errorf("%s-rulebase: %w", rb, err))
				continue
			}
			for _, rule := range rules {
				if err := result.Table.AddRow(policyRecord(dg, rb, rule)...); err != nil {
					return count, err
				}
			}
			count += len(rules)
		}
		return count, errors.Join(errs...)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func policyRecord(dg string, rb domain.Rulebase, rule domain.SecurityRule) []string {
	enabled := "yes"
	if !rule.Enabled() {
		enabled = "no"
	}
	return []string{
		dg,
		string(rb),
		rule.Name,
		strings.Join(rule.Sources, ","),
		strings.Join(rule.Destinations, ","),
		strings.Join(rule.Applications, ","),
		strings.Join(rule.Services, ","),
		rule.Action,
		enabled,
	}
}
