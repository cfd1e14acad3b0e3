// Package service implements the panokit commands on top of a Panorama
// fetcher.
//
// # Services
//
// DuplicateService resolves device groups (optionally plus the shared
// scope), fetches each scope's address objects and runs the duplicate
// classifier on every scope independently.
//
// TagService and PolicyService export tags and security rules of selected
// device groups. PolicyService reads the pre rulebase, the post rulebase or
// both.
//
// InfoService gathers system information, the device group list and the
// number of shared address objects as a login check.
//
// # Failure Handling
//
// A scope that cannot be fetched is logged, reported as an
// EventScopeFailed event and recorded in Result.Failures. The run
// continues with the next scope. Only context cancellation aborts a run.
//
// # Event System
//
// Services publish progress through an EventBus. Subscribers are plain
// functions called synchronously, which is how the CLI prints
// "Checking address objects for device group: X" lines.
package service
