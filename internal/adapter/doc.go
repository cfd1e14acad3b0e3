// Package adapter talks to a Panorama management server over its XML API.
//
// Client implements the read-only subset of the API the panokit tools need:
// API key generation, the device group list, address objects, tags, security
// rules and the system info operational command. Every call is a single
// HTTPS GET; responses are decoded with encoding/xml into the domain types.
//
// # Fetcher
//
// Services depend on the Fetcher interface rather than on Client so they can
// be exercised against in-memory fixtures.
//
// # Errors
//
// A response whose status attribute is not "success" is returned as an
// *APIError, which matches ErrAPIStatus with errors.Is. Key generation
// rejected by the API matches ErrAuthFailed; a key request that never got
// an answer does not.
package adapter
