package adapter

import (
	"context"
	"crypto/tls"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"panokit/internal/domain"
)

const (
	// DefaultTimeout bounds every API request
	DefaultTimeout = 10 * time.Second

	deviceGroupXPath = "/config/devices/entry/device-group"
	sharedXPath      = "/config/shared"
	systemInfoCmd    = "<show><system><info></info></system></show>"

	// maxResponseSize caps how much of a response body is read
	maxResponseSize = 64 << 20
)

// ClientConfig holds connection settings for a Client
type ClientConfig struct {
	// Host is a hostname or IP, optionally with port or https:// scheme
	Host string
	// Timeout per request, DefaultTimeout when zero
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool
	// HTTPClient overrides the client built from Timeout/InsecureSkipVerify
	HTTPClient *http.Client
}

// Client is a read-only Panorama XML API client
type Client struct {
	endpoint string
	http     *http.Client
	key      string
}

var (
	_ Fetcher       = (*Client)(nil)
	_ Authenticator = (*Client)(nil)
)

// NewClient creates a client for the given host
func NewClient(cfg ClientConfig) (*Client, error) {
	endpoint, err := apiEndpoint(cfg.Host)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.InsecureSkipVerify,
				},
			},
		}
	}

	return &Client{
		endpoint: endpoint,
		http:     httpClient,
	}, nil
}

// apiEndpoint turns a host argument into the https://host/api/ URL
func apiEndpoint(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("panorama host is empty")
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("invalid panorama host %q: %w", host, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid panorama host %q", host)
	}
	u.Path = "/api/"
	u.RawQuery = ""
	return u.String(), nil
}

// Endpoint returns the API URL requests are sent to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SetAPIKey sets the key used by every query
func (c *Client) SetAPIKey(key string) {
	c.key = key
}

// HasAPIKey reports whether a key has been set or generated
func (c *Client) HasAPIKey() bool {
	return c.key != ""
}

// Keygen exchanges credentials for an API key and keeps it for later
// queries. Only a rejection by the API matches ErrAuthFailed; transport
// failures are returned as they are.
func (c *Client) Keygen(ctx context.Context, username, password string) (string, error) {
	params := url.Values{}
	params.Set("type", "keygen")
	params.Set("user", username)
	params.Set("password", password)

	var resp keygenResponse
	if err := c.do(ctx, params, &resp); err != nil {
		if errors.Is(err, ErrAPIStatus) {
			return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}
		return "", fmt.Errorf("keygen: %w", err)
	}

	key := strings.TrimSpace(resp.Key)
	if key == "" {
		return "", fmt.Errorf("%w: response carried no key", ErrAuthFailed)
	}

	c.key = key
	return key, nil
}

// DeviceGroups returns all device group names
func (c *Client) DeviceGroups(ctx context.Context) ([]string, error) {
	var resp deviceGroupsResponse
	if err := c.getConfig(ctx, deviceGroupXPath, &resp); err != nil {
		return nil, fmt.Errorf("get device groups: %w", err)
	}

	names := make([]string, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		name := strings.TrimSpace(e.Name)
		switch {
		case name == "":
		case name == domain.SharedScope:
			// the scope name always addresses /config/shared
			log.Printf("panorama: skipping device group %q, the name is reserved for the shared scope", name)
		default:
			names = append(names, name)
		}
	}
	return names, nil
}

// AddressObjects returns the address objects of a device group or of the
// shared scope
func (c *Client) AddressObjects(ctx context.Context, scope string) ([]domain.NamedObject, error) {
	base, err := scopeXPath(scope)
	if err != nil {
		return nil, err
	}
	var resp addressResponse
	if err := c.getConfig(ctx, base+"/address", &resp); err != nil {
		return nil, fmt.Errorf("get address objects for %s: %w", scope, err)
	}

	objects := make([]domain.NamedObject, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		value, typ := e.value()
		obj := domain.NewNamedObject(scope, e.Name, value)
		obj.Type = typ
		objects = append(objects, obj)
	}
	return objects, nil
}

// Tags returns the tag objects of a device group
func (c *Client) Tags(ctx context.Context, deviceGroup string) ([]domain.Tag, error) {
	base, err := scopeXPath(deviceGroup)
	if err != nil {
		return nil, err
	}
	var resp tagResponse
	if err := c.getConfig(ctx, base+"/tag", &resp); err != nil {
		return nil, fmt.Errorf("get tags for %s: %w", deviceGroup, err)
	}

	tags := make([]domain.Tag, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		tags = append(tags, domain.Tag{
			DeviceGroup: deviceGroup,
			Name:        e.Name,
			Color:       strings.TrimSpace(e.Color),
			Comments:    strings.TrimSpace(e.Comments),
		})
	}
	return tags, nil
}

// SecurityRules returns the security rules of a pre or post rulebase
func (c *Client) SecurityRules(ctx context.Context, deviceGroup string, rulebase domain.Rulebase) ([]domain.SecurityRule, error) {
	if rulebase != domain.RulebasePre && rulebase != domain.RulebasePost {
		return nil, fmt.Errorf("security rules: rulebase must be pre or post, got %q", rulebase)
	}

	base, err := scopeXPath(deviceGroup)
	if err != nil {
		return nil, err
	}
	xpath := fmt.Sprintf("%s/%s-rulebase/security/rules", base, rulebase)
	var resp rulesResponse
	if err := c.getConfig(ctx, xpath, &resp); err != nil {
		return nil, fmt.Errorf("get %s-rulebase for %s: %w", rulebase, deviceGroup, err)
	}

	rules := make([]domain.SecurityRule, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		rules = append(rules, domain.SecurityRule{
			DeviceGroup:  deviceGroup,
			Rulebase:     rulebase,
			Name:         e.Name,
			Sources:      members(e.Source),
			Destinations: members(e.Destination),
			Applications: members(e.Application),
			Services:     members(e.Service),
			Action:       strings.TrimSpace(e.Action),
			Disabled:     e.disabled(),
		})
	}
	return rules, nil
}

// SystemInfo runs "show system info"
func (c *Client) SystemInfo(ctx context.Context) (*domain.SystemInfo, error) {
	params := url.Values{}
	params.Set("type", "op")
	params.Set("cmd", systemInfoCmd)

	var resp systemInfoResponse
	if err := c.query(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("get system info: %w", err)
	}

	s := resp.System
	return &domain.SystemInfo{
		Hostname:  strings.TrimSpace(s.Hostname),
		IPAddress: strings.TrimSpace(s.IPAddress),
		Model:     strings.TrimSpace(s.Model),
		Serial:    strings.TrimSpace(s.Serial),
		Version:   strings.TrimSpace(s.Version),
		Uptime:    strings.TrimSpace(s.Uptime),
	}, nil
}

// scopeXPath returns the config xpath of a device group or the shared
// scope. XPath 1.0 literals have no escapes, so a name is quoted with
// whichever quote it does not contain.
func scopeXPath(scope string) (string, error) {
	switch {
	case scope == domain.SharedScope:
		return sharedXPath, nil
	case scope == "":
		return "", fmt.Errorf("%w: empty device group name", ErrInvalidScope)
	case !strings.Contains(scope, "'"):
		return fmt.Sprintf("%s/entry[@name='%s']", deviceGroupXPath, scope), nil
	case !strings.Contains(scope, `"`):
		return fmt.Sprintf(`%s/entry[@name="%s"]`, deviceGroupXPath, scope), nil
	default:
		return "", fmt.Errorf("%w: device group %s mixes both quote characters", ErrInvalidScope, scope)
	}
}

// getConfig issues a type=config action=get query
func (c *Client) getConfig(ctx context.Context, xpath string, out statusChecker) error {
	params := url.Values{}
	params.Set("type", "config")
	params.Set("action", "get")
	params.Set("xpath", xpath)
	return c.query(ctx, params, out)
}

// query issues an authenticated request
func (c *Client) query(ctx context.Context, params url.Values, out statusChecker) error {
	if c.key == "" {
		return ErrNoAPIKey
	}
	params.Set("key", c.key)
	return c.do(ctx, params, out)
}

// statusChecker is implemented by every response type via apiStatus
type statusChecker interface {
	err() error
}

// do sends the request and decodes the XML body into out
func (c *Client) do(ctx context.Context, params url.Values, out statusChecker) error {
	reqURL := c.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	log.Printf("panorama: GET type=%s %s", params.Get("type"), params.Get("xpath"))
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	log.Printf("panorama: %s in %s (%d bytes)", resp.Status, time.Since(start).Round(time.Millisecond), len(body))

	// error responses usually carry an XML body explaining the failure
	if decodeErr := xml.Unmarshal(body, out); decodeErr != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected HTTP status %s", resp.Status)
		}
		return fmt.Errorf("decode response: %w", decodeErr)
	}

	if err := out.err(); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	return nil
}
