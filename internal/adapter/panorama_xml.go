package adapter

import (
	"strings"

	"panokit/internal/domain"
)

// apiStatus carries the status attributes and error text every response has
type apiStatus struct {
	Status    string `xml:"status,attr"`
	Code      string `xml:"code,attr"`
	Msg       apiMsg `xml:"msg"`
	ResultMsg apiMsg `xml:"result>msg"`
}

// apiMsg is either plain text or a list of <line> elements
type apiMsg struct {
	Text  string   `xml:",chardata"`
	Lines []string `xml:"line"`
}

func (m apiMsg) parts() []string {
	var out []string
	for _, s := range append([]string{m.Text}, m.Lines...) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// err returns nil for successful responses
func (s apiStatus) err() error {
	if s.Status == "success" {
		return nil
	}
	parts := append(s.Msg.parts(), s.ResultMsg.parts()...)
	return &APIError{Code: s.Code, Message: strings.Join(parts, "; ")}
}

type keygenResponse struct {
	apiStatus
	Key string `xml:"result>key"`
}

type deviceGroupsResponse struct {
	apiStatus
	Entries []struct {
		Name string `xml:"name,attr"`
	} `xml:"result>device-group>entry"`
}

type addressResponse struct {
	apiStatus
	Entries []addressEntry `xml:"result>address>entry"`
}

type addressEntry struct {
	Name       string `xml:"name,attr"`
	IPNetmask  string `xml:"ip-netmask"`
	FQDN       string `xml:"fqdn"`
	IPRange    string `xml:"ip-range"`
	IPWildcard string `xml:"ip-wildcard"`
}

// value returns the first populated address field; objects without any
// carry an empty value
func (e addressEntry) value() (string, domain.AddressType) {
	candidates := []struct {
		v string
		t domain.AddressType
	}{
		{e.IPNetmask, domain.AddressTypeIPNetmask},
		{e.FQDN, domain.AddressTypeFQDN},
		{e.IPRange, domain.AddressTypeIPRange},
		{e.IPWildcard, domain.AddressTypeIPWildcard},
	}
	for _, c := range candidates {
		if c.v != "" {
			return c.v, c.t
		}
	}
	return "", domain.AddressTypeNone
}

type tagResponse struct {
	apiStatus
	Entries []struct {
		Name     string `xml:"name,attr"`
		Color    string `xml:"color"`
		Comments string `xml:"comments"`
	} `xml:"result>tag>entry"`
}

type rulesResponse struct {
	apiStatus
	Entries []ruleEntry `xml:"result>rules>entry"`
}

type ruleEntry struct {
	Name        string   `xml:"name,attr"`
	Source      []string `xml:"source>member"`
	Destination []string `xml:"destination>member"`
	Application []string `xml:"application>member"`
	Service     []string `xml:"service>member"`
	Action      string   `xml:"action"`
	Disabled    string   `xml:"disabled"`
}

func (e ruleEntry) disabled() bool {
	return strings.EqualFold(strings.TrimSpace(e.Disabled), "yes")
}

type systemInfoResponse struct {
	apiStatus
	System struct {
		Hostname  string `xml:"hostname"`
		IPAddress string `xml:"ip-address"`
		Model     string `xml:"model"`
		Serial    string `xml:"serial"`
		Version   string `xml:"sw-version"`
		Uptime    string `xml:"uptime"`
	} `xml:"result>system"`
}

// members trims member values and drops empty ones
func members(in []string) []string {
	out := make([]string, 0, len(in))
	for _, m := range in {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
