package domain

// Rulebase selects which security rulebase of a device group is read
type Rulebase string

const (
	RulebasePre  Rulebase = "pre"
	RulebasePost Rulebase = "post"
	RulebaseBoth Rulebase = "both"
)

// IsValid returns true if the rulebase is recognized
func (r Rulebase) IsValid() bool {
	switch r {
	case RulebasePre, RulebasePost, RulebaseBoth:
		return true
	}
	return false
}

// Expand returns the concrete rulebases r stands for
func (r Rulebase) Expand() []Rulebase {
	if r == RulebaseBoth {
		return []Rulebase{RulebasePre, RulebasePost}
	}
	return []Rulebase{r}
}

// Tag is a tag object of a device group
type Tag struct {
	DeviceGroup string `json:"device_group"`
	Name        string `json:"tag_name"`
	Color       string `json:"color"`
	Comments    string `json:"comments"`
}

// SecurityRule is one security policy rule of a device group rulebase
type SecurityRule struct {
	DeviceGroup  string   `json:"device_group"`
	Rulebase     Rulebase `json:"rulebase"`
	Name         string   `json:"rule_name"`
	Sources      []string `json:"source"`
	Destinations []string `json:"destination"`
	Applications []string `json:"application"`
	Services     []string `json:"service"`
	Action       string   `json:"action"`
	Disabled     bool     `json:"disabled"`
}

// Enabled is the inverse of Disabled, reported as a column
func (r SecurityRule) Enabled() bool {
	return !r.Disabled
}

// SystemInfo holds the fields of "show system info" the info command reports
type SystemInfo struct {
	Hostname  string `json:"hostname"`
	IPAddress string `json:"ip_address,omitempty"`
	Model     string `json:"model,omitempty"`
	Serial    string `json:"serial,omitempty"`
	Version   string `json:"sw_version"`
	Uptime    string `json:"uptime"`
}
