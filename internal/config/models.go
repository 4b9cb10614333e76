package config

// TransportConfig represents the transport selection
type TransportConfig struct {
	Provider string
}

// GraphConfig represents the configuration for the REST transport
type GraphConfig struct {
	BaseURL         string
	Token           string
	ClientID        string
	ClientSecret    string
	TokenURL        string
	Scopes          []string
	MarkConcurrency int
}

// EWSConfig represents the configuration for the SOAP transport
type EWSConfig struct {
	Endpoint string
	Token    string
}

// TriageConfig represents the raw triage rule inputs
type TriageConfig struct {
	DaysBack     string
	MaxItems     int
	DryRun       bool
	VIPSenders   string
	LowSenders   string
	HighSubjects string
	LowSubjects  string
}

// GetTransport returns the transport configuration
func (c *Config) GetTransport() TransportConfig {
	return TransportConfig{
		Provider: c.GetString("transport.provider"),
	}
}

// GetGraph returns the REST transport configuration
func (c *Config) GetGraph() GraphConfig {
	return GraphConfig{
		BaseURL:         c.GetString("graph.base_url"),
		Token:           c.GetString("graph.token"),
		ClientID:        c.GetString("graph.client_id"),
		ClientSecret:    c.GetString("graph.client_secret"),
		TokenURL:        c.GetString("graph.token_url"),
		Scopes:          c.GetStringSlice("graph.scopes"),
		MarkConcurrency: c.GetInt("graph.mark_concurrency"),
	}
}

// GetEWS returns the SOAP transport configuration
func (c *Config) GetEWS() EWSConfig {
	return EWSConfig{
		Endpoint: c.GetString("ews.endpoint"),
		Token:    c.GetString("ews.token"),
	}
}

// GetTriage returns the raw triage rule inputs
func (c *Config) GetTriage() TriageConfig {
	return TriageConfig{
		DaysBack:     c.GetString("triage.days_back"),
		MaxItems:     c.GetInt("triage.max_items"),
		DryRun:       c.GetBool("triage.dry_run"),
		VIPSenders:   c.GetString("triage.vip_senders"),
		LowSenders:   c.GetString("triage.low_senders"),
		HighSubjects: c.GetString("triage.high_subjects"),
		LowSubjects:  c.GetString("triage.low_subjects"),
	}
}

// GetUserAddress returns the acting user's own address
func (c *Config) GetUserAddress() string {
	return c.GetString("mailbox.user_address")
}
