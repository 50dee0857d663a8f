package registry

// HostRecord is one named remote endpoint resolved from the ssh client
// configuration. Zero values mean the field was absent from the config;
// presentation defaults (hostname falls back to the alias, port to 22) are
// applied at read time by List, never stored here.
type HostRecord struct {
	Alias        string
	Hostname     string
	User         string
	Port         int
	IdentityFile string
	ProxyJump    string
	// Extra holds any recognized-format key not covered by the typed
	// fields, stored verbatim under the lower-cased key. ProxyJump targets
	// are not validated against the registry and may dangle.
	Extra map[string]string
}

// HostSummary is one row of List output with presentation defaults applied.
type HostSummary struct {
	Alias    string `json:"alias"`
	Hostname string `json:"hostname"`
	User     string `json:"user,omitempty"`
	Port     int    `json:"port"`
}

// ConfigLocator tells the loader where the primary config file lives.
type ConfigLocator interface {
	ConfigPath() (string, error)
}
