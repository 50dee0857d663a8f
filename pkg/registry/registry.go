package registry

import (
	"strconv"

	"github.com/kevinburke/ssh_config"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry maps alias to HostRecord. It is built once by Load and is
// read-only afterwards, so concurrent lookups need no locking. Declaration
// order is preserved so List output is deterministic; a later definition of
// the same alias replaces the earlier record in full but keeps its
// original position.
type Registry struct {
	hosts *orderedmap.OrderedMap[string, HostRecord]
}

func newRegistry() *Registry {
	return &Registry{hosts: orderedmap.New[string, HostRecord]()}
}

func (r *Registry) add(record HostRecord) {
	r.hosts.Set(record.Alias, record)
}

// Lookup returns the record for an exact alias match. No pattern expansion,
// no fallback to hostname.
func (r *Registry) Lookup(alias string) (HostRecord, bool) {
	record, ok := r.hosts.Get(alias)
	return record, ok
}

// Describe is Lookup under its diagnostic name; the full record including
// Extra is returned.
func (r *Registry) Describe(alias string) (HostRecord, bool) {
	return r.Lookup(alias)
}

// List returns one summary per host in declaration order, with the
// presentation defaults applied: hostname falls back to the alias and port
// to the stock ssh default when the stored record has neither.
func (r *Registry) List() []HostSummary {
	summaries := make([]HostSummary, 0, r.hosts.Len())
	for pair := r.hosts.Oldest(); pair != nil; pair = pair.Next() {
		record := pair.Value
		hostname := record.Hostname
		if hostname == "" {
			hostname = record.Alias
		}
		port := record.Port
		if port == 0 {
			port = defaultSSHPort()
		}
		summaries = append(summaries, HostSummary{
			Alias:    record.Alias,
			Hostname: hostname,
			User:     record.User,
			Port:     port,
		})
	}
	return summaries
}

func (r *Registry) Len() int {
	return r.hosts.Len()
}

func defaultSSHPort() int {
	port, err := strconv.Atoi(ssh_config.Default("Port"))
	if err != nil {
		return 22
	}
	return port
}
