package registry

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func loadedRegistry(t *testing.T, content string) *Registry {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "/cfg/config", content)
	reg, warnings := testLoader(fs, "/cfg/config").Load()
	require.NoError(t, warnings)
	return reg
}

func TestListAppliesPresentationDefaults(t *testing.T) {
	reg := loadedRegistry(t, `
Host bare

Host full
  HostName full.internal
  User deploy
  Port 2222
`)

	summaries := reg.List()
	require.Len(t, summaries, 2)

	// defaults are computed at read time, never stored
	require.Equal(t, "bare", summaries[0].Alias)
	require.Equal(t, "bare", summaries[0].Hostname)
	require.Equal(t, 22, summaries[0].Port)

	require.Equal(t, "full.internal", summaries[1].Hostname)
	require.Equal(t, 2222, summaries[1].Port)

	stored, ok := reg.Lookup("bare")
	require.True(t, ok)
	require.Empty(t, stored.Hostname)
	require.Zero(t, stored.Port)
}

func TestListPreservesDeclarationOrderAcrossOverride(t *testing.T) {
	reg := loadedRegistry(t, `
Host first
Host second
Host first
  HostName replaced.internal
`)

	summaries := reg.List()
	require.Len(t, summaries, 2)
	require.Equal(t, "first", summaries[0].Alias)
	require.Equal(t, "replaced.internal", summaries[0].Hostname)
	require.Equal(t, "second", summaries[1].Alias)
}

func TestLookupIsExactMatchOnly(t *testing.T) {
	reg := loadedRegistry(t, `
Host web-1
  HostName web-1.internal
`)

	_, ok := reg.Lookup("web-1.internal")
	require.False(t, ok)
	_, ok = reg.Lookup("WEB-1")
	require.False(t, ok)
}

func TestDescribeReturnsExtraProperties(t *testing.T) {
	reg := loadedRegistry(t, `
Host web-1
  HostName web-1.internal
  ForwardAgent yes
  ServerAliveInterval 60
`)

	record, ok := reg.Describe("web-1")
	require.True(t, ok)
	require.Equal(t, "yes", record.Extra["forwardagent"])
	require.Equal(t, "60", record.Extra["serveraliveinterval"])
}
