package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostwire/hostwire/pkg/terminal"
)

func TestNewHostwireCommand(t *testing.T) {
	cmd := NewHostwireCommand(terminal.New())
	assert.Equal(t, "hostwire", cmd.Use)

	expected := []string{"serve", "service", "ls", "exec", "upload", "download", "version"}
	for _, name := range expected {
		sub, _, err := cmd.Find([]string{name})
		assert.NoError(t, err)
		assert.NotEqual(t, cmd, sub, name)
	}
}
