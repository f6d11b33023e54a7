package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMCPCmd_HasServe(t *testing.T) {
	var found bool
	for _, c := range mcpCmd.Commands() {
		if c.Name() == "serve" {
			found = true
		}
	}
	assert.True(t, found)
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("port"))
}

func TestMCPServe_ServiceNotConfigured(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()
	unitService = nil

	_, err := executeCommand("mcp", "serve")
	assert.ErrorContains(t, err, "unit service not configured")
}
