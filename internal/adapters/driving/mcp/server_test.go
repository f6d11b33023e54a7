package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil unit service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingUnitService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Units: &mockUnitService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("ingest port is optional", func(t *testing.T) {
		server, err := NewServer(&Ports{Units: &mockUnitService{}, Ingest: &mockIngestService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Collection(t *testing.T) {
	p := &Ports{DefaultCollection: "luat"}
	assert.Equal(t, "luat", p.collection(""))
	assert.Equal(t, "other", p.collection("other"))
}
