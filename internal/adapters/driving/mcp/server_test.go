package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil answer service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingAnswerService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Answer: &mockAnswerService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil answer service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingAnswerService)
	})

	t.Run("answer only is valid", func(t *testing.T) {
		ports := &Ports{
			Answer: &mockAnswerService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("empty tenant defaults", func(t *testing.T) {
		ports := &Ports{
			Answer: &mockAnswerService{},
		}
		require.NoError(t, ports.Validate())
		assert.Equal(t, "default", ports.TenantID)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Answer:   &mockAnswerService{},
			Document: &mockDocumentService{},
			Stats:    &mockStatsService{},
			TenantID: "tenant-1",
		}
		err := ports.Validate()
		assert.NoError(t, err)
		assert.Equal(t, "tenant-1", ports.TenantID)
	})
}
