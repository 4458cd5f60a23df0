package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(&Config{Name: "mock", Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(&Config{Name: "google-ads"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported metrics provider")
}
