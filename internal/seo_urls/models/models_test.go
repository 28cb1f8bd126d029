package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsTimeOrdered(t *testing.T) {
	previous := NewID()
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.Greater(t, id, previous)
		previous = id
	}

	parsed, err := uuid.Parse(previous)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNewSeoUrlDefaults(t *testing.T) {
	seoUrl := NewSeoUrl("/x", "c", "xAction", nil, true, false)
	assert.True(t, seoUrl.IsNew())
	assert.Equal(t, []string{}, seoUrl.Parameters)
	assert.Equal(t, "c::xAction", seoUrl.Key().String())
}
