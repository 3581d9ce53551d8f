package delegate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetmesh/dispatch/internal/domain/delegate"
)

func TestHasAllTags(t *testing.T) {
	d := delegate.Delegate{Tags: []string{"linux", "gpu", "us-east"}}

	assert.True(t, d.HasAllTags(nil))
	assert.True(t, d.HasAllTags([]string{"gpu"}))
	assert.True(t, d.HasAllTags([]string{"linux", "us-east"}))
	assert.False(t, d.HasAllTags([]string{"linux", "windows"}))
}

func TestCanAcquire(t *testing.T) {
	assert.True(t, delegate.Delegate{Status: delegate.StatusEnabled}.CanAcquire())
	assert.False(t, delegate.Delegate{Status: delegate.StatusDisabled}.CanAcquire())
	assert.False(t, delegate.Delegate{Status: delegate.StatusDeleted}.CanAcquire())
}
