package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubMaintenance struct {
	enabled bool
	err     error
	calls   int
}

func (s *stubMaintenance) GetMaintenanceMode(context.Context) (bool, error) {
	s.calls++
	return s.enabled, s.err
}

func TestMaintenanceSwitch_CachesLookups(t *testing.T) {
	source := &stubMaintenance{enabled: true}
	sw := NewMaintenanceSwitch(source, false, time.Minute, nil)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	sw.now = func() time.Time { return now }

	assert.True(t, sw.Enabled())
	source.enabled = false
	assert.True(t, sw.Enabled())
	assert.Equal(t, 1, source.calls)

	now = now.Add(2 * time.Minute)
	assert.False(t, sw.Enabled())
	assert.Equal(t, 2, source.calls)
}

func TestMaintenanceSwitch_KeepsLastStateOnError(t *testing.T) {
	source := &stubMaintenance{enabled: true}
	sw := NewMaintenanceSwitch(source, false, time.Second, nil)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	sw.now = func() time.Time { return now }

	assert.True(t, sw.Enabled())

	source.err = errors.New("connection refused")
	now = now.Add(time.Minute)
	assert.True(t, sw.Enabled())
}

func TestMaintenanceSwitch_SetSkipsStaleCache(t *testing.T) {
	source := &stubMaintenance{}
	sw := NewMaintenanceSwitch(source, false, time.Minute, nil)

	assert.False(t, sw.Enabled())
	source.enabled = true
	sw.Set(true)
	assert.True(t, sw.Enabled())
	assert.Equal(t, 1, source.calls)
}

func TestMaintenanceSwitch_Forced(t *testing.T) {
	source := &stubMaintenance{}
	sw := NewMaintenanceSwitch(source, true, 0, nil)

	assert.True(t, sw.Enabled())
	assert.Zero(t, source.calls)

	assert.False(t, NewMaintenanceSwitch(nil, false, 0, nil).Enabled())
}
