package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock(t *testing.T) {
	c := New()
	now := c.Now()
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestFixedClock(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	c := NewFixed(base)

	assert.Equal(t, base, c.Now())

	c.Advance(48 * time.Hour)
	assert.Equal(t, base.AddDate(0, 0, 2), c.Now())

	c.Set(base)
	assert.Equal(t, base, c.Now())
}
