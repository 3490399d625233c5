package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextUsesTimestamp(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "RM-1000", g.Next(RoomPrefix, 1000))
	assert.Equal(t, "RM-2000", g.Next(RoomPrefix, 2000))
}

func TestNextBumpsRepeatedTimestamp(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "PL-5", g.Next(PlayerPrefix, 5))
	assert.Equal(t, "PL-6", g.Next(PlayerPrefix, 5))
	assert.Equal(t, "PL-7", g.Next(PlayerPrefix, 3))

	// prefixes are independent
	assert.Equal(t, "ST-5", g.Next(StakerPrefix, 5))
}

func TestObserve(t *testing.T) {
	g := NewGenerator()
	g.Observe("GM-42")
	g.Observe("GM-10")
	g.Observe("garbage")
	g.Observe("GM-notanumber")

	assert.Equal(t, "GM-43", g.Next(GamePrefix, 42))
	assert.Equal(t, "GM-100", g.Next(GamePrefix, 100))
}
