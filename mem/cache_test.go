package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetIndexAndTag(t *testing.T) {
	// set = top 5 bits of the 16-bit address, tag = bottom 11 bits.
	addr := Address(0b10101_00000000001)
	assert.Equal(t, 0b10101, setIndex(addr))
	assert.Equal(t, uint16(0b00000000001), tagOf(addr))
}

func TestVictimWayFollowsZeroedTree(t *testing.T) {
	var cs cacheSet
	assert.Equal(t, 0, cs.victimWay(), "an all-zero tree must name way 0 first")
}

func TestTouchedWayIsNotImmediatelyReselected(t *testing.T) {
	var cs cacheSet
	for seen := 0; seen < numWays; seen++ {
		w := cs.victimWay()
		cs.touch(w)
		assert.NotEqual(t, w, cs.victimWay(), "way %d should not be selected again immediately", w)
	}
}

func TestCacheThrashVisitsEveryWayBeforeRepeating(t *testing.T) {
	var cs cacheSet
	seen := make(map[int]bool)
	for i := 0; i < numWays; i++ {
		w := cs.victimWay()
		assert.False(t, seen[w], "way %d selected twice within one full cycle", w)
		seen[w] = true
		cs.touch(w)
	}
	assert.Len(t, seen, numWays)
}

func TestFindMissOnEmptySet(t *testing.T) {
	var cs cacheSet
	_, ok := cs.find(0x123)
	assert.False(t, ok)
}

func TestFindHitAfterFill(t *testing.T) {
	var cs cacheSet
	cs.ways[3] = cacheLine{valid: true, tag: 0x55, value: 42}
	way, ok := cs.find(0x55)
	assert.True(t, ok)
	assert.Equal(t, 3, way)
}
