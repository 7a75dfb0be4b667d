package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecencyMarkAndExpire(t *testing.T) {
	current := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	set := NewRecencySet(func() time.Time { return current })

	set.Mark("doc-1", 10*time.Second)
	assert.True(t, set.IsMarked("doc-1"))

	current = current.Add(9 * time.Second)
	assert.True(t, set.IsMarked("doc-1"))

	current = current.Add(2 * time.Second)
	assert.False(t, set.IsMarked("doc-1"))

	// Expired entries stay gone even if the clock rolls back.
	current = current.Add(-5 * time.Second)
	assert.False(t, set.IsMarked("doc-1"))
}

func TestRecencyMarkRefreshesDeadline(t *testing.T) {
	current := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	set := NewRecencySet(func() time.Time { return current })

	set.Mark("doc-1", 10*time.Second)
	current = current.Add(8 * time.Second)
	set.Mark("doc-1", 10*time.Second)

	current = current.Add(8 * time.Second)
	assert.True(t, set.IsMarked("doc-1"))
}

func TestRecencyUnmarkAndClear(t *testing.T) {
	set := NewRecencySet(nil)

	set.Mark("a", time.Minute)
	set.Mark("b", time.Minute)

	set.Unmark("a")
	assert.False(t, set.IsMarked("a"))
	assert.True(t, set.IsMarked("b"))

	set.Clear()
	assert.False(t, set.IsMarked("b"))
}

func TestRecencyIgnoresEmptyID(t *testing.T) {
	set := NewRecencySet(nil)
	set.Mark("", time.Minute)
	assert.False(t, set.IsMarked(""))
}

func TestRecencyZeroTTLUsesDefault(t *testing.T) {
	current := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	set := NewRecencySet(func() time.Time { return current })

	set.Mark("doc-1", 0)
	current = current.Add(DefaultRecencyTTL - time.Second)
	assert.True(t, set.IsMarked("doc-1"))

	current = current.Add(2 * time.Second)
	assert.False(t, set.IsMarked("doc-1"))
}
