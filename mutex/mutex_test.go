package mutex

import (
	"testing"

	"github.com/go-redsync/redsync/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderReturnsIndependentLocks(t *testing.T) {
	b := NewBuilder("127.0.0.1:0")
	defer b.Close()

	syncWeek, ok := b.SyncWeek().(*redsync.Mutex)
	require.True(t, ok)
	notify, ok := b.Notify().(*redsync.Mutex)
	require.True(t, ok)
	assert.NotSame(t, syncWeek, notify)
}

func TestLockFailsWithoutRedis(t *testing.T) {
	b := NewBuilder("127.0.0.1:1")
	defer b.Close()

	assert.Error(t, b.Notify().Lock())
}

func TestExtendFailsWithoutRedis(t *testing.T) {
	b := NewBuilder("127.0.0.1:1")
	defer b.Close()

	ok, err := b.SyncWeek().Extend()
	assert.Error(t, err)
	assert.False(t, ok)
}
