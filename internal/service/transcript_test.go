package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptStore_AppendListClear(t *testing.T) {
	store := NewTranscriptStore()
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	store.Append("oi", "olá")
	entry := store.Append("tchau", "até logo")

	assert.Equal(t, fixed, entry.Timestamp)
	history := store.List()
	require.Len(t, history, 2)
	assert.Equal(t, "oi", history[0].User)
	assert.Equal(t, "até logo", history[1].Assistant)

	history[0].User = "mutated"
	assert.Equal(t, "oi", store.List()[0].User)

	assert.Equal(t, 2, store.Clear())
	assert.Empty(t, store.List())
	assert.Zero(t, store.Clear())

	store.Append("de novo", "ok")
	assert.Len(t, store.List(), 1)
}

func TestTranscriptStore_ConcurrentAppends(t *testing.T) {
	store := NewTranscriptStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Append(fmt.Sprintf("msg %d", i), "ok")
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.List(), 50)
}
