package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryCorpusAppendAndLookup(t *testing.T) {
	corpus := NewMemoryCorpus()
	ctx := context.Background()

	require.NoError(t, corpus.Append(ctx, "q1", CorpusEntry{ApplicationID: "app-1", ContentHash: "h1"}))
	require.NoError(t, corpus.Append(ctx, "q1", CorpusEntry{ApplicationID: "app-2", ContentHash: "h2"}))
	require.NoError(t, corpus.Append(ctx, "q2", CorpusEntry{ApplicationID: "app-1", ContentHash: "h3"}))

	entries, err := corpus.Lookup(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.False(t, entries[0].InsertedAt.IsZero())

	other, err := corpus.Lookup(ctx, "q2")
	require.NoError(t, err)
	require.Len(t, other, 1)

	missing, err := corpus.Lookup(ctx, "q3")
	require.NoError(t, err)
	require.Empty(t, missing)
}

func TestMemoryCorpusLookupReturnsCopy(t *testing.T) {
	corpus := NewMemoryCorpus()
	ctx := context.Background()
	require.NoError(t, corpus.Append(ctx, "q1", CorpusEntry{ApplicationID: "app-1"}))

	entries, err := corpus.Lookup(ctx, "q1")
	require.NoError(t, err)
	entries[0].ApplicationID = "mutated"

	fresh, err := corpus.Lookup(ctx, "q1")
	require.NoError(t, err)
	require.Equal(t, "app-1", fresh[0].ApplicationID)
}

func TestMemoryCorpusConcurrentAppendsLoseNothing(t *testing.T) {
	corpus := NewMemoryCorpus()
	ctx := context.Background()
	const writers = 64

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			entry := CorpusEntry{ApplicationID: fmt.Sprintf("app-%d", i), ContentHash: fmt.Sprintf("h-%d", i)}
			require.NoError(t, corpus.Append(ctx, "q1", entry))
		}(i)
	}
	wg.Wait()

	entries, err := corpus.Lookup(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, entries, writers)

	seen := make(map[string]struct{}, writers)
	for _, e := range entries {
		seen[e.ApplicationID] = struct{}{}
	}
	require.Len(t, seen, writers)
}
