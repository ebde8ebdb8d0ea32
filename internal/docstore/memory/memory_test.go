package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/domain"
)

func TestPutGet(t *testing.T) {
	s := NewStorage()

	doc, err := s.Put("france.pdf", "The capital of France is Paris.")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "france.pdf", doc.Name)
	assert.Equal(t, "The capital of France is Paris.", doc.Preview)
	assert.Equal(t, 6, doc.Words)

	got, err := s.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.Equal(t, 1, s.Len())
}

func TestGetUnknownID(t *testing.T) {
	s := NewStorage()

	_, err := s.Get("missing")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, 0, s.Len())
}

func TestPutEmptyText(t *testing.T) {
	s := NewStorage()

	doc, err := s.Put("scan.pdf", "")
	require.NoError(t, err)
	assert.Empty(t, doc.Preview)
	assert.Zero(t, doc.Words)
}

func TestConcurrentPutsProduceUniqueIDs(t *testing.T) {
	s := NewStorage()
	const n = 200

	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := s.Put(fmt.Sprintf("doc-%d.pdf", i), "text")
			if assert.NoError(t, err) {
				ids[i] = doc.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, s.Len())
}

func TestPutRedrawsCollidingID(t *testing.T) {
	s := NewStorage()
	ids := []string{"a", "a", "b"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := s.Put("one.pdf", "one")
	require.NoError(t, err)
	second, err := s.Put("two.pdf", "two")
	require.NoError(t, err)

	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
}

func TestPutFailsWhenIDsKeepColliding(t *testing.T) {
	s := NewStorage()
	s.newID = func() string { return "same" }

	_, err := s.Put("one.pdf", "one")
	require.NoError(t, err)
	_, err = s.Put("two.pdf", "two")
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}
