package docstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutOverwrites(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Put("doc1", "AAAA"))
	require.NoError(t, s.Put("doc1", "BBBB"))

	doc, ok := s.Get("doc1")
	require.True(t, ok)
	assert.Equal(t, "BBBB", doc.Data)
	assert.Equal(t, []string{"doc1"}, s.List())
}

func TestPutRejectsEmptyIdentifier(t *testing.T) {
	s := NewStore()

	err := s.Put("", "AAAA")
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestGetAbsent(t *testing.T) {
	s := NewStore()

	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put("doc1", "AAAA"))

	assert.True(t, s.Remove("doc1"))
	_, ok := s.Get("doc1")
	assert.False(t, ok)

	// Removing an absent identifier is not an error and changes nothing.
	assert.False(t, s.Remove("doc1"))
	assert.Equal(t, 0, s.Len())
}

func TestClear(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put("a", "1"))
	require.NoError(t, s.Put("b", "2"))

	assert.Equal(t, 2, s.Clear())
	assert.Empty(t, s.List())
	assert.Equal(t, 0, s.Clear())
}

func TestListSorted(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put("zeta.pdf", "1"))
	require.NoError(t, s.Put("alpha.pdf", "2"))
	require.NoError(t, s.Put("mid.pdf", "3"))

	assert.Equal(t, []string{"alpha.pdf", "mid.pdf", "zeta.pdf"}, s.List())
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%8))
			_ = s.Put(id, "data")
			s.Get(id)
			s.List()
			if n%4 == 0 {
				s.Remove(id)
			}
		}(i)
	}
	wg.Wait()
}

func TestSuggest(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put("https://example.com/report.pdf", "1"))
	require.NoError(t, s.Put("quarterly.pdf", "2"))

	assert.Equal(t, "quarterly.pdf", s.Suggest("quartely.pdf"))
	assert.Equal(t, "https://example.com/report.pdf", s.Suggest("report.pdf"))
	assert.Equal(t, "", s.Suggest("zzzzzz"))
	assert.Equal(t, "", NewStore().Suggest("anything"))
}
