package launcher

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferReadAllDrains(t *testing.T) {
	b := NewBuffer(16)

	b.Write([]byte("hello "))
	b.Write([]byte("world"))

	assert.Equal(t, 11, b.Len())
	assert.Equal(t, "hello world", string(b.ReadAll()))
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.ReadAll())
}

func TestBufferOverwritesOldest(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		writes []string
		want   string
	}{
		{name: "exact fit", size: 4, writes: []string{"abcd"}, want: "abcd"},
		{name: "one over", size: 4, writes: []string{"abcde"}, want: "bcde"},
		{name: "many over", size: 4, writes: []string{"ab", "cdef", "gh"}, want: "efgh"},
		{name: "under", size: 8, writes: []string{"ab", "c"}, want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.size)
			for _, w := range tt.writes {
				n, err := b.Write([]byte(w))
				assert.NoError(t, err)
				assert.Equal(t, len(w), n)
			}
			assert.Equal(t, tt.want, string(b.ReadAll()))
		})
	}
}

func TestBufferWrapAfterDrain(t *testing.T) {
	b := NewBuffer(4)

	b.Write([]byte("abc"))
	assert.Equal(t, "abc", string(b.ReadAll()))

	// head now sits at index 3, so this write wraps
	b.Write([]byte("xyz"))
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, "xyz", string(b.ReadAll()))
}

func TestBufferConcurrentWrites(t *testing.T) {
	b := NewBuffer(1024)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Write([]byte("x"))
			}
		}()
	}
	wg.Wait()

	assert.Len(t, b.ReadAll(), 800)
}
