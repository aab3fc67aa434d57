package loadbalancer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextCyclesInOrder(t *testing.T) {
	rr := NewRoundRobin("catalog", []string{"http://a", "http://b", "http://c"})

	var got []string
	for i := 0; i < 5; i++ {
		got = append(got, rr.Next())
	}
	assert.Equal(t, []string{"http://a", "http://b", "http://c", "http://a", "http://b"}, got)
}

func TestNextWithoutInstances(t *testing.T) {
	assert.Empty(t, NewRoundRobin("user", nil).Next())
}

func TestNextSpreadsConcurrentCallsEvenly(t *testing.T) {
	rr := NewRoundRobin("catalog", []string{"http://a", "http://b"})

	var mu sync.Mutex
	counts := map[string]int{}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := rr.Next()
			mu.Lock()
			counts[s]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]int{"http://a": 50, "http://b": 50}, counts)
}
