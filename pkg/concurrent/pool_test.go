package concurrent

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolComputesAllJobs(t *testing.T) {
	pool := NewWorkerPool[int, int](4, 16)
	pool.Start(func(job int) int { return job * job })

	for i := 1; i <= 16; i++ {
		pool.AddJob(i)
	}
	pool.Close()
	pool.Wait()

	var results []int
	for r := range pool.CollectResults() {
		results = append(results, r)
	}
	sort.Ints(results)

	require.Len(t, results, 16)
	for i := 1; i <= 16; i++ {
		assert.Equal(t, i*i, results[i-1])
	}
}

func TestPoolScheduleTimeoutWhenSaturated(t *testing.T) {
	p := NewPool(1, 0)

	block := make(chan struct{})
	var done sync.WaitGroup
	done.Add(1)
	p.Schedule(func() {
		defer done.Done()
		<-block
	})

	// the only worker is busy and there is no queue space
	err := p.ScheduleTimeout(30*time.Millisecond, func() {})
	require.ErrorIs(t, err, ErrScheduleTimeout)

	close(block)
	done.Wait()

	// with the worker free again the task goes through
	var ran sync.WaitGroup
	ran.Add(1)
	require.NoError(t, p.ScheduleTimeout(time.Second, func() { ran.Done() }))
	ran.Wait()
}

func TestPoolSpawnedWorkersDrainQueue(t *testing.T) {
	p := NewPool(2, 4)
	p.Spawn(2)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		p.Schedule(func() {
			defer wg.Done()
			mu.Lock()
			seen++
			mu.Unlock()
		})
	}
	wg.Wait()

	assert.Equal(t, 8, seen)
	p.Close()
}
