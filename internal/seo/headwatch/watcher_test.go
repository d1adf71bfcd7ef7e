package headwatch

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObserveNotifiesOnChangeOnly(t *testing.T) {
	t.Parallel()

	w := New()
	var got []string
	cancel := w.Subscribe(func(head string) { got = append(got, head) })

	require.True(t, w.Observe("<title>a</title>"))
	require.False(t, w.Observe("<title>a</title>"))
	require.True(t, w.Observe("<title>b</title>"))
	require.Equal(t, []string{"<title>a</title>", "<title>b</title>"}, got)

	cancel()
	cancel()
	require.True(t, w.Observe("<title>c</title>"))
	require.Len(t, got, 2)

	last, ok := w.Last()
	require.True(t, ok)
	require.Equal(t, "<title>c</title>", last)
}

func TestObserveEmptyHeadCountsAsFirstObservation(t *testing.T) {
	t.Parallel()

	w := New()
	_, ok := w.Last()
	require.False(t, ok)
	require.True(t, w.Observe(""))
	require.False(t, w.Observe(""))
}

func TestConcurrentObserveEndsOnLatestHead(t *testing.T) {
	t.Parallel()

	w := New()
	var mu sync.Mutex
	var delivered []string
	w.Subscribe(func(head string) {
		mu.Lock()
		delivered = append(delivered, head)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				w.Observe("<title>" + strconv.Itoa(i) + "-" + strconv.Itoa(j) + "</title>")
			}
		}(i)
	}
	wg.Wait()

	last, ok := w.Last()
	require.True(t, ok)
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, delivered)
	require.Equal(t, last, delivered[len(delivered)-1])
}
