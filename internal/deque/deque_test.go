package deque

import (
	"sort"
	"sync"
	"testing"
)

func TestPushPopLIFO(t *testing.T) {
	d := New()
	d.PushBottom(1)
	d.PushBottom(2)
	d.PushBottom(3)

	for _, want := range []int{3, 2, 1} {
		v, ok := d.PopBottom()
		if !ok {
			t.Fatalf("PopBottom: expected ok=true")
		}
		if v.(int) != want {
			t.Errorf("got %v, want %d", v, want)
		}
	}
	if _, ok := d.PopBottom(); ok {
		t.Error("expected empty deque")
	}
}

func TestStealFIFO(t *testing.T) {
	d := New()
	d.PushBottom(1)
	d.PushBottom(2)
	d.PushBottom(3)

	v, res := d.StealTop()
	if res != StealSuccess || v.(int) != 1 {
		t.Errorf("StealTop = %v, %v; want 1, StealSuccess", v, res)
	}
}

func TestStealEmpty(t *testing.T) {
	d := New()
	if _, res := d.StealTop(); res != StealEmpty {
		t.Errorf("got %v, want StealEmpty", res)
	}
}

func TestGrowBeyondInitialCapacity(t *testing.T) {
	d := New()
	const n = 10_000
	for i := 0; i < n; i++ {
		d.PushBottom(i)
	}
	seen := make(map[int]bool, n)
	for {
		v, ok := d.PopBottom()
		if !ok {
			break
		}
		seen[v.(int)] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d unique items, want %d", len(seen), n)
	}
}

// TestConcurrentStealStress is spec.md §8 scenario 6: one owner pushes
// 0..9999, four stealers race against the owner's own pops; the union of
// everything popped and everything stolen must equal {0, ..., 9999} with no
// duplicates and no loss.
func TestConcurrentStealStress(t *testing.T) {
	const n = 10_000
	const stealers = 4
	d := New()

	var mu sync.Mutex
	collected := make([]int, 0, n)

	var wg sync.WaitGroup
	wg.Add(stealers)
	stop := make(chan struct{})
	for s := 0; s < stealers; s++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					// Drain whatever remains after the owner signals done.
					for {
						v, res := d.StealTop()
						if res == StealSuccess {
							mu.Lock()
							collected = append(collected, v.(int))
							mu.Unlock()
							continue
						}
						if res == StealRetry {
							continue
						}
						return
					}
				default:
					v, res := d.StealTop()
					if res == StealSuccess {
						mu.Lock()
						collected = append(collected, v.(int))
						mu.Unlock()
					}
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		d.PushBottom(i)
		if i%7 == 0 {
			if v, ok := d.PopBottom(); ok {
				mu.Lock()
				collected = append(collected, v.(int))
				mu.Unlock()
			}
		}
	}
	for {
		v, ok := d.PopBottom()
		if !ok {
			break
		}
		mu.Lock()
		collected = append(collected, v.(int))
		mu.Unlock()
	}
	close(stop)
	wg.Wait()

	sort.Ints(collected)
	if len(collected) != n {
		t.Fatalf("collected %d items, want %d", len(collected), n)
	}
	for i, v := range collected {
		if v != i {
			t.Fatalf("collected set is not exactly {0..%d}: index %d has value %d", n-1, i, v)
		}
	}
}

func TestIsEmptyAndLen(t *testing.T) {
	d := New()
	if !d.IsEmpty() {
		t.Error("new deque should be empty")
	}
	d.PushBottom("a")
	if d.IsEmpty() {
		t.Error("deque with one item should not be empty")
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}
