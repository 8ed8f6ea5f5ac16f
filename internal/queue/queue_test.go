package queue

import (
	"sync"
	"testing"
	"time"
)

func TestPushPop(t *testing.T) {
	q := New[int](4)
	q.Push(1)
	q.Push(2)
	v, ok := q.Pop()
	if !ok || v != 1 {
		t.Fatalf("Pop() = (%d, %v), want (1, true)", v, ok)
	}
	v, ok = q.Pop()
	if !ok || v != 2 {
		t.Fatalf("Pop() = (%d, %v), want (2, true)", v, ok)
	}
}

func TestTryPopTimesOutWhenEmpty(t *testing.T) {
	q := New[int](4)
	_, ok := q.TryPop(10 * time.Millisecond)
	if ok {
		t.Fatal("expected TryPop to time out on an empty, not-done queue")
	}
}

func TestSetDoneDrainsBufferedThenStops(t *testing.T) {
	q := New[int](4)
	q.Push(1)
	q.Push(2)
	q.SetDone()

	var got []int
	for {
		v, ok := q.TryPop(5 * time.Millisecond)
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("drained %v, want [1 2]", got)
	}
	if !q.IsDone() {
		t.Error("IsDone() = false after SetDone")
	}
}

func TestConcurrentProducersSingleConsumer(t *testing.T) {
	q := New[int](16)
	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(i)
			}
		}()
	}
	go func() {
		wg.Wait()
		q.SetDone()
	}()

	count := 0
	for {
		_, ok := q.TryPop(20 * time.Millisecond)
		if !ok {
			if q.IsDone() && q.Empty() {
				break
			}
			continue
		}
		count++
	}
	if count != producers*perProducer {
		t.Fatalf("consumed %d items, want %d", count, producers*perProducer)
	}
}
