package util

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGateSerializes(t *testing.T) {
	g := NewGate(1)
	var inside, max int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Enter()
			n := atomic.AddInt32(&inside, 1)
			if n > atomic.LoadInt32(&max) {
				atomic.StoreInt32(&max, n)
			}
			atomic.AddInt32(&inside, -1)
			g.Leave()
		}()
	}
	wg.Wait()
	if max > 1 {
		t.Errorf("%d goroutines inside a capacity-1 gate", max)
	}
}

func TestGateCapacity(t *testing.T) {
	g := NewGate(3)
	// three entries must not block
	g.Enter()
	g.Enter()
	g.Enter()
	done := make(chan struct{})
	go func() {
		g.Enter() // blocks until a Leave
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("fourth Enter did not block")
	default:
	}
	g.Leave()
	<-done
}
