package util

// A Gate bounds the number of goroutines inside a critical section.
// A gate of capacity 1 is a plain mutual-exclusion lock; an open ImgFS
// container uses one to serialize engine operations.
type Gate struct {
	c chan struct{}
}

// NewGate returns a Gate admitting at most n goroutines at a time.
func NewGate(n int) Gate {
	return Gate{c: make(chan struct{}, n)}
}

// Enter blocks until there is room inside the gate. It is safe to call
// from multiple goroutines.
func (g Gate) Enter() {
	g.c <- struct{}{}
}

// Leave exits the gate. Every Enter must be balanced by exactly one
// Leave; they need not come from the same goroutine.
func (g Gate) Leave() {
	<-g.c
}
