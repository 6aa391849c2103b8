package chat

import "sync"

// Counter is an observable int consumed by dashboard widgets outside the
// chat core (unread badge, online count).
type Counter struct {
	mu      sync.Mutex
	value   int
	subs    map[int]chan int
	nextSub int
}

// NewCounter returns a counter starting at zero.
func NewCounter() *Counter {
	return &Counter{subs: make(map[int]chan int)}
}

// Get returns the current value.
func (c *Counter) Get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Subscribe returns a channel receiving each new value, and a cancel func.
// Deliveries coalesce: a slow reader sees only the latest value.
func (c *Counter) Subscribe() (<-chan int, func()) {
	ch := make(chan int, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.value
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
	return ch, cancel
}

// set updates the value and notifies subscribers if it changed.
func (c *Counter) set(value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == c.value {
		return
	}
	c.value = value
	for _, ch := range c.subs {
		sendLatest(ch, value)
	}
}

// sendLatest delivers v on a 1-buffered channel, replacing any undrained
// value so slow readers always see the newest state.
func sendLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}
