package accountview

import (
	"context"
	"sync"
)

// tasks counts background goroutines. Unlike sync.WaitGroup it may gain new
// work while someone is waiting.
type tasks struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (t *tasks) add() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.n == 0 {
		t.idle = make(chan struct{})
	}
	t.n++
}

func (t *tasks) done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.n--
	if t.n == 0 {
		close(t.idle)
	}
}

func (t *tasks) goFunc(fn func()) {
	t.add()
	go func() {
		defer t.done()
		fn()
	}()
}

// wait blocks until no task is running or ctx is done.
func (t *tasks) wait(ctx context.Context) error {
	for {
		t.mu.Lock()
		if t.n == 0 {
			t.mu.Unlock()
			return nil
		}
		idle := t.idle
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-idle:
		}
	}
}
