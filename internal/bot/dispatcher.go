package bot

import "sync"

// dispatcher runs jobs for the same key one after another, in submission
// order, while jobs for different keys run concurrently.
type dispatcher struct {
	mu     sync.Mutex
	queues map[int64][]func()
	wg     sync.WaitGroup
}

func newDispatcher() *dispatcher {
	return &dispatcher{queues: make(map[int64][]func())}
}

func (d *dispatcher) Dispatch(key int64, job func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending, running := d.queues[key]
	d.queues[key] = append(pending, job)
	if running {
		return
	}

	d.wg.Add(1)
	go d.drain(key)
}

func (d *dispatcher) drain(key int64) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		pending := d.queues[key]
		if len(pending) == 0 {
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		job := pending[0]
		d.queues[key] = pending[1:]
		d.mu.Unlock()

		job()
	}
}

// Wait blocks until every dispatched job has finished.
func (d *dispatcher) Wait() {
	d.wg.Wait()
}
