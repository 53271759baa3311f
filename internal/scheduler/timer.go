package scheduler

import (
	"sync"
	"time"
)

// maxSleepSlice bounds how long a timer sleeps before re-reading the wall
// clock, so host clock changes move the firing instant instead of an
// elapsed-time counter drifting past it.
const maxSleepSlice = 30 * time.Second

// pointTimer fires a callback once at a wall-clock instant. Cancellable
// any time before it fires; Cancel is idempotent.
type pointTimer struct {
	target time.Time
	cancel chan struct{}
	once   sync.Once
}

func newPointTimer(target time.Time, fire func()) *pointTimer {
	t := &pointTimer{target: target, cancel: make(chan struct{})}
	go t.run(fire)
	return t
}

func (t *pointTimer) run(fire func()) {
	for {
		d := time.Until(t.target)
		if d <= 0 {
			fire()
			return
		}
		if d > maxSleepSlice {
			d = maxSleepSlice
		}
		timer := time.NewTimer(d)
		select {
		case <-timer.C:
		case <-t.cancel:
			timer.Stop()
			return
		}
	}
}

func (t *pointTimer) Cancel() {
	t.once.Do(func() { close(t.cancel) })
}
