package watch

import (
	"sync"
	"time"
)

// debouncer collapses bursts of triggers into a single signal on C that is
// sent once no trigger arrived for the configured duration.
type debouncer struct {
	mutex    sync.Mutex
	duration time.Duration
	timer    *time.Timer
	stopped  bool

	// C holds at most one pending signal.
	C chan struct{}
}

func newDebouncer(duration time.Duration) *debouncer {
	return &debouncer{
		duration: duration,
		C:        make(chan struct{}, 1),
	}
}

// trigger starts the quiet period, or restarts it if one is running.
// It reports whether an earlier trigger was folded into this one.
func (debouncer *debouncer) trigger() bool {
	debouncer.mutex.Lock()
	defer debouncer.mutex.Unlock()

	if debouncer.stopped {
		return false
	}
	if debouncer.timer == nil {
		debouncer.timer = time.AfterFunc(debouncer.duration, debouncer.fire)
		return false
	}
	// Stop reports true when the timer had not fired yet.
	pending := debouncer.timer.Stop()
	debouncer.timer.Reset(debouncer.duration)
	return pending
}

func (debouncer *debouncer) fire() {
	select {
	case debouncer.C <- struct{}{}:
	default:
	}
}

func (debouncer *debouncer) stop() {
	debouncer.mutex.Lock()
	defer debouncer.mutex.Unlock()

	debouncer.stopped = true
	if debouncer.timer != nil {
		debouncer.timer.Stop()
	}
}
