package session

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

type deferredKind string

const (
	kindResolve  deferredKind = "resolve"
	kindComplete deferredKind = "complete"
)

// deferred is a scheduled piece of work with a deadline. While suspended it
// holds no timer, only the delay that was left when it was suspended. gen
// changes every time the timer is armed so a late fire from an earlier arm
// is ignored.
type deferred struct {
	gen       uint64
	kind      deferredKind
	deadline  time.Time
	remaining time.Duration
	fire      func()
	timer     *quartz.Timer
}

// scheduler holds at most one deferred event. Its timer callbacks take lock
// before firing, so fire always runs under the owner's mutex. All methods
// must be called with lock held.
type scheduler struct {
	clock   quartz.Clock
	lock    sync.Locker
	seq     uint64
	pending *deferred
}

func newScheduler(clock quartz.Clock, lock sync.Locker) *scheduler {
	return &scheduler{clock: clock, lock: lock}
}

// schedule replaces any pending event with fire, to run after delay.
func (s *scheduler) schedule(kind deferredKind, delay time.Duration, fire func()) {
	s.cancel()
	d := &deferred{
		kind:      kind,
		remaining: delay,
		fire:      fire,
	}
	s.pending = d
	s.arm(d)
}

func (s *scheduler) arm(d *deferred) {
	s.seq++
	d.gen = s.seq
	d.deadline = s.clock.Now().Add(d.remaining)
	gen := d.gen
	d.timer = s.clock.AfterFunc(d.remaining, func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		s.run(gen)
	}, "session", string(d.kind))
}

func (s *scheduler) run(gen uint64) {
	d := s.pending
	if d == nil || d.gen != gen || d.timer == nil {
		return // cancelled, suspended or replaced
	}
	s.pending = nil
	d.fire()
}

// cancel drops the pending event, if any.
func (s *scheduler) cancel() {
	if s.pending == nil {
		return
	}
	if s.pending.timer != nil {
		s.pending.timer.Stop()
	}
	s.pending = nil
}

// suspend stops the pending timer and remembers how long was left.
func (s *scheduler) suspend() {
	d := s.pending
	if d == nil || d.timer == nil {
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.gen = 0
	d.remaining = max(d.deadline.Sub(s.clock.Now()), 0)
}

// resume rearms a suspended event with its remaining delay.
func (s *scheduler) resume() {
	d := s.pending
	if d == nil || d.timer != nil {
		return
	}
	s.arm(d)
}

// pendingKind reports the kind of the pending event.
func (s *scheduler) pendingKind() (deferredKind, bool) {
	if s.pending == nil {
		return "", false
	}
	return s.pending.kind, true
}
