package host

import (
	"container/heap"
	"time"
)

// Scheduler queues frame callbacks and timers for a single-threaded loop.
//
// Frame callbacks requested while a frame is running are deferred to the
// following frame. A cancelled callback never fires, even when it is
// cancelled by an earlier callback in the same frame.
type Scheduler struct {
	now time.Duration

	nextFrame FrameID
	frames    map[FrameID]func(now time.Duration)
	order     []FrameID
	running   []FrameID

	nextTimer TimerID
	timers    map[TimerID]*timer
	queue     timerQueue
}

type timer struct {
	id    TimerID
	due   time.Duration
	fn    func()
	index int
}

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{
		frames: make(map[FrameID]func(now time.Duration)),
		timers: make(map[TimerID]*timer),
	}
}

// Now returns the timestamp of the most recent step.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// RequestFrame registers fn for the next RunFrame.
func (s *Scheduler) RequestFrame(fn func(now time.Duration)) FrameID {
	s.nextFrame++
	id := s.nextFrame
	s.frames[id] = fn
	s.order = append(s.order, id)
	return id
}

// CancelFrame drops a pending frame callback. Unknown ids are ignored.
func (s *Scheduler) CancelFrame(id FrameID) {
	delete(s.frames, id)
}

// RunFrame runs the callbacks that were pending when it was called,
// in request order.
func (s *Scheduler) RunFrame(now time.Duration) int {
	s.now = now
	s.running, s.order = s.order, s.running[:0]

	ran := 0
	for _, id := range s.running {
		fn, ok := s.frames[id]
		if !ok {
			continue
		}
		delete(s.frames, id)
		fn(now)
		ran++
	}
	s.running = s.running[:0]
	return ran
}

// PendingFrames returns the number of frame callbacks that will run next frame.
func (s *Scheduler) PendingFrames() int {
	return len(s.frames)
}

// AfterFunc registers fn to fire at the first FireTimers whose timestamp
// is at least d past the current time.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	s.nextTimer++
	t := &timer{id: s.nextTimer, due: s.now + d, fn: fn}
	s.timers[t.id] = t
	heap.Push(&s.queue, t)
	return t.id
}

// CancelTimer drops a pending timer. Unknown ids are ignored.
func (s *Scheduler) CancelTimer(id TimerID) {
	t, ok := s.timers[id]
	if !ok {
		return
	}
	delete(s.timers, id)
	if t.index >= 0 {
		heap.Remove(&s.queue, t.index)
	}
}

// FireTimers runs every timer due at or before now, earliest first.
// Timers registered while firing are not run until a later call.
func (s *Scheduler) FireTimers(now time.Duration) int {
	s.now = now
	limit := s.nextTimer

	fired := 0
	var deferred []*timer
	for s.queue.Len() > 0 && s.queue[0].due <= now {
		t := heap.Pop(&s.queue).(*timer)
		if t.id > limit {
			deferred = append(deferred, t)
			continue
		}
		delete(s.timers, t.id)
		t.fn()
		fired++
	}
	for _, t := range deferred {
		if _, ok := s.timers[t.id]; ok {
			heap.Push(&s.queue, t)
		}
	}
	return fired
}

// PendingTimers returns the number of timers that have not fired.
func (s *Scheduler) PendingTimers() int {
	return len(s.timers)
}

// timerQueue is a min-heap ordered by due time, then registration order.
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].id < q[j].id
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
