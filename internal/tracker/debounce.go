package tracker

import "time"

// pendingSave is an armed debounce timer and the value it will persist.
type pendingSave struct {
	timer *time.Timer
	gen   uint64
	value any
}

// armLocked replaces any pending timer for k with a fresh one.
func (s *Synchronizer) armLocked(k Key, value any) {
	s.cancelTimerLocked(k)
	s.gen++
	gen := s.gen
	s.timers[k] = &pendingSave{
		gen:   gen,
		value: value,
		timer: time.AfterFunc(s.cfg.Debounce, func() { s.fire(k, gen, value) }),
	}
}

// cancelTimerLocked stops the pending timer for k and reports whether there
// was one.
func (s *Synchronizer) cancelTimerLocked(k Key) bool {
	p, ok := s.timers[k]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(s.timers, k)
	return true
}

// cancelRecordTimersLocked stops every pending timer of one record.
func (s *Synchronizer) cancelRecordTimersLocked(id string) int {
	n := 0
	for k := range s.timers {
		if k.ID == id && s.cancelTimerLocked(k) {
			n++
		}
	}
	return n
}

// fire persists a value whose debounce period ran out. A timer that was
// replaced or cancelled after it started firing finds a different generation
// (or none) and does nothing.
func (s *Synchronizer) fire(k Key, gen uint64, value any) {
	s.mu.Lock()
	p, ok := s.timers[k]
	if !ok || p.gen != gen || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.timers, k)
	s.inflight++
	s.mu.Unlock()

	defer s.done()
	_ = s.Persist(s.ctx, k.ID, k.Field, value)
}

// Pending reports whether k has an armed debounce timer.
func (s *Synchronizer) Pending(id, field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[Key{id, field}]
	return ok
}

// FlushAll persists every pending edit now instead of waiting out its timer.
func (s *Synchronizer) FlushAll() {
	s.mu.Lock()
	type flush struct {
		k     Key
		value any
	}
	var due []flush
	for k, p := range s.timers {
		// A timer already firing finds its entry gone and backs off, so the
		// value is persisted here either way.
		p.timer.Stop()
		due = append(due, flush{k, p.value})
		delete(s.timers, k)
	}
	s.mu.Unlock()

	for _, f := range due {
		s.spawn(func() { _ = s.Persist(s.ctx, f.k.ID, f.k.Field, f.value) })
	}
}
