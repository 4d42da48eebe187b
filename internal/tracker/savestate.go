package tracker

import "time"

// SaveState is the persistence status shown next to an edited field.
type SaveState int

const (
	StateNone SaveState = iota
	StateSaving
	StateSaved
	StateError
)

func (s SaveState) String() string {
	switch s {
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateError:
		return "error"
	default:
		return ""
	}
}

type saveEntry struct {
	state SaveState
	gen   uint64
	clear *time.Timer
}

// SaveState returns the current state of one field.
func (s *Synchronizer) SaveState(id, field string) SaveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.states[Key{id, field}]; ok {
		return e.state
	}
	return StateNone
}

// setSaveState records a transition. Saved and error states clear themselves
// after SaveStateTTL unless a newer transition for the key came first.
func (s *Synchronizer) setSaveState(k Key, state SaveState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if old, ok := s.states[k]; ok && old.clear != nil {
		old.clear.Stop()
	}
	s.gen++
	e := &saveEntry{state: state, gen: s.gen}
	s.states[k] = e
	s.emitLocked(k, state)

	if state == StateSaved || state == StateError {
		gen := e.gen
		e.clear = time.AfterFunc(s.cfg.SaveStateTTL, func() { s.expireSaveState(k, gen) })
	}
}

func (s *Synchronizer) expireSaveState(k Key, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.states[k]
	if !ok || e.gen != gen || s.closed {
		return
	}
	delete(s.states, k)
	s.emitLocked(k, StateNone)
}

// dropSaveStatesLocked forgets every save state of one record.
func (s *Synchronizer) dropSaveStatesLocked(id string) {
	for k, e := range s.states {
		if k.ID != id {
			continue
		}
		if e.clear != nil {
			e.clear.Stop()
		}
		delete(s.states, k)
	}
}

func (s *Synchronizer) emitLocked(k Key, state SaveState) {
	if s.cfg.OnSaveState != nil {
		s.cfg.OnSaveState(k, state)
	}
}
