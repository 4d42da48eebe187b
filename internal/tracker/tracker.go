// Package tracker keeps a local, optimistically edited copy of the
// application collection in step with the API.
//
// Every edit is applied to the local copy at once. Persisting it is
// debounced per (record, field) key, so independent fields of independent
// records save without waiting on or cancelling each other. Each key carries
// a transient save state (saving, saved, error) for display. A failed save
// triggers a full refetch, because the server is the source of truth and the
// overwritten local value is not kept.
package tracker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/justsurfingit/outreach-tracker/internal/models"
)

var (
	ErrUnknownRecord = errors.New("unknown application")
	ErrUnknownField  = errors.New("field is not editable")
	ErrInvalidValue  = errors.New("invalid value")
	ErrClosed        = errors.New("tracker is closed")
)

// Backend is the API the tracker drives. *client.Client implements it.
type Backend interface {
	List(ctx context.Context) ([]models.Application, error)
	Create(ctx context.Context, req *dtos.ApplicationCreationRequest) (*models.Application, error)
	UpdateField(ctx context.Context, id, field string, value any) error
	Action(ctx context.Context, id string, req dtos.ActionRequest) (*dtos.ActionResponse, error)
	Delete(ctx context.Context, id string) (string, error)
}

// Notification is a transient message for the user.
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

type Notifier interface {
	Notify(n Notification)
}

type Clipboard interface {
	WriteText(text string) error
}

// Browser opens a URL outside the tracker.
type Browser interface {
	Open(url string) error
}

// Key identifies one field of one record.
type Key struct {
	ID    string
	Field string
}

func (k Key) String() string { return k.ID + "-" + k.Field }

type Config struct {
	// Debounce is the quiet period after the last edit of a key before it
	// is persisted.
	Debounce time.Duration
	// SaveStateTTL is how long saved and error states stay visible.
	SaveStateTTL time.Duration
	// UserID stamps newly created applications.
	UserID string
	Logger *log.Logger
	// OnSaveState observes every save state transition. It runs with the
	// tracker locked and must not call back into it.
	OnSaveState func(Key, SaveState)
	Now         func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Debounce:     1000 * time.Millisecond,
		SaveStateTTL: 2 * time.Second,
		UserID:       "current-user-id",
		Logger:       log.Default(),
		Now:          time.Now,
	}
}

type Synchronizer struct {
	backend Backend
	notify  Notifier
	clip    Clipboard
	browser Browser
	cfg     Config

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	idle     *sync.Cond
	inflight int
	closed   bool
	gen      uint64

	apps    []models.Application
	timers  map[Key]*pendingSave
	states  map[Key]*saveEntry
	loading map[string]bool
}

// New returns a Synchronizer with an empty collection; call Load to fill it.
func New(backend Backend, notify Notifier, clip Clipboard, browser Browser, cfg Config) *Synchronizer {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.SaveStateTTL <= 0 {
		cfg.SaveStateTTL = def.SaveStateTTL
	}
	if cfg.UserID == "" {
		cfg.UserID = def.UserID
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Synchronizer{
		backend: backend,
		notify:  notify,
		clip:    clip,
		browser: browser,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		timers:  make(map[Key]*pendingSave),
		states:  make(map[Key]*saveEntry),
		loading: make(map[string]bool),
	}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Applications returns a copy of the collection in display order.
func (s *Synchronizer) Applications() []models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Application, len(s.apps))
	for i, app := range s.apps {
		out[i] = cloneApp(app)
	}
	return out
}

// Application returns a copy of one record.
func (s *Synchronizer) Application(id string) (models.Application, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.Application{}, false
	}
	return cloneApp(s.apps[i]), true
}

// Loading reports whether the action identified by key is in flight.
func (s *Synchronizer) Loading(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[key]
}

func (s *Synchronizer) setLoading(key string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.loading[key] = true
	} else {
		delete(s.loading, key)
	}
}

// Wait blocks until no persist or refetch started by the tracker is running.
// Pending debounce timers are not waited for; see FlushAll.
func (s *Synchronizer) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.inflight > 0 {
		s.idle.Wait()
	}
}

// Close cancels every pending timer and in-flight request. Timers that
// fire afterwards do nothing.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for k, p := range s.timers {
		p.timer.Stop()
		delete(s.timers, k)
	}
	for k, e := range s.states {
		if e.clear != nil {
			e.clear.Stop()
		}
		delete(s.states, k)
	}
	s.mu.Unlock()

	s.cancel()
	s.Wait()
}

// spawn runs f in the background and counts it as in flight.
func (s *Synchronizer) spawn(f func()) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.inflight++
	s.mu.Unlock()

	go func() {
		defer s.done()
		f()
	}()
	return true
}

func (s *Synchronizer) done() {
	s.mu.Lock()
	s.inflight--
	if s.inflight == 0 {
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

func (s *Synchronizer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Synchronizer) indexLocked(id string) int {
	for i := range s.apps {
		if s.apps[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Synchronizer) toast(title, desc string, destructive bool) {
	if s.notify == nil {
		return
	}
	s.notify.Notify(Notification{Title: title, Description: desc, Destructive: destructive})
}

func cloneApp(app models.Application) models.Application {
	app.Founders = append(make([]models.Founder, 0, len(app.Founders)), app.Founders...)
	return app
}
