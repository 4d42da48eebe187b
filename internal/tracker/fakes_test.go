package tracker

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/justsurfingit/outreach-tracker/internal/models"
)

type update struct {
	ID    string
	Field string
	Value any
}

type fakeBackend struct {
	mu sync.Mutex

	apps      []models.Application
	updates   []update
	lists     int
	created   []dtos.ApplicationCreationRequest
	actions   []dtos.ActionRequest
	deleted   []string
	updateErr error
	failField string
	deleteErr error
	listErr   error
	actionErr error
	action    *dtos.ActionResponse
}

func (b *fakeBackend) List(ctx context.Context) ([]models.Application, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lists++
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := make([]models.Application, len(b.apps))
	for i, a := range b.apps {
		out[i] = cloneApp(a)
	}
	return out, nil
}

func (b *fakeBackend) Create(ctx context.Context, req *dtos.ApplicationCreationRequest) (*models.Application, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, *req)
	app := models.Application{
		ID:             "new-1",
		UserID:         req.UserID,
		CompanyName:    req.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		Founders:       req.Founders,
		DateApplied:    req.DateApplied,
	}
	b.apps = append([]models.Application{app}, b.apps...)
	return &app, nil
}

func (b *fakeBackend) UpdateField(ctx context.Context, id, field string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, update{id, field, value})
	if b.updateErr != nil {
		return b.updateErr
	}
	if b.failField != "" && field == b.failField {
		return errBoom
	}
	if v, ok := value.(string); ok {
		for i := range b.apps {
			if b.apps[i].ID == id {
				_ = setField(&b.apps[i], field, v)
			}
		}
	}
	return nil
}

func (b *fakeBackend) Action(ctx context.Context, id string, req dtos.ActionRequest) (*dtos.ActionResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions = append(b.actions, req)
	if b.actionErr != nil {
		return nil, b.actionErr
	}
	resp := *b.action
	return &resp, nil
}

func (b *fakeBackend) Delete(ctx context.Context, id string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return "", b.deleteErr
	}
	b.deleted = append(b.deleted, id)
	return "", nil
}

func (b *fakeBackend) Updates() []update {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]update(nil), b.updates...)
}

func (b *fakeBackend) Lists() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lists
}

type recorder struct {
	mu      sync.Mutex
	notes   []Notification
	copied  []string
	opened  []string
	clipErr error
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) WriteText(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clipErr != nil {
		return r.clipErr
	}
	r.copied = append(r.copied, text)
	return nil
}

func (r *recorder) Open(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, url)
	return nil
}

func (r *recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notes {
		out = append(out, n.Title)
	}
	return out
}

type transitions struct {
	mu    sync.Mutex
	byKey map[Key][]SaveState
}

func (t *transitions) observe(k Key, s SaveState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.byKey == nil {
		t.byKey = map[Key][]SaveState{}
	}
	t.byKey[k] = append(t.byKey[k], s)
}

func (t *transitions) For(id, field string) []SaveState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]SaveState(nil), t.byKey[Key{id, field}]...)
}

var errBoom = errors.New("boom")

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func seedApps() []models.Application {
	return []models.Application{
		{
			ID:              "a1",
			CompanyName:     "Acme",
			JobTitle:        "Engineer",
			DateApplied:     "2024-03-01",
			Status:          models.StatusApplied,
			CompanyLinkedIn: "https://linkedin.com/company/acme",
			Founders:        []models.Founder{{Name: "Ada", Email: "ada@acme.test", LinkedIn: "https://linkedin.com/in/ada"}},
		},
		{
			ID:          "b2",
			CompanyName: "Globex",
			JobTitle:    "SRE",
			Status:      models.StatusInterviewing,
		},
	}
}

type harness struct {
	sync    *Synchronizer
	backend *fakeBackend
	rec     *recorder
	trans   *transitions
}

func newHarness(t *testing.T, debounce, ttl time.Duration) *harness {
	t.Helper()
	h := &harness{
		backend: &fakeBackend{apps: seedApps()},
		rec:     &recorder{},
		trans:   &transitions{},
	}
	h.sync = New(h.backend, h.rec, h.rec, h.rec, Config{
		Debounce:     debounce,
		SaveStateTTL: ttl,
		UserID:       "u1",
		Logger:       log.New(io.Discard, "", 0),
		OnSaveState:  h.trans.observe,
		Now:          func() time.Time { return testNow },
	})
	t.Cleanup(h.sync.Close)
	if err := h.sync.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return h
}
