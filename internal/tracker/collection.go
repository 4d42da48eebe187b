package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/justsurfingit/outreach-tracker/internal/models"
)

// Placeholder values for a record created with Add.
var newApplication = dtos.ApplicationCreationRequest{
	CompanyName:    "New Company",
	JobTitle:       "New Position",
	JobDescription: "Job description to be added",
	Founders:       []models.Founder{{Name: "Founder Name", Email: "founder@company.com"}},
}

// Load replaces the local collection with the server's.
func (s *Synchronizer) Load(ctx context.Context) error {
	apps, err := s.backend.List(ctx)
	if err != nil {
		if !s.isClosed() {
			s.cfg.Logger.Printf("[tracker] fetch failed: %v", err)
			s.toast("Error", fmt.Sprintf("Failed to load applications: %v", err), true)
		}
		return err
	}

	now := s.cfg.Now()
	for i := range apps {
		normalize(&apps[i], now)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.apps = apps
	for k, p := range s.timers {
		s.reapplyLocked(k, p.value)
	}
	return nil
}

// reapplyLocked puts a pending edit back on a freshly loaded record so the
// local copy shows what the armed timer is about to write.
func (s *Synchronizer) reapplyLocked(k Key, value any) {
	i := s.indexLocked(k.ID)
	if i < 0 {
		return
	}
	switch v := value.(type) {
	case string:
		_ = setField(&s.apps[i], k.Field, v)
	case []models.Founder:
		s.apps[i].Founders = append([]models.Founder{}, v...)
	}
}

// Refetch reloads the collection, discarding optimistic local values.
func (s *Synchronizer) Refetch(ctx context.Context) error {
	return s.Load(ctx)
}

// normalize makes dateApplied a calendar date, today when missing or unreadable.
func normalize(app *models.Application, now time.Time) {
	date, err := models.NormalizeDate(app.DateApplied, now)
	if err != nil {
		date = now.Format(models.DateLayout)
	}
	app.DateApplied = date
	if app.Founders == nil {
		app.Founders = []models.Founder{}
	}
}

// Add creates a placeholder application and puts it at the top.
func (s *Synchronizer) Add(ctx context.Context) (*models.Application, error) {
	const key = "add-new"
	s.setLoading(key, true)
	defer s.setLoading(key, false)

	req := newApplication
	req.UserID = s.cfg.UserID
	req.Founders = append([]models.Founder(nil), newApplication.Founders...)
	req.DateApplied = s.cfg.Now().Format(models.DateLayout)

	app, err := s.backend.Create(ctx, &req)
	if err != nil {
		s.toast("Error", fmt.Sprintf("Failed to create application: %v", err), true)
		return nil, err
	}
	normalize(app, s.cfg.Now())

	s.mu.Lock()
	s.apps = append([]models.Application{cloneApp(*app)}, s.apps...)
	s.mu.Unlock()

	s.toast("Application added", "New application created successfully.", false)
	return app, nil
}

// Delete removes a record once the server confirms it. Pending edits and
// save states of the record are dropped so nothing writes to it afterwards.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	key := "delete-" + id
	s.setLoading(key, true)
	defer s.setLoading(key, false)

	msg, err := s.backend.Delete(ctx, id)
	if err != nil {
		s.cfg.Logger.Printf("[tracker] delete %s failed: %v", id, err)
		s.toast("Error", "Failed to delete application", true)
		return err
	}

	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.apps = append(s.apps[:i:i], s.apps[i+1:]...)
	}
	if n := s.cancelRecordTimersLocked(id); n > 0 {
		s.cfg.Logger.Printf("[tracker] dropped %d pending edit(s) of deleted %s", n, id)
	}
	s.dropSaveStatesLocked(id)
	s.mu.Unlock()

	if msg == "" {
		msg = "Application removed successfully"
	}
	s.toast("Application deleted", msg, false)
	return nil
}
