package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/justsurfingit/outreach-tracker/internal/models"
)

// Edit applies value to the local record at once and schedules it to be
// persisted: now when immediate is set, otherwise after the debounce period
// passes with no further edit to the same field.
func (s *Synchronizer) Edit(id, field, value string, immediate bool) error {
	k := Key{id, field}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}
	if err := setField(&s.apps[i], field, value); err != nil {
		s.mu.Unlock()
		return err
	}

	if !immediate {
		s.armLocked(k, value)
		s.mu.Unlock()
		return nil
	}
	s.cancelTimerLocked(k)
	s.mu.Unlock()

	s.spawn(func() { _ = s.Persist(s.ctx, id, field, value) })
	return nil
}

// CommitNow is the Enter/blur path: any pending timer for the field is
// cancelled and the value is persisted without waiting.
func (s *Synchronizer) CommitNow(id, field, value string) error {
	return s.Edit(id, field, value, true)
}

// Persist writes one field to the backend and tracks its save state. On
// failure the user is notified and the whole collection is refetched so the
// local copy matches the server again.
func (s *Synchronizer) Persist(ctx context.Context, id, field string, value any) error {
	if s.isClosed() {
		return ErrClosed
	}
	k := Key{id, field}
	s.setSaveState(k, StateSaving)

	err := s.backend.UpdateField(ctx, id, field, value)
	if err == nil {
		s.setSaveState(k, StateSaved)
		return nil
	}

	s.setSaveState(k, StateError)
	if s.isClosed() {
		return err
	}
	s.cfg.Logger.Printf("[tracker] update %s failed: %v", k, err)
	s.toast("Update Failed", fmt.Sprintf("Failed to update %s: %v", field, err), true)
	_ = s.Refetch(ctx)
	return err
}

// SaveFounders replaces the founder list of one record and persists it at
// once. Every founder needs a name, an email and a LinkedIn URL.
func (s *Synchronizer) SaveFounders(id string, founders []models.Founder) error {
	for _, f := range founders {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Email) == "" || strings.TrimSpace(f.LinkedIn) == "" {
			s.toast("Validation Error", "Please fill in all fields for each founder.", true)
			return fmt.Errorf("%w: every founder needs a name, email and LinkedIn URL", ErrInvalidValue)
		}
	}

	k := Key{id, "founders"}
	list := append([]models.Founder{}, founders...)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}
	s.apps[i].Founders = list
	s.cancelTimerLocked(k)
	s.mu.Unlock()

	s.spawn(func() { _ = s.Persist(s.ctx, id, k.Field, list) })
	return nil
}

// setField applies one edit to a record. The single-founder field names
// edit the first founder, creating it when the list is empty.
func setField(app *models.Application, field, value string) error {
	switch field {
	case "companyName":
		app.CompanyName = value
	case "jobTitle":
		app.JobTitle = value
	case "jobDescription":
		app.JobDescription = value
	case "companyLinkedIn":
		app.CompanyLinkedIn = value
	case "comments":
		app.Comments = value
	case "dateApplied":
		app.DateApplied = value
	case "status":
		if !models.Status(value).Valid() {
			return fmt.Errorf("%w: status %q", ErrInvalidValue, value)
		}
		app.Status = models.Status(value)
	case "founderName", "founderEmail", "founderLinkedIn":
		if len(app.Founders) == 0 {
			app.Founders = []models.Founder{{}}
		} else {
			app.Founders = append([]models.Founder(nil), app.Founders...)
		}
		switch field {
		case "founderName":
			app.Founders[0].Name = value
		case "founderEmail":
			app.Founders[0].Email = value
		default:
			app.Founders[0].LinkedIn = value
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}
