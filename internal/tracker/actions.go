package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/justsurfingit/outreach-tracker/internal/models"
)

// LinkedIn message kinds.
const (
	KindFounder = "founder"
	KindCompany = "company"
)

func orInitial(target string) string {
	if target == "" {
		return "initial"
	}
	return target
}

func (s *Synchronizer) lookup(id string) (models.Application, error) {
	app, ok := s.Application(id)
	if !ok {
		return app, fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}
	return app, nil
}

// SendEmail asks the backend to email the record's founders.
func (s *Synchronizer) SendEmail(ctx context.Context, id, target string) (*dtos.ActionResponse, error) {
	app, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("founder-email-%s-%s", id, orInitial(target))
	s.setLoading(key, true)
	defer s.setLoading(key, false)

	resp, err := s.backend.Action(ctx, id, dtos.ActionRequest{Action: dtos.ActionSendEmail, Target: target})
	if err != nil {
		s.actionFailed("send founder email", err)
		return nil, err
	}
	to := resp.To
	if to == "" {
		to = strings.Join(app.FounderEmails(), ", ")
	}
	s.toast("Email sent successfully", "Email sent to "+to, false)
	return resp, nil
}

// LinkedInMessage generates a founder or company message, copies it and
// opens the matching LinkedIn page. The response carries one message per
// founder in Details for the founder kind.
func (s *Synchronizer) LinkedInMessage(ctx context.Context, id, kind, target string) (*dtos.ActionResponse, error) {
	if kind != KindFounder && kind != KindCompany {
		return nil, fmt.Errorf("%w: LinkedIn kind %q", ErrInvalidValue, kind)
	}
	app, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s-linkedin-%s-%s", kind, id, orInitial(target))
	s.setLoading(key, true)
	defer s.setLoading(key, false)

	resp, err := s.backend.Action(ctx, id, dtos.ActionRequest{Action: kind + "-linkedin", Target: target})
	if err == nil && resp.Content == "" {
		err = fmt.Errorf("backend returned no %s message", kind)
	}
	if err != nil {
		s.actionFailed(fmt.Sprintf("generate %s LinkedIn message", kind), err)
		return nil, err
	}

	desc := resp.Message
	if desc == "" {
		desc = kind + " LinkedIn message copied to clipboard"
	}
	s.copy(resp.Content, "Message copied", desc)
	s.open(linkedInURL(app, kind), kind)
	return resp, nil
}

// FollowUp runs a follow-up action. When the backend moved the record to
// Follow-up Pending the local copy follows.
func (s *Synchronizer) FollowUp(ctx context.Context, id, target string) (*dtos.ActionResponse, error) {
	app, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("followup-%s-%s", target, id)
	s.setLoading(key, true)
	defer s.setLoading(key, false)

	resp, err := s.backend.Action(ctx, id, dtos.ActionRequest{Action: dtos.ActionFollowUp, Target: target})
	if err != nil {
		s.actionFailed(target+" follow-up", err)
		return nil, err
	}

	if resp.StatusUpdated {
		s.mu.Lock()
		if i := s.indexLocked(id); i >= 0 {
			s.apps[i].Status = models.StatusFollowUpPending
		}
		s.mu.Unlock()
	}

	if resp.Content == "" {
		desc := resp.Message
		if desc == "" {
			desc = fmt.Sprintf("%s follow-up action completed for %s", target, app.CompanyName)
		}
		s.toast(target+" Follow-up successful", desc, false)
		return resp, nil
	}

	desc := resp.Message
	if desc == "" {
		desc = target + " follow-up message copied to clipboard"
	}
	s.copy(resp.Content, target+" Follow-up copied", desc)
	if strings.Contains(target, "linkedin") {
		kind := strings.SplitN(target, "-", 2)[0]
		s.open(linkedInURL(app, kind), kind)
	}
	return resp, nil
}

func linkedInURL(app models.Application, kind string) string {
	if kind == KindFounder {
		return app.PrimaryFounder().LinkedIn
	}
	return app.CompanyLinkedIn
}

func (s *Synchronizer) copy(text, title, desc string) {
	if s.clip == nil {
		return
	}
	if err := s.clip.WriteText(text); err != nil {
		s.cfg.Logger.Printf("[tracker] clipboard copy failed: %v", err)
		s.toast("Clipboard Error", "Failed to copy message to clipboard. Please copy manually.", true)
		return
	}
	s.toast(title, desc, false)
}

func (s *Synchronizer) open(url, kind string) {
	if url == "" {
		s.toast("No LinkedIn URL", kind+" LinkedIn URL is not provided.", true)
		return
	}
	if s.browser == nil {
		return
	}
	if err := s.browser.Open(url); err != nil {
		s.cfg.Logger.Printf("[tracker] open %s failed: %v", url, err)
	}
}

func (s *Synchronizer) actionFailed(what string, err error) {
	if errors.Is(err, context.Canceled) && s.isClosed() {
		return
	}
	s.cfg.Logger.Printf("[tracker] %s failed: %v", what, err)
	s.toast("Error", fmt.Sprintf("Failed to %s: %v", what, err), true)
}
