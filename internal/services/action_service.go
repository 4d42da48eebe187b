package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/justsurfingit/outreach-tracker/internal/models"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	// ErrUpstream wraps failures of the LLM or the mail provider.
	ErrUpstream = errors.New("upstream failure")
)

// MessageGenerator drafts outreach text. *LLMService implements it.
type MessageGenerator interface {
	FounderLinkedInMessage(ctx context.Context, app *models.Application, founder models.Founder) (string, error)
	CompanyLinkedInMessage(ctx context.Context, app *models.Application) (string, error)
	FounderEmail(ctx context.Context, app *models.Application) (*EmailDraft, error)
	FollowUpMessage(ctx context.Context, app *models.Application, target string) (string, error)
}

type ActionService struct {
	Applications *ApplicationService
	Generator    MessageGenerator
	Mailer       Mailer
}

func NewActionService(apps *ApplicationService, gen MessageGenerator, mailer Mailer) *ActionService {
	return &ActionService{Applications: apps, Generator: gen, Mailer: mailer}
}

// Perform runs a side-effecting action against one application.
func (s *ActionService) Perform(ctx context.Context, id string, req dtos.ActionRequest) (*dtos.ActionResponse, error) {
	app, err := s.Applications.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Printf("[action] %s (target=%q) for %s / %s", req.Action, req.Target, app.ID, app.CompanyName)

	switch req.Action {
	case dtos.ActionSendEmail:
		return s.sendEmail(ctx, app)
	case dtos.ActionFounderLinkedIn:
		return s.founderLinkedIn(ctx, app)
	case dtos.ActionCompanyLinkedIn:
		return s.companyLinkedIn(ctx, app)
	case dtos.ActionFollowUp:
		return s.followUp(ctx, app, req.Target)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
}

func (s *ActionService) sendEmail(ctx context.Context, app *models.Application) (*dtos.ActionResponse, error) {
	to := app.FounderEmails()
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: no founder email on record", ErrInvalidValue)
	}
	draft, err := s.Generator.FounderEmail(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("%w: drafting email: %v", ErrUpstream, err)
	}
	if err := s.Mailer.Send(ctx, Email{To: to, Subject: draft.Subject, Body: draft.Body}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	recipients := strings.Join(to, ", ")
	return &dtos.ActionResponse{
		Success: true,
		To:      recipients,
		Message: "Email sent to " + recipients,
	}, nil
}

func (s *ActionService) founderLinkedIn(ctx context.Context, app *models.Application) (*dtos.ActionResponse, error) {
	if len(app.Founders) == 0 {
		return nil, fmt.Errorf("%w: no founders on record", ErrInvalidValue)
	}
	details := make([]dtos.FounderMessage, 0, len(app.Founders))
	for _, f := range app.Founders {
		msg, err := s.Generator.FounderLinkedInMessage(ctx, app, f)
		if err != nil {
			return nil, fmt.Errorf("%w: generating message for %s: %v", ErrUpstream, f.Name, err)
		}
		details = append(details, dtos.FounderMessage{Name: f.Name, Message: msg, LinkedIn: f.LinkedIn})
	}
	return &dtos.ActionResponse{
		Success: true,
		Content: details[0].Message,
		Details: details,
		Message: fmt.Sprintf("Generated %d founder LinkedIn message(s)", len(details)),
	}, nil
}

func (s *ActionService) companyLinkedIn(ctx context.Context, app *models.Application) (*dtos.ActionResponse, error) {
	msg, err := s.Generator.CompanyLinkedInMessage(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return &dtos.ActionResponse{
		Success: true,
		Content: msg,
		Message: "Company LinkedIn message generated",
	}, nil
}

func (s *ActionService) followUp(ctx context.Context, app *models.Application, target string) (*dtos.ActionResponse, error) {
	switch target {
	case dtos.TargetEmail, dtos.TargetFounderLinkedIn, dtos.TargetCompanyLinkedIn:
	default:
		return nil, fmt.Errorf("%w: follow-up target %q", ErrUnknownAction, target)
	}

	var to []string
	if target == dtos.TargetEmail {
		if to = app.FounderEmails(); len(to) == 0 {
			return nil, fmt.Errorf("%w: no founder email on record", ErrInvalidValue)
		}
	}

	msg, err := s.Generator.FollowUpMessage(ctx, app, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp := &dtos.ActionResponse{Success: true}
	if target == dtos.TargetEmail {
		subject := fmt.Sprintf("Following up on my %s application", app.JobTitle)
		if err := s.Mailer.Send(ctx, Email{To: to, Subject: subject, Body: msg}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		resp.To = strings.Join(to, ", ")
		resp.Message = "Follow-up email sent to " + resp.To
	} else {
		resp.Content = msg
		resp.Message = "Follow-up message generated"
	}

	if err := s.Applications.SetStatus(ctx, app.ID, models.StatusFollowUpPending); err != nil {
		log.Printf("[action] follow-up for %s done but status update failed: %v", app.ID, err)
		return resp, nil
	}
	resp.StatusUpdated = true
	return resp, nil
}
