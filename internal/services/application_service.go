package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/justsurfingit/outreach-tracker/internal/database"
	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/justsurfingit/outreach-tracker/internal/models"
)

var (
	ErrNotFound     = database.ErrNotFound
	ErrInvalidField = errors.New("invalid field")
	ErrInvalidValue = errors.New("invalid value")
)

// Placeholder values for fields a create request leaves empty.
const (
	DefaultCompanyName    = "New Company"
	DefaultJobTitle       = "New Position"
	DefaultJobDescription = "Job description to be added"
)

// ApplicationStore is the persistence the services need. It is satisfied by
// *database.ApplicationRepository.
type ApplicationStore interface {
	List(ctx context.Context, userID string) ([]models.Application, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	Create(ctx context.Context, app *models.Application) error
	UpdateColumn(ctx context.Context, id, column string, value any) error
	ReplaceFounders(ctx context.Context, id string, founders []models.Founder) error
	Delete(ctx context.Context, id string) error
}

// Editable scalar fields, keyed by their JSON name.
var columns = map[string]string{
	"companyName":     "company_name",
	"jobTitle":        "job_title",
	"jobDescription":  "job_description",
	"companyLinkedIn": "company_linked_in",
	"dateApplied":     "date_applied",
	"status":          "status",
	"comments":        "comments",
}

// Single-founder field names from the older record shape; they edit founders[0].
var legacyFounderFields = map[string]bool{
	"founderName":     true,
	"founderEmail":    true,
	"founderLinkedIn": true,
}

type ApplicationService struct {
	Store ApplicationStore
	Now   func() time.Time
}

func NewApplicationService(store ApplicationStore) *ApplicationService {
	return &ApplicationService{Store: store, Now: time.Now}
}

func (s *ApplicationService) List(ctx context.Context, userID string) ([]models.Application, error) {
	apps, err := s.Store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func (s *ApplicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	return s.Store.Get(ctx, id)
}

// Create stores a new application, filling placeholders for missing values.
func (s *ApplicationService) Create(ctx context.Context, req *dtos.ApplicationCreationRequest) (*models.Application, error) {
	date, err := models.NormalizeDate(req.DateApplied, s.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: dateApplied %q", ErrInvalidValue, req.DateApplied)
	}

	status := req.Status
	if status == "" {
		status = models.StatusApplied
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidValue, status)
	}

	app := &models.Application{
		UserID:          req.UserID,
		CompanyName:     orDefault(req.CompanyName, DefaultCompanyName),
		JobTitle:        orDefault(req.JobTitle, DefaultJobTitle),
		JobDescription:  orDefault(req.JobDescription, DefaultJobDescription),
		CompanyLinkedIn: req.CompanyLinkedIn,
		DateApplied:     date,
		Status:          status,
		Comments:        req.Comments,
		Founders:        req.Founders,
	}
	if app.Founders == nil {
		app.Founders = []models.Founder{}
	}
	if err := s.Store.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateField applies a partial update. The body must name exactly one field.
func (s *ApplicationService) UpdateField(ctx context.Context, id string, body map[string]json.RawMessage) error {
	if len(body) != 1 {
		return fmt.Errorf("%w: expected exactly one field, got %d", ErrInvalidField, len(body))
	}
	for field, raw := range body {
		return s.updateOne(ctx, id, field, raw)
	}
	return nil
}

func (s *ApplicationService) updateOne(ctx context.Context, id, field string, raw json.RawMessage) error {
	if field == "founders" {
		var founders []models.Founder
		if err := json.Unmarshal(raw, &founders); err != nil {
			return fmt.Errorf("%w: founders must be a list: %v", ErrInvalidValue, err)
		}
		return s.Store.ReplaceFounders(ctx, id, founders)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("%w: %s must be a string", ErrInvalidValue, field)
	}

	if legacyFounderFields[field] {
		return s.updatePrimaryFounder(ctx, id, field, value)
	}

	column, ok := columns[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	switch field {
	case "status":
		if !models.Status(value).Valid() {
			return fmt.Errorf("%w: status %q", ErrInvalidValue, value)
		}
	case "dateApplied":
		date, err := models.NormalizeDate(value, s.Now())
		if err != nil {
			return fmt.Errorf("%w: dateApplied %q", ErrInvalidValue, value)
		}
		value = date
	}
	return s.Store.UpdateColumn(ctx, id, column, value)
}

func (s *ApplicationService) updatePrimaryFounder(ctx context.Context, id, field, value string) error {
	app, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	founders := append([]models.Founder(nil), app.Founders...)
	if len(founders) == 0 {
		founders = append(founders, models.Founder{})
	}
	switch field {
	case "founderName":
		founders[0].Name = value
	case "founderEmail":
		founders[0].Email = value
	case "founderLinkedIn":
		founders[0].LinkedIn = value
	}
	return s.Store.ReplaceFounders(ctx, id, founders)
}

// SetStatus is used by actions that move an application along.
func (s *ApplicationService) SetStatus(ctx context.Context, id string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, status)
	}
	return s.Store.UpdateColumn(ctx, id, columns["status"], string(status))
}

func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
