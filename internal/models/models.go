package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the lifecycle stage of an application.
type Status string

const (
	StatusApplied          Status = "Applied"
	StatusInterviewing     Status = "Interviewing"
	StatusOffer            Status = "Offer"
	StatusRejected         Status = "Rejected"
	StatusFollowUpPending  Status = "Follow-up Pending"
	StatusAwaitingResponse Status = "Awaiting Response"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{
	StatusApplied,
	StatusInterviewing,
	StatusOffer,
	StatusRejected,
	StatusFollowUpPending,
	StatusAwaitingResponse,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// DateLayout is the wire format of dateApplied.
const DateLayout = "2006-01-02"

type Application struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID          string `gorm:"index" json:"userId"`
	CompanyName     string `json:"companyName"`
	JobTitle        string `json:"jobTitle"`
	JobDescription  string `gorm:"type:text" json:"jobDescription"`
	CompanyLinkedIn string `json:"companyLinkedIn"`
	DateApplied     string `gorm:"type:varchar(10)" json:"dateApplied"`
	Status          Status `gorm:"default:'Applied'" json:"status,omitempty"`
	Comments        string `gorm:"type:text" json:"comments"`

	// A single founder is simply a list of length one.
	Founders []Founder `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"founders"`
}

// BeforeCreate assigns the identifier when the caller left it empty.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type Founder struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	ApplicationID string `gorm:"index;type:varchar(36)" json:"-"`
	Position      int    `json:"-"`

	Name     string `json:"name"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedIn"`
}

// PrimaryFounder returns the first founder, or a zero value when there is none.
func (a *Application) PrimaryFounder() Founder {
	if len(a.Founders) == 0 {
		return Founder{}
	}
	return a.Founders[0]
}

// FounderEmails returns the non-empty founder addresses in order.
func (a *Application) FounderEmails() []string {
	var out []string
	for _, f := range a.Founders {
		if f.Email != "" {
			out = append(out, f.Email)
		}
	}
	return out
}

// IsWeekOld reports whether dateApplied is 7 or more calendar days away from
// the calendar date of now.
func (a *Application) IsWeekOld(now time.Time) bool {
	applied, err := time.Parse(DateLayout, a.DateApplied)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(applied).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days >= 7
}

// NormalizeDate turns a date or RFC3339 timestamp into YYYY-MM-DD.
// Empty input yields today's date.
func NormalizeDate(raw string, now time.Time) (string, error) {
	if raw == "" {
		return now.Format(DateLayout), nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(DateLayout), nil
}
