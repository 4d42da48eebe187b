package dtos

import "github.com/justsurfingit/outreach-tracker/internal/models"

// Action names accepted by PATCH /applications/:id.
const (
	ActionSendEmail       = "send-email"
	ActionFounderLinkedIn = "founder-linkedin"
	ActionCompanyLinkedIn = "company-linkedin"
	ActionFollowUp        = "follow-up"
)

// Follow-up targets.
const (
	TargetEmail           = "email"
	TargetFounderLinkedIn = "founder-linkedin"
	TargetCompanyLinkedIn = "company-linkedin"
)

type ApplicationCreationRequest struct {
	UserID          string           `json:"userId"`
	CompanyName     string           `json:"companyName"`
	JobTitle        string           `json:"jobTitle"`
	JobDescription  string           `json:"jobDescription"`
	Founders        []models.Founder `json:"founders"`
	CompanyLinkedIn string           `json:"companyLinkedIn"`
	DateApplied     string           `json:"dateApplied"`
	Status          models.Status    `json:"status,omitempty"`
	Comments        string           `json:"comments"`
}

type ActionRequest struct {
	Action string `json:"action" binding:"required,oneof=send-email founder-linkedin company-linkedin follow-up"`
	Target string `json:"target,omitempty"`
}

// FounderMessage is one generated message in a multi-founder response.
type FounderMessage struct {
	Name     string `json:"name"`
	Message  string `json:"message"`
	LinkedIn string `json:"linkedIn,omitempty"`
}

type ListResponse struct {
	Success      bool                 `json:"success"`
	Applications []models.Application `json:"applications"`
	Error        string               `json:"error,omitempty"`
}

type ApplicationResponse struct {
	Success     bool                `json:"success"`
	Application *models.Application `json:"application,omitempty"`
	Error       string              `json:"error,omitempty"`
}

type ActionResponse struct {
	Success       bool             `json:"success"`
	Content       string           `json:"content,omitempty"`
	Details       []FounderMessage `json:"details,omitempty"`
	StatusUpdated bool             `json:"statusUpdated,omitempty"`
	Message       string           `json:"message,omitempty"`
	To            string           `json:"to,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// StatusResponse covers PUT and DELETE replies and every failure body.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
