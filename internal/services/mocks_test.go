package services

import (
	"context"
	"strings"

	"github.com/justsurfingit/outreach-tracker/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/tmc/langchaingo/llms"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context, userID string) ([]models.Application, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, id string) (*models.Application, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, app *models.Application) error {
	args := m.Called(app)
	return args.Error(0)
}

func (m *MockStore) UpdateColumn(ctx context.Context, id, column string, value any) error {
	args := m.Called(id, column, value)
	return args.Error(0)
}

func (m *MockStore) ReplaceFounders(ctx context.Context, id string, founders []models.Founder) error {
	args := m.Called(id, founders)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) FounderLinkedInMessage(ctx context.Context, app *models.Application, founder models.Founder) (string, error) {
	args := m.Called(app.ID, founder.Name)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) CompanyLinkedInMessage(ctx context.Context, app *models.Application) (string, error) {
	args := m.Called(app.ID)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) FounderEmail(ctx context.Context, app *models.Application) (*EmailDraft, error) {
	args := m.Called(app.ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EmailDraft), args.Error(1)
}

func (m *MockGenerator) FollowUpMessage(ctx context.Context, app *models.Application, target string) (string, error) {
	args := m.Called(app.ID, target)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email Email) error {
	args := m.Called(email)
	return args.Error(0)
}

// fakeModel answers every prompt with a fixed reply and keeps the prompts.
type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var b strings.Builder
	for _, m := range messages {
		for _, p := range m.Parts {
			if t, ok := p.(llms.TextContent); ok {
				b.WriteString(t.Text)
			}
		}
	}
	f.prompts = append(f.prompts, b.String())
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}
