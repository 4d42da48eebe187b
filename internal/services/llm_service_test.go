package services

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/justsurfingit/outreach-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleApp = &models.Application{
	ID:             "a1",
	CompanyName:    "Acme",
	JobTitle:       "Backend Engineer",
	JobDescription: "Build Go services.",
	DateApplied:    "2024-03-01",
	Founders:       []models.Founder{{Name: "Ada Lovelace", Email: "ada@acme.test"}},
}

func TestLLMService_FounderLinkedInMessage(t *testing.T) {
	model := &fakeModel{reply: "  Hi Ada, loved the role.  "}
	svc := &LLMService{Client: model}

	msg, err := svc.FounderLinkedInMessage(context.Background(), sampleApp, sampleApp.Founders[0])
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada, loved the role.", msg)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Founder: Ada Lovelace")
	assert.Contains(t, model.prompts[0], "Role: Backend Engineer")
}

func TestLLMService_EmptyReply(t *testing.T) {
	svc := &LLMService{Client: &fakeModel{reply: "   "}}

	_, err := svc.CompanyLinkedInMessage(context.Background(), sampleApp)
	assert.Error(t, err)
}

func TestLLMService_ModelError(t *testing.T) {
	svc := &LLMService{Client: &fakeModel{err: errors.New("rate limited")}}

	_, err := svc.CompanyLinkedInMessage(context.Background(), sampleApp)
	assert.ErrorContains(t, err, "rate limited")
}

func TestLLMService_FounderEmail(t *testing.T) {
	t.Run("parses fenced JSON", func(t *testing.T) {
		svc := &LLMService{Client: &fakeModel{reply: "```json\n{\"subject\": \"Hi\", \"body\": \"Hello Ada\"}\n```"}}

		draft, err := svc.FounderEmail(context.Background(), sampleApp)
		require.NoError(t, err)
		assert.Equal(t, &EmailDraft{Subject: "Hi", Body: "Hello Ada"}, draft)
	})

	t.Run("rejects incomplete drafts", func(t *testing.T) {
		svc := &LLMService{Client: &fakeModel{reply: `{"subject": "Hi"}`}}

		_, err := svc.FounderEmail(context.Background(), sampleApp)
		assert.Error(t, err)
	})

	t.Run("rejects prose", func(t *testing.T) {
		svc := &LLMService{Client: &fakeModel{reply: "Dear Ada, ..."}}

		_, err := svc.FounderEmail(context.Background(), sampleApp)
		assert.Error(t, err)
	})
}

func TestLLMService_FollowUpMessage(t *testing.T) {
	model := &fakeModel{reply: "Checking in"}
	svc := &LLMService{Client: model}

	_, err := svc.FollowUpMessage(context.Background(), sampleApp, "founder-linkedin")
	require.NoError(t, err)
	assert.Contains(t, model.prompts[0], "Channel: LinkedIn direct message")
	assert.Contains(t, model.prompts[0], "under 300 characters")

	_, err = svc.FollowUpMessage(context.Background(), sampleApp, "email")
	require.NoError(t, err)
	assert.Contains(t, model.prompts[1], "Recipient: ada@acme.test")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "h", truncate("héllo", 2))
	assert.Equal(t, "hé", truncate("héllo", 3))

	cut := truncate("日本語のテキスト", 10)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "日本語", cut)
}
