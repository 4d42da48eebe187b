package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/outreach-tracker/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// maxDescription bounds how much of a job description goes into a prompt.
const maxDescription = 6000

type LLMService struct {
	Client llms.Model
}

// NewLLMService builds a Gemini-backed service.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

const founderLinkedInPrompt = `
You write short, warm LinkedIn connection notes from a job applicant to a startup founder.

### RULES:
1. At most 300 characters (LinkedIn's connection note limit).
2. Address the founder by first name.
3. Mention the role and one concrete detail from the job description.
4. No hashtags, no emojis, no placeholders in brackets.
5. Output the message text only.

### CONTEXT:
Founder: %s
Company: %s
Role: %s
Job description:
%s
`

const companyLinkedInPrompt = `
You write a concise LinkedIn message from a job applicant to a company's page or recruiting team.

### RULES:
1. At most 600 characters.
2. State the role applied for and why the company is interesting.
3. No hashtags, no emojis, no placeholders in brackets.
4. Output the message text only.

### CONTEXT:
Company: %s
Role: %s
Job description:
%s
`

const founderEmailPrompt = `
You draft a brief cold email from a job applicant to the founder(s) of a startup after applying.

### RULES:
1. Subject under 70 characters.
2. Body under 150 words, plain text, signed "Best regards".
3. Reference the role and one concrete detail from the job description.
4. No placeholders in brackets.

### OUTPUT SCHEMA (valid JSON only, no markdown):
{"subject": "...", "body": "..."}

### CONTEXT:
Founder(s): %s
Company: %s
Role: %s
Applied on: %s
Job description:
%s
`

const followUpPrompt = `
You write a polite follow-up message from a job applicant who has not heard back yet.

### RULES:
1. Channel: %s. Keep it under %d characters.
2. Remind them of the role and the application date.
3. No hashtags, no emojis, no placeholders in brackets.
4. Output the message text only.

### CONTEXT:
Recipient: %s
Company: %s
Role: %s
Applied on: %s
Notes: %s
`

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (s *LLMService) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", err
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", fmt.Errorf("model returned an empty message")
	}
	return resp, nil
}

func (s *LLMService) FounderLinkedInMessage(ctx context.Context, app *models.Application, founder models.Founder) (string, error) {
	name := founder.Name
	if name == "" {
		name = "the founder"
	}
	prompt := fmt.Sprintf(founderLinkedInPrompt, name, app.CompanyName, app.JobTitle, truncate(app.JobDescription, maxDescription))
	return s.generate(ctx, prompt)
}

func (s *LLMService) CompanyLinkedInMessage(ctx context.Context, app *models.Application) (string, error) {
	prompt := fmt.Sprintf(companyLinkedInPrompt, app.CompanyName, app.JobTitle, truncate(app.JobDescription, maxDescription))
	return s.generate(ctx, prompt)
}

// EmailDraft is a generated email before it is addressed.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (s *LLMService) FounderEmail(ctx context.Context, app *models.Application) (*EmailDraft, error) {
	names := make([]string, 0, len(app.Founders))
	for _, f := range app.Founders {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	prompt := fmt.Sprintf(founderEmailPrompt,
		strings.Join(names, ", "), app.CompanyName, app.JobTitle, app.DateApplied,
		truncate(app.JobDescription, maxDescription))

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var draft EmailDraft
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &draft); err != nil {
		return nil, fmt.Errorf("could not parse email draft: %w", err)
	}
	if draft.Subject == "" || draft.Body == "" {
		return nil, fmt.Errorf("email draft is missing subject or body")
	}
	return &draft, nil
}

// FollowUpMessage drafts a follow-up for the given target channel.
func (s *LLMService) FollowUpMessage(ctx context.Context, app *models.Application, target string) (string, error) {
	channel, limit, recipient := "email", 1200, strings.Join(app.FounderEmails(), ", ")
	switch target {
	case "founder-linkedin":
		channel, limit, recipient = "LinkedIn direct message", 300, app.PrimaryFounder().Name
	case "company-linkedin":
		channel, limit, recipient = "LinkedIn message to the company", 600, app.CompanyName
	}
	prompt := fmt.Sprintf(followUpPrompt, channel, limit, recipient,
		app.CompanyName, app.JobTitle, app.DateApplied, app.Comments)
	return s.generate(ctx, prompt)
}

// stripCodeFence removes a ```json ... ``` wrapper some models add anyway.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
