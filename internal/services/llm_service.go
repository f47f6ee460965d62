package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/justsurfingit/ejobs/internal/dtos"
)

const (
	defaultModel   = "gemini-2.5-flash"
	maxPromptInput = 20000
)

const jobPostExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data for a job board.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Extract** the following fields strictly.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company_name": "Name of the company (e.g., Google, StartupInc)",
    "role_title": "Job title (e.g., Senior Backend Engineer)",
    "location": "Job location or 'Remote'",
    "description": "A clean summary of the job and its responsibilities. Remove HTML tags.",
    "requirements": "The candidate requirements as plain text",
    "benefits": "The benefits offered as plain text, or null",
    "tech_stack": ["Array", "of", "technologies", "mentioned", "e.g., Go, React, AWS"],
    "salary_min": 100000 (lower salary bound as a plain JSON number, or null),
    "salary_max": 150000 (upper salary bound as a plain JSON number, or null)
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// LLMService drafts job posts from raw posting pages. A service without a
// client reports ErrLLMUnavailable.
type LLMService struct {
	Client llms.Model
	Log    *slog.Logger
}

// NewLLMService builds a Gemini-backed service. An empty apiKey yields a
// service with no client.
func NewLLMService(ctx context.Context, apiKey string, log *slog.Logger) (*LLMService, error) {
	if apiKey == "" {
		log.Warn("GEMINI_API_KEY is empty, job post extraction is disabled")
		return &LLMService{Log: log}, nil
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(defaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &LLMService{Client: llm, Log: log}, nil
}

// Available reports whether extraction is configured.
func (s *LLMService) Available() bool {
	return s != nil && s.Client != nil
}

// ExtractJobPost asks the model for a structured draft of the posting in
// rawHTML.
func (s *LLMService) ExtractJobPost(ctx context.Context, rawHTML string) (*dtos.JobPostDraft, error) {
	if !s.Available() {
		return nil, ErrLLMUnavailable
	}
	if len(rawHTML) > maxPromptInput {
		rawHTML = rawHTML[:maxPromptInput]
	}

	prompt := fmt.Sprintf(jobPostExtractionPrompt, rawHTML)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: generate draft: %w", ErrLLMBadResponse, err)
	}

	var draft dtos.JobPostDraft
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &draft); err != nil {
		s.Log.Warn("model returned malformed draft", "error", err, "raw", truncate(resp, 200))
		return nil, fmt.Errorf("%w: decode draft: %w", ErrLLMBadResponse, err)
	}
	return &draft, nil
}

// stripCodeFence removes a ```json ... ``` wrapper the model sometimes adds
// despite the instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
