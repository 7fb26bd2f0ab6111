// Package gemini implements the study assistant on top of Google's Gemini
// API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/stackly/stackly-api/internal/assistant"
	"github.com/stackly/stackly-api/internal/config"
	"github.com/stackly/stackly-api/internal/domain"
)

// promptTemplate frames the learner's question for the model. When a theme
// is supplied the model is told to scope its answer to it.
const promptTemplate = `You are a study assistant for a learning platform.
Answer the learner's question clearly and concisely, in plain text.
{{if .Theme}}The learner is currently studying the theme "{{.Theme.Name}}" ({{.Theme.Level}} level). Scope your answer to that subject.{{end}}

Question: {{.Question}}`

// quizPromptTemplate asks the model for one challenge question, as JSON so
// the response can be parsed mechanically.
const quizPromptTemplate = `You are a study assistant for a learning platform.
Write one challenge question about the theme "{{.Theme.Name}}", pitched at {{.Theme.Level}} level.
{{if .Theme.Description}}Theme description: {{.Theme.Description}}{{end}}
Respond with only a JSON object of the form {"question": "..."} and no other text.`

// gradePromptTemplate asks the model to assess an answer. The theme's point
// value bounds the score.
const gradePromptTemplate = `You are a study assistant grading a learner's answer.
Theme: "{{.Theme.Name}}" ({{.Theme.Level}} level, worth {{.Theme.Points}} points).
Question: {{.Question}}
Learner's answer: {{.Answer}}
Decide whether the answer is correct and award between 0 and {{.Theme.Points}} points.
An incorrect answer gets 0 points.
Respond with only a JSON object of the form {"correct": true, "points": 0, "feedback": "..."} and no other text.`

// promptData carries the template inputs.
type promptData struct {
	Question string
	Answer   string
	Theme    *domain.Theme
}

// Tutor implements assistant.Assistant using the Gemini API.
type Tutor struct {
	logger        *slog.Logger
	config        config.AssistantConfig
	client        *genai.Client
	model         string
	template      *template.Template
	quizTemplate  *template.Template
	gradeTemplate *template.Template
}

// NewTutor creates a Tutor from the assistant configuration. The API key
// and model name must be set.
func NewTutor(ctx context.Context, logger *slog.Logger, cfg config.AssistantConfig) (*Tutor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", assistant.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", assistant.ErrInvalidConfig)
	}

	tmpl, err := template.New("tutor").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", assistant.ErrInvalidConfig, err)
	}
	quizTmpl, err := template.New("quiz").Parse(quizPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse quiz template: %v", assistant.ErrInvalidConfig, err)
	}
	gradeTmpl, err := template.New("grade").Parse(gradePromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse grade template: %v", assistant.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", assistant.ErrInvalidConfig, err)
	}

	return &Tutor{
		logger:        logger.With(slog.String("component", "gemini_tutor")),
		config:        cfg,
		client:        client,
		model:         cfg.ModelName,
		template:      tmpl,
		quizTemplate:  quizTmpl,
		gradeTemplate: gradeTmpl,
	}, nil
}

// Ask implements assistant.Assistant.
func (t *Tutor) Ask(ctx context.Context, question string, theme *domain.Theme) (string, error) {
	prompt, err := t.buildPrompt(question, theme)
	if err != nil {
		return "", err
	}
	return t.callWithRetry(ctx, prompt)
}

// GenerateQuiz implements assistant.Assistant.
func (t *Tutor) GenerateQuiz(ctx context.Context, theme *domain.Theme) (*assistant.Quiz, error) {
	if theme == nil {
		return nil, assistant.ErrThemeRequired
	}

	var buf bytes.Buffer
	if err := t.quizTemplate.Execute(&buf, promptData{Theme: theme}); err != nil {
		return nil, fmt.Errorf("failed to execute quiz template: %w", err)
	}

	text, err := t.callWithRetry(ctx, buf.String())
	if err != nil {
		return nil, err
	}

	var quiz assistant.Quiz
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &quiz); err != nil {
		return nil, fmt.Errorf("%w: failed to parse quiz JSON: %v", assistant.ErrInvalidResponse, err)
	}
	if strings.TrimSpace(quiz.Question) == "" {
		return nil, fmt.Errorf("%w: quiz without a question", assistant.ErrInvalidResponse)
	}
	return &quiz, nil
}

// GradeAnswer implements assistant.Assistant. The model's score is clamped
// to [0, theme.Points], and incorrect answers always grade to zero.
func (t *Tutor) GradeAnswer(ctx context.Context, theme *domain.Theme, question, answer string) (*assistant.Grade, error) {
	if theme == nil {
		return nil, assistant.ErrThemeRequired
	}
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return nil, assistant.ErrEmptyQuestion
	}

	var buf bytes.Buffer
	data := promptData{Question: question, Answer: answer, Theme: theme}
	if err := t.gradeTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute grade template: %w", err)
	}

	text, err := t.callWithRetry(ctx, buf.String())
	if err != nil {
		return nil, err
	}

	var grade assistant.Grade
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &grade); err != nil {
		return nil, fmt.Errorf("%w: failed to parse grade JSON: %v", assistant.ErrInvalidResponse, err)
	}

	if !grade.Correct {
		grade.Points = 0
	}
	if grade.Points < 0 {
		grade.Points = 0
	}
	if grade.Points > theme.Points {
		grade.Points = theme.Points
	}
	return &grade, nil
}

// stripCodeFence removes a surrounding markdown code fence, which the model
// sometimes wraps JSON responses in despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func (t *Tutor) buildPrompt(question string, theme *domain.Theme) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", assistant.ErrEmptyQuestion
	}

	var buf bytes.Buffer
	if err := t.template.Execute(&buf, promptData{Question: question, Theme: theme}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff and jitter.
// Permanent errors (blocked content, malformed responses) are returned
// immediately; only transport-level failures are retried.
func (t *Tutor) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := t.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := t.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		t.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		answer, err := t.call(ctx, prompt)
		if err == nil {
			return answer, nil
		}

		if errors.Is(err, assistant.ErrContentBlocked) || errors.Is(err, assistant.ErrInvalidResponse) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				assistant.ErrTransientFailure, maxRetries, err)
		}

		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitter * float64(time.Second))

		t.logger.WarnContext(ctx, "Gemini API call failed, retrying",
			slog.String("error", err.Error()),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", assistant.ErrTransientFailure, ctx.Err())
		}
	}
}

func (t *Tutor) call(ctx context.Context, prompt string) (string, error) {
	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", assistant.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: safety finish reason", assistant.ErrContentBlocked)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("%w: empty answer", assistant.ErrInvalidResponse)
	}
	return answer, nil
}
