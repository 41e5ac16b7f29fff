// Package coach writes the short motivational note shown on the results
// screen. An LLM phrases it when one is configured; otherwise, or when
// the call fails, the note comes from fixed rules.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/llm"
	"github.com/skillbit/skillbit/internal/logger"
	"github.com/skillbit/skillbit/internal/results"
)

// Purpose labels coach requests in llm_events.
const Purpose = "coach"

// Source says where a Message came from.
type Source string

const (
	SourceRules Source = "rules"
	SourceLLM   Source = "llm"
)

// Message is the note shown under the results summary.
type Message struct {
	Headline string `json:"headline"`
	Tip      string `json:"tip"`
	Source   Source `json:"-"`
}

// Schema is the JSON shape requested from the model.
var Schema = &llm.Schema{
	Name:        "coach-message",
	Description: "A short encouraging note for a learner who just finished a practice session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One upbeat sentence about the result",
				"minLength":   1,
				"maxLength":   120,
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One concrete next step",
				"minLength":   1,
				"maxLength":   240,
			},
		},
		"required":             []string{"headline", "tip"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a friendly study coach. A learner finished a diagnostic quiz
and then an adaptive practice session. Write one headline and one tip.
Be specific about the numbers you are given, stay positive, and never
exceed two sentences per field.`

// Service produces coach messages.
type Service struct {
	provider  llm.Provider
	timeout   time.Duration
	maxTokens int
	log       *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each LLM call, retries included.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithLogger sets the logger used when the LLM call fails.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service. A nil provider gives a rules-only coach.
func New(provider llm.Provider, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		timeout:   30 * time.Second,
		maxTokens: 256,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = logger.OrNop(s.log)
	return s
}

// Motivate returns a message for summary. When the LLM path fails the
// rules message is returned together with the error so the caller may
// display it; the failure is logged here.
func (s *Service) Motivate(ctx context.Context, summary results.Summary) (Message, error) {
	fallback := Rules(summary)
	if s.provider == nil {
		return fallback, nil
	}

	msg, err := s.generate(ctx, summary)
	if err != nil {
		s.log.Warn("coach message fell back to rules", "error", err)
		return fallback, err
	}
	return msg, nil
}

func (s *Service) generate(ctx context.Context, summary results.Summary) (Message, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{llm.UserMessage(prompt(summary))},
		Schema:      Schema,
		MaxTokens:   s.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return Message{}, fmt.Errorf("coach generation: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(resp.Content, &msg); err != nil {
		return Message{}, fmt.Errorf("parse coach response: %w", err)
	}
	msg.Headline = strings.TrimSpace(msg.Headline)
	msg.Tip = strings.TrimSpace(msg.Tip)
	if msg.Headline == "" || msg.Tip == "" {
		return Message{}, fmt.Errorf("parse coach response: empty headline or tip")
	}
	msg.Source = SourceLLM
	return msg, nil
}

// Rules builds the deterministic message: the improvement category's
// message as headline, the score recommendation as tip.
func Rules(summary results.Summary) Message {
	return Message{
		Headline: summary.Message(),
		Tip:      diagnostic.Recommendation(summary.FinalCompetence),
		Source:   SourceRules,
	}
}

func prompt(s results.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Diagnostic score: %d\n", s.DiagnosticScore)
	fmt.Fprintf(&b, "Final competence: %d (change %+d)\n", s.FinalCompetence, s.Improvement)
	fmt.Fprintf(&b, "Accuracy: %.0f%% over %d questions\n", s.Accuracy, s.QuestionsAnswered)
	fmt.Fprintf(&b, "Finished at difficulty: %s\n", s.FinalDifficulty.Label())
	fmt.Fprintf(&b, "Questions by difficulty: easy %d, medium %d, hard %d\n",
		s.Distribution.Easy, s.Distribution.Medium, s.Distribution.Hard)
	fmt.Fprintf(&b, "Fatigue at the end: %d/100\n", s.FinalFatigue)
	return b.String()
}
