/*
Package analytics answers free-text business questions with a text model.

PURPOSE:
  Sends the shop owner's question together with the current catalog, sales
  and purchases to a text-generation model and returns its answer.

OUTCOMES:
  Ask never returns an error. Callers get one of three outcomes:
  - Answered: the model's text
  - NotConfigured: fixed message, no API key was provided
  - UpstreamFailure: fixed message, the call failed or timed out

ISOLATION:
  Works on a ledger.Snapshot taken before the call. The model call never
  holds a ledger lock and cannot change ledger state.
*/
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"text/template"
	"time"

	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/telemetry"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

// Fixed texts returned when no model answer is available.
const (
	NotConfiguredText   = "Error: the Gemini API key is not configured. Please set the PERFUMERIA_GEMINI_API_KEY environment variable."
	UpstreamFailureText = "There was an error contacting the AI service. Please try again later."
)

type Outcome string

const (
	OutcomeAnswered        Outcome = "answered"
	OutcomeNotConfigured   Outcome = "not_configured"
	OutcomeUpstreamFailure Outcome = "upstream_failure"
)

type Answer struct {
	Outcome Outcome `json:"outcome"`
	Text    string  `json:"text"`
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var errEmptyAnswer = errors.New("model returned no text")

type Service struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
}

// NewService builds the service. A nil gen means no API key was configured.
func NewService(gen Generator, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{gen: gen, timeout: timeout, logger: telemetry.OrNop(logger)}
}

// Configured reports whether a generator is wired in.
func (s *Service) Configured() bool { return s.gen != nil }

// Ask builds the prompt from snap and asks the model, bounded by the
// service timeout and by ctx.
func (s *Service) Ask(ctx context.Context, query string, snap ledger.Snapshot) Answer {
	if s.gen == nil {
		telemetry.AnalyticsRequestsTotal.WithLabelValues(string(OutcomeNotConfigured)).Inc()
		return Answer{Outcome: OutcomeNotConfigured, Text: NotConfiguredText}
	}

	ctx, span := telemetry.StartSpan(ctx, "analytics.ask")
	defer span.End()

	answer, err := s.ask(ctx, query, snap)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("analytics request failed", zap.Error(err))
		telemetry.AnalyticsRequestsTotal.WithLabelValues(string(OutcomeUpstreamFailure)).Inc()
		return Answer{Outcome: OutcomeUpstreamFailure, Text: UpstreamFailureText}
	}
	telemetry.AnalyticsRequestsTotal.WithLabelValues(string(OutcomeAnswered)).Inc()
	return Answer{Outcome: OutcomeAnswered, Text: answer}
}

func (s *Service) ask(ctx context.Context, query string, snap ledger.Snapshot) (string, error) {
	prompt, err := BuildPrompt(query, snap)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)
	telemetry.AnalyticsLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if text == "" {
		return "", errEmptyAnswer
	}
	return text, nil
}

// =============================================================================
// PROMPT
// =============================================================================

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.MarshalIndent(v, "", "  ")
		return string(b), err
	},
}).Parse(`You are an expert business analyst for a perfume shop. Your job is to give clear, concise insight based on the data provided and the user's question.

Current business data:
- Product inventory: {{json .Products}}
- Sales history: {{json .Sales}}
- Purchase history: {{json .Purchases}}

User question: "{{.Query}}"

Answer the question using the data. Be direct, back your answer with figures from the data and write for a business owner. Short lists or paragraphs are fine. Answer in the language of the question.
`))

// BuildPrompt renders the prompt sent to the model.
func BuildPrompt(query string, snap ledger.Snapshot) (string, error) {
	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, struct {
		Query     string
		Products  []ledger.Product
		Sales     []ledger.Sale
		Purchases []ledger.Purchase
	}{
		Query:     query,
		Products:  nonNil(snap.Products),
		Sales:     nonNil(snap.Sales),
		Purchases: nonNil(snap.Purchases),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
