package refinement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/promptoid/promptoid-api/internal/platform/logger"
	"github.com/promptoid/promptoid-api/internal/redact"
)

// Source tells the caller where a result came from.
type Source string

const (
	// SourceGenerated means the result was produced by the model.
	SourceGenerated Source = "generated"
	// SourceFallback means the model failed and fixed content was substituted.
	SourceFallback Source = "fallback"
	// SourceLocal means no provider is configured.
	SourceLocal Source = "local"
	// SourcePadded means the model returned too few suggestions and the set
	// was completed with generic hints.
	SourcePadded Source = "padded"
)

// RefinementRequest is the input to RefinePrompt.
type RefinementRequest struct {
	OriginalPrompt string
	Answers        Answers
}

// RefinementResult is a successful refinement.
type RefinementResult struct {
	RefinedPrompt string
	Source        Source
}

// QuestionsResult always holds exactly QuestionCount questions.
// FallbackReason is set when Source is SourceFallback.
type QuestionsResult struct {
	Questions      []Question
	Source         Source
	FallbackReason ErrorKind
}

// SuggestionsResult holds at most SuggestionCount suggestions.
// FallbackReason is set when Source is SourceFallback or SourcePadded.
type SuggestionsResult struct {
	Suggestions    []string
	Source         Source
	FallbackReason ErrorKind
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables caching of generated question and suggestion sets, keyed
// by prompt text.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithMetrics enables metric collection.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service is the entry point of the refinement pipeline. It is safe for
// concurrent use.
type Service struct {
	provider Provider
	cache    *cache.Cache
	metrics  *Metrics
	logger   *slog.Logger
}

// NewService creates a Service. A nil provider puts the service in local
// mode: no network calls are made and placeholder content is returned.
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Live reports whether a provider is configured.
func (s *Service) Live() bool {
	return s.provider != nil
}

// RefinePrompt rewrites req.OriginalPrompt into a more detailed prompt.
// Provider failures are returned as *RefinementError.
func (s *Service) RefinePrompt(ctx context.Context, req RefinementRequest) (RefinementResult, error) {
	if s.provider == nil {
		return RefinementResult{
			RefinedPrompt: LocalRefinement(req.OriginalPrompt),
			Source:        SourceLocal,
		}, nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	instruction := BuildRefinementPrompt(req.OriginalPrompt, req.Answers)

	start := time.Now()
	text, err := s.provider.Generate(ctx, instruction)
	if err == nil && strings.TrimSpace(text) == "" {
		err = NewProviderError(KindUpstreamBadResponse, 0, "invalid response: empty refinement", nil)
	}
	s.metrics.observeCall(OperationRefine, start, err)

	if err != nil {
		classification := Classify(err)
		log.WarnContext(ctx, "prompt refinement failed",
			slog.String("kind", string(classification.Kind)),
			slog.Int("answers", len(req.Answers)),
			slog.String("error", redact.Error(err)))
		return RefinementResult{}, &RefinementError{
			Classification: classification,
			OriginalPrompt: req.OriginalPrompt,
			Err:            err,
		}
	}

	log.DebugContext(ctx, "prompt refined",
		slog.Duration("duration", time.Since(start)),
		slog.Int("answers", len(req.Answers)))

	return RefinementResult{
		RefinedPrompt: strings.TrimSpace(text),
		Source:        SourceGenerated,
	}, nil
}

// GetQuestions returns clarifying questions for userPrompt. It never fails:
// provider errors and unusable output yield the fixed fallback set.
func (s *Service) GetQuestions(ctx context.Context, userPrompt string) QuestionsResult {
	if s.provider == nil {
		return QuestionsResult{Questions: FallbackQuestions(), Source: SourceLocal}
	}

	key := cacheKey(OperationQuestions, userPrompt)
	if cached, ok := s.lookup(key); ok {
		s.metrics.cacheHit(OperationQuestions)
		return QuestionsResult{
			Questions: cloneQuestions(cached.([]Question)),
			Source:    SourceGenerated,
		}
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	start := time.Now()
	raw, err := s.provider.GenerateStructured(ctx, BuildQuestionsPrompt(userPrompt))
	s.metrics.observeCall(OperationQuestions, start, err)
	if err != nil {
		return s.questionsFallback(ctx, log, Classify(err).Kind, err)
	}

	questions, err := ParseQuestions(raw)
	if err != nil {
		return s.questionsFallback(ctx, log, KindMalformedResponse, err)
	}

	s.store(key, cloneQuestions(questions))
	return QuestionsResult{Questions: questions, Source: SourceGenerated}
}

func (s *Service) questionsFallback(ctx context.Context, log *slog.Logger, reason ErrorKind, err error) QuestionsResult {
	log.WarnContext(ctx, "using fallback questions",
		slog.String("reason", string(reason)),
		slog.String("error", redact.Error(err)))
	s.metrics.fallback(OperationQuestions, reason)
	return QuestionsResult{
		Questions:      FallbackQuestions(),
		Source:         SourceFallback,
		FallbackReason: reason,
	}
}

// GetSuggestions returns up to three alternative phrasings of userPrompt.
// It never fails: provider errors and output with no numbered lines yield
// generic improvement hints, and short lists are padded with them.
func (s *Service) GetSuggestions(ctx context.Context, userPrompt string) SuggestionsResult {
	if s.provider == nil {
		return SuggestionsResult{Suggestions: LocalSuggestions(userPrompt), Source: SourceLocal}
	}

	key := cacheKey(OperationSuggestions, userPrompt)
	if cached, ok := s.lookup(key); ok {
		s.metrics.cacheHit(OperationSuggestions)
		return SuggestionsResult{
			Suggestions: append([]string(nil), cached.([]string)...),
			Source:      SourceGenerated,
		}
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	start := time.Now()
	text, err := s.provider.Generate(ctx, BuildSuggestionsPrompt(userPrompt))
	s.metrics.observeCall(OperationSuggestions, start, err)
	if err != nil {
		return s.suggestionsFallback(ctx, log, Classify(err).Kind, err)
	}

	suggestions := ParseSuggestions(text)
	switch {
	case len(suggestions) == 0:
		return s.suggestionsFallback(ctx, log, KindMalformedResponse,
			fmt.Errorf("%w: no numbered suggestions in output", ErrMalformedResponse))
	case len(suggestions) < SuggestionCount:
		log.WarnContext(ctx, "padding short suggestion list",
			slog.Int("parsed", len(suggestions)))
		s.metrics.fallback(OperationSuggestions, KindMalformedResponse)
		return SuggestionsResult{
			Suggestions:    padSuggestions(suggestions),
			Source:         SourcePadded,
			FallbackReason: KindMalformedResponse,
		}
	}

	s.store(key, append([]string(nil), suggestions...))
	return SuggestionsResult{Suggestions: suggestions, Source: SourceGenerated}
}

func (s *Service) suggestionsFallback(ctx context.Context, log *slog.Logger, reason ErrorKind, err error) SuggestionsResult {
	log.WarnContext(ctx, "using fallback suggestions",
		slog.String("reason", string(reason)),
		slog.String("error", redact.Error(err)))
	s.metrics.fallback(OperationSuggestions, reason)
	return SuggestionsResult{
		Suggestions:    FallbackSuggestions(),
		Source:         SourceFallback,
		FallbackReason: reason,
	}
}

func (s *Service) lookup(key string) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *Service) store(key string, value interface{}) {
	if s.cache == nil {
		return
	}
	s.cache.Set(key, value, cache.DefaultExpiration)
}

func cacheKey(operation, prompt string) string {
	return operation + ":" + strings.TrimSpace(prompt)
}

func cloneQuestions(in []Question) []Question {
	out := make([]Question, len(in))
	for i, q := range in {
		out[i] = Question{
			Question: q.Question,
			Options:  append([]string(nil), q.Options...),
		}
	}
	return out
}
