package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/studyquest/studyquest-api/internal/cache"
	"github.com/studyquest/studyquest-api/internal/domain"
)

// Default aggregate deadlines per call site. A single-topic request gets a
// larger budget than each topic of a batch, where many workflows compete
// for provider capacity.
const (
	DefaultStudyTimeout      = 30 * time.Second
	DefaultBatchTopicTimeout = 20 * time.Second
)

// NotesGenerator produces study notes for a topic.
type NotesGenerator interface {
	Generate(ctx context.Context, topic string) (*domain.StudyNotes, error)
}

// QuizGenerator produces multiple-choice questions from study material.
type QuizGenerator interface {
	GenerateFromNotes(ctx context.Context, notes *domain.StudyNotes, numQuestions int) ([]domain.QuizQuestion, error)
	GenerateFromText(ctx context.Context, text string, numQuestions int) ([]domain.QuizQuestion, error)
}

// TopicResult is the outcome of one topic inside a batch call. Exactly one
// of Package and Err is set.
type TopicResult struct {
	Topic   string               `json:"topic"`
	Package *domain.StudyPackage `json:"package,omitempty"`
	Err     error                `json:"-"`
}

// StudyService coordinates cache lookups, content generation, and cache
// population. It is safe for concurrent use; concurrent misses for the
// same cache key are collapsed into a single generation.
type StudyService struct {
	cache  *cache.ContentCache
	notes  NotesGenerator
	quiz   QuizGenerator
	logger *slog.Logger

	studyTimeout      time.Duration
	batchTopicTimeout time.Duration

	flights singleflight.Group
}

// Option configures a StudyService.
type Option func(*StudyService)

// WithStudyTimeout overrides the single-topic aggregate deadline.
func WithStudyTimeout(d time.Duration) Option {
	return func(s *StudyService) { s.studyTimeout = d }
}

// WithBatchTopicTimeout overrides the per-topic deadline inside a batch.
func WithBatchTopicTimeout(d time.Duration) Option {
	return func(s *StudyService) { s.batchTopicTimeout = d }
}

// NewStudyService creates the workflow coordinator.
func NewStudyService(
	contentCache *cache.ContentCache,
	notes NotesGenerator,
	quiz QuizGenerator,
	logger *slog.Logger,
	opts ...Option,
) (*StudyService, error) {
	if contentCache == nil {
		return nil, errors.New("content cache cannot be nil")
	}
	if notes == nil {
		return nil, errors.New("notes generator cannot be nil")
	}
	if quiz == nil {
		return nil, errors.New("quiz generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &StudyService{
		cache:             contentCache,
		notes:             notes,
		quiz:              quiz,
		logger:            logger.With(slog.String("component", "study_service")),
		studyTimeout:      DefaultStudyTimeout,
		batchTopicTimeout: DefaultBatchTopicTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StudyTopic produces a complete study package (notes plus quiz) for one
// topic. Input validation happens before any cache or generation work; a
// cache hit returns immediately with the Cached flag set; a miss generates
// notes, then a quiz from those notes, caches the assembled package, and
// returns it with the elapsed generation time.
func (s *StudyService) StudyTopic(
	ctx context.Context,
	topic string,
	numQuestions int,
	difficulty string,
) (*domain.StudyPackage, error) {
	topic, err := domain.ValidateTopic(topic)
	if err != nil {
		return nil, err
	}
	params, err := domain.NewParams(numQuestions, difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return s.studyTopic(ctx, topic, params, s.studyTimeout)
}

func (s *StudyService) studyTopic(
	ctx context.Context,
	topic string,
	params domain.Params,
	timeout time.Duration,
) (*domain.StudyPackage, error) {
	if pkg, ok := s.cachedPackage(ctx, topic, params); ok {
		return pkg, nil
	}

	key := cache.Key(topic, domain.ContentTypeStudyPackage, params)

	// Concurrent misses for one key ride the same flight so an expensive
	// generation is never duplicated. Cancelling one caller of a shared
	// flight can cancel the flight for all of them; the callers simply
	// fall back to their own error path, which is the accepted trade-off
	// for not duplicating provider spend.
	result, err, shared := s.flights.Do(key, func() (interface{}, error) {
		return s.generatePackage(ctx, topic, params, timeout)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "study package shared between concurrent callers",
			slog.String("topic", topic))
	}
	return result.(*domain.StudyPackage), nil
}

// cachedPackage attempts a cache read. Any cache failure other than a
// plain miss is logged and treated as a miss: generation must never block
// on cache availability.
func (s *StudyService) cachedPackage(
	ctx context.Context,
	topic string,
	params domain.Params,
) (*domain.StudyPackage, bool) {
	entry, err := s.cache.Get(ctx, topic, domain.ContentTypeStudyPackage, params)
	if err != nil {
		if !errors.Is(err, cache.ErrEntryNotFound) {
			s.logger.WarnContext(ctx, "cache read failed, degrading to miss",
				slog.String("topic", topic),
				slog.String("error", err.Error()))
		}
		return nil, false
	}

	var pkg domain.StudyPackage
	if err := json.Unmarshal(entry.Content, &pkg); err != nil {
		s.logger.WarnContext(ctx, "cached package is unreadable, regenerating",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return nil, false
	}

	pkg.Metadata.Cached = true
	s.logger.InfoContext(ctx, "study package served from cache",
		slog.String("topic", topic),
		slog.Int64("hit_count", entry.HitCount))
	return &pkg, true
}

// generatePackage runs the notes-then-quiz sequence under the aggregate
// deadline and caches the assembled package. The quiz depends on the
// notes, so the two generations are strictly sequential within one topic.
func (s *StudyService) generatePackage(
	ctx context.Context,
	topic string,
	params domain.Params,
	timeout time.Duration,
) (*domain.StudyPackage, error) {
	gctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	notes, err := s.notes.Generate(gctx, topic)
	if err != nil {
		return nil, s.mapDeadline(gctx, err)
	}

	quiz, err := s.quiz.GenerateFromNotes(gctx, notes, params.NumQuestions)
	if err != nil {
		return nil, s.mapDeadline(gctx, err)
	}

	pkg := &domain.StudyPackage{
		Topic: topic,
		Notes: notes,
		Quiz:  quiz,
		Metadata: domain.PackageMetadata{
			NumKeyPoints:     len(notes.KeyPoints),
			NumQuestions:     len(quiz),
			Cached:           false,
			GenerationTimeMS: time.Since(start).Milliseconds(),
		},
	}

	s.putCache(ctx, topic, domain.ContentTypeStudyPackage, params, pkg)

	s.logger.InfoContext(ctx, "study package generated",
		slog.String("topic", topic),
		slog.Int("key_points", len(notes.KeyPoints)),
		slog.Int("questions", len(quiz)),
		slog.Int64("elapsed_ms", pkg.Metadata.GenerationTimeMS))
	return pkg, nil
}

// StudyTopics fans the single-topic workflow out across all topics
// concurrently. A failing topic is captured in its result slot and never
// aborts its siblings; the returned slice preserves input order.
func (s *StudyService) StudyTopics(
	ctx context.Context,
	topics []string,
	numQuestions int,
	difficulty string,
) ([]TopicResult, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: topics cannot be empty", domain.ErrValidation)
	}
	params, err := domain.NewParams(numQuestions, difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	results := make([]TopicResult, len(topics))

	var wg sync.WaitGroup
	for i, rawTopic := range topics {
		wg.Add(1)
		go func(i int, rawTopic string) {
			defer wg.Done()

			results[i].Topic = rawTopic
			topic, err := domain.ValidateTopic(rawTopic)
			if err != nil {
				results[i].Err = err
				return
			}

			pkg, err := s.studyTopic(ctx, topic, params, s.batchTopicTimeout)
			if err != nil {
				s.logger.WarnContext(ctx, "batch topic failed",
					slog.String("topic", rawTopic),
					slog.String("error", err.Error()))
				results[i].Err = err
				return
			}
			results[i].Package = pkg
		}(i, rawTopic)
	}
	wg.Wait()

	return results, nil
}

// GenerateNotes produces study notes for a topic, cached under the notes
// content type.
func (s *StudyService) GenerateNotes(ctx context.Context, topic string) (*domain.StudyNotes, error) {
	topic, err := domain.ValidateTopic(topic)
	if err != nil {
		return nil, err
	}

	params := domain.Params{Difficulty: domain.DifficultyMedium}

	if entry, err := s.cache.Get(ctx, topic, domain.ContentTypeNotes, params); err == nil {
		var notes domain.StudyNotes
		if err := json.Unmarshal(entry.Content, &notes); err == nil {
			return &notes, nil
		}
	} else if !errors.Is(err, cache.ErrEntryNotFound) {
		s.logger.WarnContext(ctx, "cache read failed, degrading to miss",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
	}

	gctx, cancel := context.WithTimeout(ctx, s.studyTimeout)
	defer cancel()

	notes, err := s.notes.Generate(gctx, topic)
	if err != nil {
		return nil, s.mapDeadline(gctx, err)
	}

	s.putCache(ctx, topic, domain.ContentTypeNotes, params, notes)
	return notes, nil
}

// QuizFromNotes produces a quiz from existing structured notes, cached
// under the quiz content type for the notes' topic.
func (s *StudyService) QuizFromNotes(
	ctx context.Context,
	notes *domain.StudyNotes,
	numQuestions int,
	difficulty string,
) ([]domain.QuizQuestion, error) {
	if notes == nil {
		return nil, fmt.Errorf("%w: notes cannot be nil", domain.ErrValidation)
	}
	topic, err := domain.ValidateTopic(notes.Topic)
	if err != nil {
		return nil, err
	}
	if err := notes.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	params, err := domain.NewParams(numQuestions, difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if entry, err := s.cache.Get(ctx, topic, domain.ContentTypeQuiz, params); err == nil {
		var quiz []domain.QuizQuestion
		if err := json.Unmarshal(entry.Content, &quiz); err == nil {
			return quiz, nil
		}
	} else if !errors.Is(err, cache.ErrEntryNotFound) {
		s.logger.WarnContext(ctx, "cache read failed, degrading to miss",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
	}

	gctx, cancel := context.WithTimeout(ctx, s.studyTimeout)
	defer cancel()

	quiz, err := s.quiz.GenerateFromNotes(gctx, notes, params.NumQuestions)
	if err != nil {
		return nil, s.mapDeadline(gctx, err)
	}

	s.putCache(ctx, topic, domain.ContentTypeQuiz, params, quiz)
	return quiz, nil
}

// QuizFromText produces a quiz from raw study material, for example text
// extracted from an uploaded document. Raw text has no topic identity, so
// the result is not cached.
func (s *StudyService) QuizFromText(
	ctx context.Context,
	text string,
	numQuestions int,
) ([]domain.QuizQuestion, error) {
	text, err := domain.ValidateText(text)
	if err != nil {
		return nil, err
	}
	if numQuestions < domain.MinQuestions || numQuestions > domain.MaxQuestions {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, domain.ErrInvalidQuestionCount)
	}

	gctx, cancel := context.WithTimeout(ctx, s.studyTimeout)
	defer cancel()

	quiz, err := s.quiz.GenerateFromText(gctx, text, numQuestions)
	if err != nil {
		return nil, s.mapDeadline(gctx, err)
	}
	return quiz, nil
}

// InvalidateTopic removes all cached content for a topic.
func (s *StudyService) InvalidateTopic(ctx context.Context, topic string) (int64, error) {
	topic, err := domain.ValidateTopic(topic)
	if err != nil {
		return 0, err
	}
	return s.cache.InvalidateTopic(ctx, topic)
}

// CacheStats reports cache usage, optionally scoped to one topic.
func (s *StudyService) CacheStats(ctx context.Context, topic string) (*cache.Stats, error) {
	return s.cache.Stats(ctx, topic)
}

// SweepExpired removes cache entries past the hard retention limit.
func (s *StudyService) SweepExpired(ctx context.Context) (int64, error) {
	return s.cache.SweepExpired(ctx)
}

// putCache marshals and writes generated content. A cache write failure
// is logged and absorbed: the content was generated successfully and the
// caller gets it regardless.
func (s *StudyService) putCache(
	ctx context.Context,
	topic string,
	contentType domain.ContentType,
	params domain.Params,
	content any,
) {
	payload, err := json.Marshal(content)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal content for cache",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return
	}

	metadata := map[string]string{
		"num_questions": strconv.Itoa(params.NumQuestions),
		"difficulty":    string(params.Difficulty),
	}
	if err := s.cache.Put(ctx, topic, contentType, params, payload, metadata); err != nil {
		s.logger.WarnContext(ctx, "cache write failed, continuing without cache",
			slog.String("topic", topic),
			slog.String("content_type", string(contentType)),
			slog.String("error", err.Error()))
	}
}

// mapDeadline converts an aggregate-deadline expiry into ErrTimeout while
// leaving caller cancellations and ordinary failures untouched.
func (s *StudyService) mapDeadline(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
