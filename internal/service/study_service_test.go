package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyquest/studyquest-api/internal/cache"
	"github.com/studyquest/studyquest-api/internal/domain"
	"github.com/studyquest/studyquest-api/internal/generation"
)

// stubNotes counts calls and returns fixed notes, an error, or blocks
// until the context expires.
type stubNotes struct {
	calls atomic.Int64
	err   error
	block bool
	delay time.Duration
}

func (s *stubNotes) Generate(ctx context.Context, topic string) (*domain.StudyNotes, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.block {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, ctx.Err())
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.StudyNotes{
		Topic:     topic,
		Summary:   "Summary of " + topic,
		KeyPoints: []string{"one", "two", "three"},
	}, nil
}

type stubQuiz struct {
	calls atomic.Int64
	err   error
}

func (s *stubQuiz) generate(numQuestions int) ([]domain.QuizQuestion, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	quiz := make([]domain.QuizQuestion, 0, numQuestions)
	for i := 0; i < numQuestions; i++ {
		quiz = append(quiz, domain.QuizQuestion{
			Question:    fmt.Sprintf("Question %d?", i+1),
			Options:     []string{"A) one", "B) two", "C) three", "D) four"},
			Answer:      "A",
			Explanation: "Because.",
		})
	}
	return quiz, nil
}

func (s *stubQuiz) GenerateFromNotes(_ context.Context, _ *domain.StudyNotes, numQuestions int) ([]domain.QuizQuestion, error) {
	return s.generate(numQuestions)
}

func (s *stubQuiz) GenerateFromText(_ context.Context, _ string, numQuestions int) ([]domain.QuizQuestion, error) {
	return s.generate(numQuestions)
}

// faultyStore fails selected operations while delegating the rest to an
// in-memory store.
type faultyStore struct {
	*cache.MemoryStore
	failUpsert   bool
	failGetFresh bool
}

func (s *faultyStore) Upsert(ctx context.Context, entry *cache.Entry) error {
	if s.failUpsert {
		return fmt.Errorf("%w: connection refused", cache.ErrStoreUnavailable)
	}
	return s.MemoryStore.Upsert(ctx, entry)
}

func (s *faultyStore) GetFresh(ctx context.Context, key string, freshAfter time.Time) (*cache.Entry, error) {
	if s.failGetFresh {
		return nil, fmt.Errorf("%w: connection refused", cache.ErrStoreUnavailable)
	}
	return s.MemoryStore.GetFresh(ctx, key, freshAfter)
}

func newTestService(t *testing.T, store cache.Store, notes *stubNotes, quiz *stubQuiz, opts ...Option) *StudyService {
	t.Helper()
	svc, err := NewStudyService(cache.New(store, nil), notes, quiz, nil, opts...)
	require.NoError(t, err)
	return svc
}

func TestStudyTopicGeneratesAndCaches(t *testing.T) {
	t.Parallel()

	notes := &stubNotes{}
	quiz := &stubQuiz{}
	svc := newTestService(t, cache.NewMemoryStore(), notes, quiz)
	ctx := context.Background()

	pkg, err := svc.StudyTopic(ctx, "Photosynthesis", 5, "medium")
	require.NoError(t, err)
	assert.False(t, pkg.Metadata.Cached)
	assert.Equal(t, 3, pkg.Metadata.NumKeyPoints)
	assert.Equal(t, 5, pkg.Metadata.NumQuestions)
	assert.Len(t, pkg.Quiz, 5)

	// Same topic modulo casing: served from cache, no new generation.
	again, err := svc.StudyTopic(ctx, "  photosynthesis ", 5, "medium")
	require.NoError(t, err)
	assert.True(t, again.Metadata.Cached)
	assert.Equal(t, int64(1), notes.calls.Load())
	assert.Equal(t, int64(1), quiz.calls.Load())
}

func TestStudyTopicValidatesBeforeAnyWork(t *testing.T) {
	t.Parallel()

	notes := &stubNotes{}
	quiz := &stubQuiz{}
	svc := newTestService(t, cache.NewMemoryStore(), notes, quiz)

	_, err := svc.StudyTopic(context.Background(), "  ", 5, "medium")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.StudyTopic(context.Background(), "valid topic", 0, "medium")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, notes.calls.Load(), "no generation on invalid input")
	assert.Zero(t, quiz.calls.Load())
}

func TestStudyTopicGenerationFailurePropagates(t *testing.T) {
	t.Parallel()

	genErr := fmt.Errorf("%w: all 3 models failed, last error: rate limited", generation.ErrGenerationFailed)
	notes := &stubNotes{err: genErr}
	svc := newTestService(t, cache.NewMemoryStore(), notes, &stubQuiz{})

	_, err := svc.StudyTopic(context.Background(), "photosynthesis", 5, "medium")
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
}

func TestStudyTopicAbsorbsCacheFailures(t *testing.T) {
	t.Parallel()

	notes := &stubNotes{}
	quiz := &stubQuiz{}
	store := &faultyStore{MemoryStore: cache.NewMemoryStore(), failUpsert: true, failGetFresh: true}
	svc := newTestService(t, store, notes, quiz)

	// Both the read and the write fail; the caller still gets content.
	pkg, err := svc.StudyTopic(context.Background(), "photosynthesis", 5, "medium")
	require.NoError(t, err)
	assert.False(t, pkg.Metadata.Cached)

	// Every call regenerates since nothing could be cached.
	_, err = svc.StudyTopic(context.Background(), "photosynthesis", 5, "medium")
	require.NoError(t, err)
	assert.Equal(t, int64(2), notes.calls.Load())
}

func TestStudyTopicTimeout(t *testing.T) {
	t.Parallel()

	notes := &stubNotes{block: true}
	svc := newTestService(t, cache.NewMemoryStore(), notes, &stubQuiz{},
		WithStudyTimeout(30*time.Millisecond))

	_, err := svc.StudyTopic(context.Background(), "photosynthesis", 5, "medium")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestStudyTopicsPreservesOrderAndIsolatesFailures(t *testing.T) {
	t.Parallel()

	notes := &stubNotes{}
	quiz := &stubQuiz{}
	svc := newTestService(t, cache.NewMemoryStore(), notes, quiz)

	topics := []string{"photosynthesis", "  ", "mitosis"}
	results, err := svc.StudyTopics(context.Background(), topics, 3, "easy")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "photosynthesis", results[0].Topic)
	assert.NotNil(t, results[0].Package)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, "  ", results[1].Topic)
	assert.Nil(t, results[1].Package)
	assert.ErrorIs(t, results[1].Err, domain.ErrValidation)

	assert.Equal(t, "mitosis", results[2].Topic)
	assert.NotNil(t, results[2].Package)
}

func TestStudyTopicsRejectsEmptyList(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, cache.NewMemoryStore(), &stubNotes{}, &stubQuiz{})
	_, err := svc.StudyTopics(context.Background(), nil, 5, "medium")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStudyTopicsSharesCacheAcrossDuplicates(t *testing.T) {
	t.Parallel()

	// The delay keeps all three workflows in flight at once, so the
	// duplicates must share one generation rather than winning by racing
	// the cache write.
	notes := &stubNotes{delay: 50 * time.Millisecond}
	quiz := &stubQuiz{}
	svc := newTestService(t, cache.NewMemoryStore(), notes, quiz)

	topics := []string{"genetics", "Genetics", "GENETICS"}
	results, err := svc.StudyTopics(context.Background(), topics, 3, "medium")
	require.NoError(t, err)

	for i, result := range results {
		require.NoError(t, result.Err, "topic %d", i)
		require.NotNil(t, result.Package, "topic %d", i)
	}
	// Duplicates collapse onto one generation through the cache or a
	// shared in-flight call.
	assert.Equal(t, int64(1), notes.calls.Load())
}

func TestGenerateNotesCaches(t *testing.T) {
	t.Parallel()

	notes := &stubNotes{}
	svc := newTestService(t, cache.NewMemoryStore(), notes, &stubQuiz{})
	ctx := context.Background()

	first, err := svc.GenerateNotes(ctx, "genetics")
	require.NoError(t, err)
	assert.Equal(t, "genetics", first.Topic)

	second, err := svc.GenerateNotes(ctx, "GENETICS")
	require.NoError(t, err)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, int64(1), notes.calls.Load())
}

func TestQuizFromNotesValidatesAndCaches(t *testing.T) {
	t.Parallel()

	quiz := &stubQuiz{}
	svc := newTestService(t, cache.NewMemoryStore(), &stubNotes{}, quiz)
	ctx := context.Background()

	notes := &domain.StudyNotes{
		Topic:     "genetics",
		Summary:   "Genes encode proteins.",
		KeyPoints: []string{"DNA"},
	}

	first, err := svc.QuizFromNotes(ctx, notes, 3, "hard")
	require.NoError(t, err)
	assert.Len(t, first, 3)

	_, err = svc.QuizFromNotes(ctx, notes, 3, "hard")
	require.NoError(t, err)
	assert.Equal(t, int64(1), quiz.calls.Load())

	_, err = svc.QuizFromNotes(ctx, nil, 3, "hard")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.QuizFromNotes(ctx, &domain.StudyNotes{Topic: "x", Summary: ""}, 3, "hard")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestQuizFromTextNotCached(t *testing.T) {
	t.Parallel()

	quiz := &stubQuiz{}
	svc := newTestService(t, cache.NewMemoryStore(), &stubNotes{}, quiz)
	ctx := context.Background()

	_, err := svc.QuizFromText(ctx, "the cell is the unit of life", 4)
	require.NoError(t, err)
	_, err = svc.QuizFromText(ctx, "the cell is the unit of life", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(2), quiz.calls.Load(), "raw text results are never cached")

	_, err = svc.QuizFromText(ctx, "  ", 4)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.QuizFromText(ctx, "material", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestInvalidateTopic(t *testing.T) {
	t.Parallel()

	notes := &stubNotes{}
	svc := newTestService(t, cache.NewMemoryStore(), notes, &stubQuiz{})
	ctx := context.Background()

	_, err := svc.StudyTopic(ctx, "genetics", 5, "medium")
	require.NoError(t, err)

	deleted, err := svc.InvalidateTopic(ctx, "genetics")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Next call regenerates.
	_, err = svc.StudyTopic(ctx, "genetics", 5, "medium")
	require.NoError(t, err)
	assert.Equal(t, int64(2), notes.calls.Load())
}
