package orchestrator

import (
	"context"
	"sync"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-insight/agents"
	"review-insight/models"
)

var testLogger = log.Logger{Level: log.PanicLevel}

type stubClassifier struct {
	result agents.Classification
	err    error
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (agents.Classification, error) {
	s.calls++
	return s.result, s.err
}

type stubScorer struct {
	result agents.Score
	err    error
	// records the sentiment threaded in from the classifier
	gotSentiment string
}

func (s *stubScorer) Score(ctx context.Context, text, sentiment string) (agents.Score, error) {
	s.gotSentiment = sentiment
	return s.result, s.err
}

type stubTitler struct {
	result agents.Title
	err    error
	calls  int
}

func (s *stubTitler) GenerateTitle(ctx context.Context, text, sentiment string) (agents.Title, error) {
	s.calls++
	return s.result, s.err
}

// memoryStore records commits without a database.
type memoryStore struct {
	mu       sync.Mutex
	saved    map[string]models.Review
	failures map[string]string
	saveErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{saved: map[string]models.Review{}, failures: map[string]string{}}
}

func (m *memoryStore) SaveAnalysis(ctx context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[review.ID] = *review
	return nil
}

func (m *memoryStore) SaveFailure(ctx context.Context, reviewID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[reviewID] = message
	return nil
}

func happyStage1(store ReviewStore) (*Stage1Pipeline, *stubClassifier, *stubScorer, *stubTitler) {
	classifier := &stubClassifier{result: agents.Classification{Sentiment: "positive", Confidence: 0.96}}
	scorer := &stubScorer{result: agents.Score{Value: 4.6, Confidence: 0.9}}
	titler := &stubTitler{result: agents.Title{Text: "Friendly Staff Spotless Rooms", Confidence: 0.95}}
	return NewStage1Pipeline(classifier, scorer, titler, store, testLogger), classifier, scorer, titler
}

func TestStage1CommitsAllFieldsTogether(t *testing.T) {
	store := newMemoryStore()
	pipeline, _, scorer, _ := happyStage1(store)

	review := models.Review{ID: "r1", Text: "The staff were incredibly friendly and the room was spotless"}
	outcome := pipeline.Run(context.Background(), &review)

	require.True(t, outcome.Done())
	assert.Equal(t, StageDone, outcome.Stage)

	// the scorer saw the sentiment the classifier produced
	assert.Equal(t, "positive", scorer.gotSentiment)

	// all four AI fields committed together
	assert.Equal(t, "positive", review.Sentiment)
	assert.Equal(t, 0.96, review.Confidence)
	assert.InDelta(t, 4.6, review.AIScore, 0.001)
	assert.Equal(t, "Friendly Staff Spotless Rooms", review.Title)
	assert.True(t, review.Processed)

	saved, ok := store.saved["r1"]
	require.True(t, ok)
	assert.Equal(t, review.Sentiment, saved.Sentiment)
	assert.Equal(t, review.AIScore, saved.AIScore)
}

func TestStage1FailureLeavesFieldsUntouched(t *testing.T) {
	tests := []struct {
		name      string
		breakStep func(c *stubClassifier, s *stubScorer, tt *stubTitler)
		wantStage Stage
		wantKind  agents.ErrorKind
	}{
		{
			name: "classifier timeout",
			breakStep: func(c *stubClassifier, s *stubScorer, tt *stubTitler) {
				c.err = &agents.Error{Agent: "classifier", Kind: agents.KindTimeout}
			},
			wantStage: StagePending,
			wantKind:  agents.KindTimeout,
		},
		{
			name: "scorer rate limited",
			breakStep: func(c *stubClassifier, s *stubScorer, tt *stubTitler) {
				s.err = &agents.Error{Agent: "scorer", Kind: agents.KindRateLimited}
			},
			wantStage: StageClassified,
			wantKind:  agents.KindRateLimited,
		},
		{
			name: "titler invalid response",
			breakStep: func(c *stubClassifier, s *stubScorer, tt *stubTitler) {
				tt.err = &agents.Error{Agent: "title_generator", Kind: agents.KindInvalidResponse}
			},
			wantStage: StageScored,
			wantKind:  agents.KindInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			pipeline, classifier, scorer, titler := happyStage1(store)
			tt.breakStep(classifier, scorer, titler)

			review := models.Review{ID: "r1", Text: "some review"}
			outcome := pipeline.Run(context.Background(), &review)

			require.False(t, outcome.Done())
			assert.Equal(t, tt.wantStage, outcome.Stage)
			assert.Equal(t, tt.wantKind, outcome.ErrorKind)

			// atomic commit invariant: nothing persisted, fields unchanged
			assert.Empty(t, store.saved)
			assert.Empty(t, review.Sentiment)
			assert.Zero(t, review.Confidence)
			assert.Zero(t, review.AIScore)
			assert.Empty(t, review.Title)
			assert.False(t, review.Processed)

			// the failure reason is recorded
			assert.NotEmpty(t, store.failures["r1"])
		})
	}
}

func TestStage1ExternalTitleSkipsGeneration(t *testing.T) {
	store := newMemoryStore()
	pipeline, _, _, titler := happyStage1(store)

	review := models.Review{ID: "r1", Text: "decent stay", Title: "My Own Title"}
	outcome := pipeline.Run(context.Background(), &review)

	require.True(t, outcome.Done())
	assert.Equal(t, 0, titler.calls)
	assert.Equal(t, "My Own Title", review.Title)
}

func TestStage1StoreFailureDoesNotCommit(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = assert.AnError
	pipeline, _, _, _ := happyStage1(store)

	review := models.Review{ID: "r1", Text: "some review"}
	outcome := pipeline.Run(context.Background(), &review)

	require.False(t, outcome.Done())
	assert.Empty(t, review.Sentiment)
	assert.False(t, review.Processed)
}

func TestStage1BatchIndependence(t *testing.T) {
	store := newMemoryStore()

	classifier := &failSecondClassifier{}
	scorer := &stubScorer{result: agents.Score{Value: 4.0, Confidence: 0.8}}
	titler := &stubTitler{result: agents.Title{Text: "A Title", Confidence: 0.9}}
	pipeline := NewStage1Pipeline(classifier, scorer, titler, store, testLogger)

	reviews := []models.Review{
		{ID: "r1", Text: "first"},
		{ID: "r2", Text: "second"},
		{ID: "r3", Text: "third"},
	}
	outcomes := pipeline.RunBatch(context.Background(), reviews)

	require.Len(t, outcomes, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, []string{outcomes[0].ReviewID, outcomes[1].ReviewID, outcomes[2].ReviewID})
	assert.True(t, outcomes[0].Done())
	assert.False(t, outcomes[1].Done())
	assert.True(t, outcomes[2].Done())

	// the failing review did not disturb its neighbors
	assert.Contains(t, store.saved, "r1")
	assert.NotContains(t, store.saved, "r2")
	assert.Contains(t, store.saved, "r3")
}

type failSecondClassifier struct {
	calls int
}

func (f *failSecondClassifier) Classify(ctx context.Context, text string) (agents.Classification, error) {
	f.calls++
	if f.calls == 2 {
		return agents.Classification{}, &agents.Error{Agent: "classifier", Kind: agents.KindTimeout}
	}
	return agents.Classification{Sentiment: "neutral", Confidence: 0.7}, nil
}
