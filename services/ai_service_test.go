package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"fitgenix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVideos struct {
	mu      sync.Mutex
	fail    map[string]bool
	queries []string
}

func (s *stubVideos) SearchVideoID(_ context.Context, query string) (string, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	for name := range s.fail {
		if strings.HasPrefix(query, name) {
			return "", errors.New("search failed")
		}
	}
	return "vid-" + strings.Fields(query)[0], nil
}

func TestChatPropagatesFailure(t *testing.T) {
	svc := NewAIService(failingLLM{}, &stubVideos{})
	_, err := svc.Chat(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestChatEmptyReply(t *testing.T) {
	svc := NewAIService(&scriptedLLM{replies: []string{"  "}}, &stubVideos{})
	reply, err := svc.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "No response generated.", reply)
}

func TestLookupNutritionFallback(t *testing.T) {
	svc := NewAIService(failingLLM{}, &stubVideos{})

	got := svc.LookupNutrition(context.Background(), "banana", "1")
	assert.Equal(t, "banana", got.Name)
	assert.Equal(t, models.Kcal(250), got.Calories)
	assert.Equal(t, models.Grams("15g"), got.Protein)
	assert.Equal(t, models.Grams("30g"), got.Carbs)
	assert.Equal(t, models.Grams("10g"), got.Fats)
	assert.NotEmpty(t, got.Note)
}

func TestLookupNutritionParsesWrappedJSON(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"Sure! ```json\n{\"name\": \"Banana\", \"calories\": 105.4, \"protein\": 1.3, \"carbs\": \"27g\", \"fats\": \"0.4g\"}\n```"}}
	svc := NewAIService(llm, &stubVideos{})

	got := svc.LookupNutrition(context.Background(), "banana", "1 medium")
	assert.Equal(t, "Banana", got.Name)
	assert.Equal(t, models.Kcal(105), got.Calories)
	assert.Equal(t, models.Grams("1.3g"), got.Protein)
	assert.Empty(t, got.Note)
	assert.Contains(t, llm.prompts[0], "banana serving 1 medium")
}

func TestLookupNutritionUnparsableFallsBack(t *testing.T) {
	svc := NewAIService(&scriptedLLM{replies: []string{"I don't know"}}, &stubVideos{})
	got := svc.LookupNutrition(context.Background(), "kale", "1 cup")
	assert.Equal(t, "kale", got.Name)
	assert.NotEmpty(t, got.Note)
}

func TestLookupExercisesFallback(t *testing.T) {
	videos := &stubVideos{}
	svc := NewAIService(failingLLM{}, videos)

	got := svc.LookupExercises(context.Background(), "chest")
	require.Len(t, got, 6)
	assert.Equal(t, "chest Exercise 1", got[0].Name)
	assert.Equal(t, PlaceholderVideoID, got[5].VideoID)
	assert.Len(t, got[0].Steps, 3)
	assert.Empty(t, videos.queries)
}

func TestLookupExercisesIsolatesVideoFailures(t *testing.T) {
	reply := `[{"name": "Bench", "steps": ["Lie down", "Press"]}, {"name": "Fly", "steps": ["Open", "Close"]}, {"name": "Dips"}]`
	videos := &stubVideos{fail: map[string]bool{"Fly": true}}
	svc := NewAIService(&scriptedLLM{replies: []string{reply}}, videos)

	got := svc.LookupExercises(context.Background(), "chest")
	require.Len(t, got, 3)
	assert.Equal(t, "vid-Bench", got[0].VideoID)
	assert.Equal(t, PlaceholderVideoID, got[1].VideoID)
	assert.Equal(t, "vid-Dips", got[2].VideoID)
	assert.NotNil(t, got[2].Steps)
	assert.Contains(t, videos.queries, "Bench gym exercise tutorial")
}

func TestGenerateWorkoutPlan(t *testing.T) {
	svc := NewAIService(&scriptedLLM{replies: []string{`Here: [{"name": "Deadlift", "sets": 4, "reps": 5}]`}}, &stubVideos{})
	got := svc.GenerateWorkoutPlan(context.Background(), "strength")
	assert.Equal(t, []WorkoutItem{{Name: "Deadlift", Sets: 4, Reps: 5}}, got)

	svc = NewAIService(failingLLM{}, &stubVideos{})
	got = svc.GenerateWorkoutPlan(context.Background(), "strength")
	require.Len(t, got, 5)
	assert.Equal(t, "Push Ups", got[0].Name)
}
