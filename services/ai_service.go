package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fitgenix/models"
	"fitgenix/utils"

	"golang.org/x/sync/errgroup"
)

const (
	chatDirective = `You are FitGenix AI, a friendly fitness and nutrition assistant.
Keep answers short and practical.
- Simple questions (calories, definitions, yes/no): answer in 1-2 short lines.
- Longer questions: 2-3 short lines, then at most 3 bullet points, then a 1-2 line summary.
Never write long numbered lists. Only add disclaimers when there is a health risk.`

	exerciseDirective = `You are a world-class fitness coach. If the user searches for a body part or equipment, return exactly 6 matching exercises. Return ONLY valid JSON as an array of objects: [{ "name": "Exercise Name", "steps": ["Step 1", "Step 2"] }]. Do NOT include video IDs.`

	dietDirective = `You are a nutritionist. Return ONLY valid JSON: { "name": "Val", "calories": 100, "protein": "10g", "carbs": "20g", "fats": "5g" }.`

	workoutDirective = `You are a professional personal trainer. Generate a workout plan that fits the user's request.
Return ONLY valid JSON as an array of objects: [{ "name": "Exercise Name", "sets": 3, "reps": 12 }].
Include 5-8 exercises. No extra text, just the JSON array.`

	noReply        = "No response generated."
	dietNote       = "Estimated values (AI Unavailable)"
	fallbackCount  = 6
	videoSearchFmt = "%s gym exercise tutorial"
)

type Exercise struct {
	Name    string   `json:"name"`
	Steps   []string `json:"steps"`
	VideoID string   `json:"videoId"`
}

type NutritionFacts struct {
	models.FoodItem
	Note string `json:"note,omitempty"`
}

type WorkoutItem struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

// AIService serves the content-generation endpoints. Lookups degrade to
// deterministic fallback data; chat does not.
type AIService struct {
	llm    Completer
	videos VideoSearcher
}

func NewAIService(llm Completer, videos VideoSearcher) *AIService {
	return &AIService{llm: llm, videos: videos}
}

func (s *AIService) Chat(ctx context.Context, message string) (string, error) {
	reply, err := s.llm.Complete(ctx, chatDirective, message)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return noReply, nil
	}
	return reply, nil
}

// LookupExercises returns exercises for a body part, equipment or name, each
// with a tutorial video id.
func (s *AIService) LookupExercises(ctx context.Context, query string) []Exercise {
	var exercises []Exercise
	err := s.completeJSON(ctx, exerciseDirective, fmt.Sprintf("Provide 6 highly relevant exercises for: %s", query), '[', ']', &exercises)
	if err != nil {
		utils.Log.WithError(err).WithField("query", query).Warn("exercise lookup fell back to generic list")
		return fallbackExercises(query)
	}

	s.attachVideos(ctx, exercises)
	return exercises
}

// attachVideos searches a tutorial per exercise. A failed search only affects
// its own item.
func (s *AIService) attachVideos(ctx context.Context, exercises []Exercise) {
	var g errgroup.Group
	g.SetLimit(4)
	for i := range exercises {
		ex := &exercises[i]
		if ex.Steps == nil {
			ex.Steps = []string{}
		}
		g.Go(func() error {
			id, err := s.videos.SearchVideoID(ctx, fmt.Sprintf(videoSearchFmt, ex.Name))
			if err != nil {
				utils.Log.WithError(err).WithField("exercise", ex.Name).Warn("video search failed")
				id = PlaceholderVideoID
			}
			ex.VideoID = id
			return nil
		})
	}
	_ = g.Wait()
}

func (s *AIService) LookupNutrition(ctx context.Context, query, servingSize string) NutritionFacts {
	var facts NutritionFacts
	err := s.completeJSON(ctx, dietDirective, fmt.Sprintf("Nutritional info for %s serving %s", query, servingSize), '{', '}', &facts)
	if err != nil {
		utils.Log.WithError(err).WithField("query", query).Warn("nutrition lookup fell back to estimate")
		return fallbackNutrition(query)
	}
	if facts.Name == "" {
		facts.Name = query
	}
	return facts
}

func (s *AIService) GenerateWorkoutPlan(ctx context.Context, query string) []WorkoutItem {
	var plan []WorkoutItem
	err := s.completeJSON(ctx, workoutDirective, fmt.Sprintf("Create a workout plan for: %s", query), '[', ']', &plan)
	if err != nil || len(plan) == 0 {
		utils.Log.WithError(err).WithField("query", query).Warn("workout plan fell back to default")
		return fallbackWorkoutPlan()
	}
	return plan
}

// completeJSON asks the model and decodes the JSON span between openCh and closeCh.
func (s *AIService) completeJSON(ctx context.Context, system, user string, openCh, closeCh byte, v any) error {
	text, err := s.llm.Complete(ctx, system, user)
	if err != nil {
		return err
	}
	raw, ok := utils.ExtractJSON(text, openCh, closeCh)
	if !ok {
		return errors.New("no JSON found in model output")
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid JSON in model output: %w", err)
	}
	return nil
}

func fallbackExercises(query string) []Exercise {
	out := make([]Exercise, fallbackCount)
	for i := range out {
		out[i] = Exercise{
			Name:    fmt.Sprintf("%s Exercise %d", query, i+1),
			Steps:   []string{"Step 1: Focus on form.", "Step 2: Control the weight.", "Step 3: Breathe properly."},
			VideoID: PlaceholderVideoID,
		}
	}
	return out
}

func fallbackNutrition(query string) NutritionFacts {
	return NutritionFacts{
		FoodItem: models.FoodItem{Name: query, Calories: 250, Protein: "15g", Carbs: "30g", Fats: "10g"},
		Note:     dietNote,
	}
}

func fallbackWorkoutPlan() []WorkoutItem {
	return []WorkoutItem{
		{Name: "Push Ups", Sets: 3, Reps: 15},
		{Name: "Bodyweight Squats", Sets: 3, Reps: 20},
		{Name: "Plank", Sets: 3, Reps: 60},
		{Name: "Lunges", Sets: 3, Reps: 12},
		{Name: "Mountain Climbers", Sets: 3, Reps: 30},
	}
}
