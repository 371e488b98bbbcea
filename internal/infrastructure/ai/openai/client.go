// Package openai provides OpenAI chat-completion integration for
// recipe generation.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/infrastructure/config"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"go.uber.org/zap"
)

// Client implements the AIClient port against the OpenAI chat API
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	maxAttempts int
	backoffBase time.Duration
	backoffCap  time.Duration
	client      *http.Client
	logger      *zap.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

var _ outbound.AIClient = (*Client)(nil)

// NewClient creates an OpenAI client from configuration
func NewClient(cfg *config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		apiKey:      cfg.OpenAIKey,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		model:       cfg.OpenAIModel,
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
		backoffCap:  cfg.BackoffCap,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.Named("openai-client"),
		sleep:  sleepCtx,
	}
}

// OpenAI API structures
type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// recipePayload is the wire format the model is asked to produce
type recipePayload struct {
	Title               *string              `json:"title"`
	Description         *string              `json:"description"`
	PrepTime            *float64             `json:"prep_time"`
	CookTime            *float64             `json:"cook_time"`
	TotalTime           int                  `json:"total_time"`
	Servings            int                  `json:"servings"`
	DifficultyLevel     string               `json:"difficulty_level"`
	CuisineType         []string             `json:"cuisine_type"`
	MealType            string               `json:"meal_type"`
	Ingredients         []ingredientPayload  `json:"ingredients"`
	Instructions        []instructionPayload `json:"instructions"`
	NutritionalInfo     *nutritionPayload    `json:"nutritional_info"`
	EquipmentNeeded     []string             `json:"equipment_needed"`
	Tips                []string             `json:"tips"`
	StorageInstructions string               `json:"storage_instructions"`
	LeftoverIdeas       []string             `json:"leftover_ideas"`
}

type ingredientPayload struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Item   string  `json:"item"`
	Notes  string  `json:"notes"`
}

type instructionPayload struct {
	Step    int    `json:"step"`
	Content string `json:"content"`
	Timing  string `json:"timing"`
}

type nutritionPayload struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// GenerateRecipe runs the chat completion with retries and validates
// the model output into a recipe draft
func (c *Client) GenerateRecipe(ctx context.Context, prompt outbound.StructuredPrompt) (*recipe.Draft, error) {
	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return c.parseDraft(content)
}

// complete calls the chat API, retrying transient failures with
// exponential backoff. Permanent failures surface immediately.
func (c *Client) complete(ctx context.Context, prompt outbound.StructuredPrompt) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.backoff(attempt-1)); err != nil {
				return "", apperrors.NewBackendUnavailableError(err)
			}
		}

		content, err := c.callOnce(ctx, prompt)
		if err == nil {
			return content, nil
		}
		lastErr = err

		var transient *transientError
		if !errors.As(err, &transient) {
			return "", apperrors.NewBackendUnavailableError(err)
		}
		c.logger.Warn("generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxAttempts),
			zap.Error(err),
		)
	}
	return "", apperrors.NewBackendUnavailableError(lastErr)
}

// backoff doubles the base per retry, clamped at the cap
func (c *Client) backoff(retry int) time.Duration {
	d := c.backoffBase << (retry - 1)
	if d > c.backoffCap {
		d = c.backoffCap
	}
	return d
}

// transientError marks failures worth retrying
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func (c *Client) callOnce(ctx context.Context, prompt outbound.StructuredPrompt) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature:    prompt.Temperature,
		MaxTokens:      prompt.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		// network errors are worth another attempt
		return "", &transientError{err: fmt.Errorf("API request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &transientError{err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", &transientError{err: apiErr}
		}
		return "", apiErr
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	c.logger.Debug("chat completion succeeded",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)
	return chatResp.Choices[0].Message.Content, nil
}

// parseDraft validates the model output and converts it into a domain
// draft. Validation failures name the missing fields or offending
// entries so callers can log something actionable. Fractional minute
// values are rounded to whole minutes.
func (c *Client) parseDraft(content string) (*recipe.Draft, error) {
	var payload recipePayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, apperrors.NewInvalidGenerationOutputError(
				fmt.Sprintf("field %q has the wrong type: got %s, want %s", typeErr.Field, typeErr.Value, typeErr.Type))
		}
		return nil, apperrors.NewInvalidGenerationOutputError(
			fmt.Sprintf("output is not valid JSON: %v", err))
	}

	var missing []string
	if payload.Title == nil || *payload.Title == "" {
		missing = append(missing, "title")
	}
	if payload.Description == nil || *payload.Description == "" {
		missing = append(missing, "description")
	}
	if payload.PrepTime == nil {
		missing = append(missing, "prep_time")
	}
	if payload.CookTime == nil {
		missing = append(missing, "cook_time")
	}
	if len(payload.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if len(payload.Instructions) == 0 {
		missing = append(missing, "instructions")
	}
	if payload.NutritionalInfo == nil {
		missing = append(missing, "nutritional_info")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewInvalidGenerationOutputError(
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}

	ingredients := make([]recipe.Ingredient, len(payload.Ingredients))
	for i, ing := range payload.Ingredients {
		ingredients[i] = recipe.Ingredient{
			Item:   ing.Item,
			Amount: ing.Amount,
			Unit:   ing.Unit,
			Notes:  ing.Notes,
		}
		if err := ingredients[i].Validate(); err != nil {
			return nil, apperrors.NewInvalidGenerationOutputError(
				fmt.Sprintf("ingredient %d (%q): %v", i+1, ing.Item, err))
		}
	}

	instructions := make([]recipe.Instruction, len(payload.Instructions))
	for i, inst := range payload.Instructions {
		instructions[i] = recipe.Instruction{
			StepNumber: inst.Step,
			Content:    inst.Content,
			Timing:     inst.Timing,
		}
		if err := instructions[i].Validate(); err != nil {
			return nil, apperrors.NewInvalidGenerationOutputError(
				fmt.Sprintf("instruction %d: %v", i+1, err))
		}
	}

	servings := payload.Servings
	if servings <= 0 {
		servings = 2
	}

	// total_time from the model is ignored; prep + cook is authoritative
	return &recipe.Draft{
		Title:        *payload.Title,
		Description:  *payload.Description,
		Ingredients:  ingredients,
		Instructions: instructions,
		Nutrition: recipe.NutritionInfo{
			Calories: payload.NutritionalInfo.Calories,
			Protein:  payload.NutritionalInfo.Protein,
			Carbs:    payload.NutritionalInfo.Carbs,
			Fat:      payload.NutritionalInfo.Fat,
		},
		CuisineType:         payload.CuisineType,
		MealType:            recipe.MealType(payload.MealType),
		Difficulty:          recipe.DifficultyLevel(payload.DifficultyLevel),
		PrepTime:            int(math.Round(*payload.PrepTime)),
		CookTime:            int(math.Round(*payload.CookTime)),
		Servings:            servings,
		EquipmentNeeded:     payload.EquipmentNeeded,
		RecipeTips:          payload.Tips,
		StorageInstructions: payload.StorageInstructions,
		LeftoverIdeas:       payload.LeftoverIdeas,
		SourceType:          recipe.SourceAI,
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
