package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bigidrise/mealguard/internal/safety"
)

// LLMGenerator produces meals via the DeepSeek chat completions API.
// It is the generator side only: every output still goes through the
// gate's validator before a user sees it.
type LLMGenerator struct {
	apiKey string
	apiURL string
	client *http.Client
	logger *zap.Logger
}

var _ MealGenerator = (*LLMGenerator)(nil)

// NewLLMGenerator reads the API key from DEEPSEEK_API_KEY or the file
// named by DEEPSEEK_API_KEY_FILE.
func NewLLMGenerator(logger *zap.Logger) (*LLMGenerator, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	return &LLMGenerator{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

const mealSystemPrompt = `You are a professional chef and nutritionist. Please provide your response in JSON format with the following structure:
{
    "name": "Meal name",
    "description": "Brief description of the meal",
    "ingredients": [
        "2 cups flour",
        "1 cup sugar"
    ],
    "instructions": [
        "Step 1: Mix the dry ingredients",
        "Step 2: Bake at 350F for 30 minutes"
    ]
}

The ingredients and instructions fields must be arrays of strings.`

// Generate asks the model for one meal. Restrictions and allergens are
// stated in the prompt, but prompt compliance is best effort; the
// caller validates the result.
func (g *LLMGenerator) Generate(ctx context.Context, request string, restrictions, allergens []string) (*safety.MealOutput, error) {
	prompt := fmt.Sprintf("Generate a meal for: %s", request)
	if len(restrictions) > 0 {
		prompt += ". The meal must be suitable for: " + strings.Join(restrictions, ", ")
	}
	if len(allergens) > 0 {
		prompt += ". The person is allergic to the following, do not use them in any form: " + strings.Join(allergens, ", ")
	}

	reqBody := chatRequest{
		Model: "deepseek-chat",
		Messages: []chatMessage{
			{Role: "system", Content: mealSystemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.9,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		g.logger.Error("generator API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("generator API returned status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	var meal safety.MealOutput
	if err := json.Unmarshal([]byte(result.Choices[0].Message.Content), &meal); err != nil {
		return nil, fmt.Errorf("failed to parse meal: %w", err)
	}
	return &meal, nil
}
