package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode"

	"claims-portal-api/config"

	"github.com/sirupsen/logrus"
)

// EnhanceService rewrites a claimant's free-text description through an LLM
// completion API so it reads clearly for the insurer. The AI call is optional
// plumbing: when the API is unconfigured or down, a local cleanup pass is
// offered instead so the form never hard-fails on a collaborator outage.
type EnhanceService struct {
	httpClient *http.Client
	log        *logrus.Logger
}

func NewEnhanceService() *EnhanceService {
	return &EnhanceService{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		log:        config.GetLogger(),
	}
}

const enhancePrompt = "Rewrite the following insurance incident description so it is clear, " +
	"factual and professionally worded. Keep every stated fact, do not invent details, " +
	"and answer with the rewritten text only."

// Enhance returns the improved text and whether the AI produced it. With
// allowFallback the local cleanup is returned on any AI failure; without it
// the failure is reported so the caller can surface a retry-safe message.
func (e *EnhanceService) Enhance(ctx context.Context, text string, allowFallback bool) (string, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false, fmt.Errorf("text is required")
	}

	improved, err := e.complete(ctx, text)
	if err == nil {
		return improved, true, nil
	}

	config.LogError(e.log, "enhance", "Enhance", "completion api", nil, err)
	if !allowFallback {
		return "", false, fmt.Errorf("enhancement service unavailable, please retry: %w", err)
	}
	return FallbackEnhance(text), false, nil
}

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

func (e *EnhanceService) complete(ctx context.Context, text string) (string, error) {
	endpoint := os.Getenv("AI_API_URL")
	apiKey := os.Getenv("AI_API_KEY")
	if endpoint == "" || apiKey == "" {
		return "", fmt.Errorf("ai enhancement not configured (AI_API_URL/AI_API_KEY)")
	}

	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	body, err := json.Marshal(completionRequest{
		Model: model,
		Messages: []completionMessage{
			{Role: "system", Content: enhancePrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion api returned %d", resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion api returned no choices")
	}

	improved := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if improved == "" {
		return "", fmt.Errorf("completion api returned empty text")
	}
	return improved, nil
}

// FallbackEnhance is the local, non-AI cleanup: collapse whitespace,
// capitalise sentence starts and close the final sentence.
func FallbackEnhance(text string) string {
	fields := strings.Fields(text)
	cleaned := strings.Join(fields, " ")
	if cleaned == "" {
		return cleaned
	}

	runes := []rune(cleaned)
	capitalize := true
	for i, r := range runes {
		if capitalize && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			capitalize = false
		}
		if r == '.' || r == '!' || r == '?' {
			capitalize = true
		}
	}

	out := string(runes)
	if last := runes[len(runes)-1]; last != '.' && last != '!' && last != '?' {
		out += "."
	}
	return out
}
