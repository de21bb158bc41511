package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"quizarena/internal/config"
	"quizarena/internal/model"
	"strings"
	"time"
)

// GeminiQuestionClient generates round questions with the Gemini API in JSON mode
type GeminiQuestionClient struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiQuestionClient creates a new Gemini-backed question client
func NewGeminiQuestionClient(cfg *config.AIConfig) *GeminiQuestionClient {
	return &GeminiQuestionClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// FetchQuestion asks the model for one multiple-choice question
func (c *GeminiQuestionClient) FetchQuestion(ctx context.Context, qr model.QuestionRequest) (*model.Question, error) {
	if !c.config.IsEnabled() {
		return nil, fmt.Errorf("gemini: no API key configured")
	}

	response, err := c.callGemini(ctx, c.config.Model, c.buildPrompt(qr))
	if err != nil {
		return nil, err
	}

	var q model.Question
	if err := json.Unmarshal([]byte(response), &q); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedQuestion, err)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.Source = model.SourceRemote
	return &q, nil
}

func (c *GeminiQuestionClient) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", c.config.ModelEndpoint(modelName), c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: gemini %d", ErrQuestionStatus, resp.StatusCode)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

var tierGuidance = [model.TierCount]string{
	"introductory recall, one step of reasoning",
	"applied understanding, two steps of reasoning",
	"analysis that combines several ideas",
	"expert level, tricky but fair",
}

func (c *GeminiQuestionClient) buildPrompt(qr model.QuestionRequest) string {
	guidance := tierGuidance[model.TierEasy]
	if qr.DifficultyTier.Valid() {
		guidance = tierGuidance[qr.DifficultyTier]
	}

	var avoid string
	if len(qr.PreviousQuestions) > 0 {
		avoid = "\nDo NOT repeat or rephrase any of these earlier questions:\n- " + strings.Join(qr.PreviousQuestions, "\n- ")
	}

	return fmt.Sprintf(`You write questions for a timed multiple-choice arcade quiz. Return ONLY valid JSON matching this schema:
{
  "question": "the question text, under 140 characters",
  "options": ["exactly", "four", "distinct", "answers"],
  "correctIndex": 0 to 3
}

Topic: %s
Difficulty: %s (%s)
Round: %d
Keep every option under 40 characters. Exactly one option is correct; the other three are plausible mistakes a learner would make.%s`,
		qr.Topic, qr.DifficultyTier, guidance, qr.RoundIndex+1, avoid)
}
