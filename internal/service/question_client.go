package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"quizarena/internal/model"
	"time"
)

var ErrQuestionStatus = errors.New("question service returned non-2xx status")

// QuestionFetcher retrieves one question from a remote source
type QuestionFetcher interface {
	FetchQuestion(ctx context.Context, req model.QuestionRequest) (*model.Question, error)
}

// HTTPQuestionClient posts question requests to an external question service
type HTTPQuestionClient struct {
	url    string
	client *http.Client
}

// NewHTTPQuestionClient creates a client for the question service at url
func NewHTTPQuestionClient(url string, timeout time.Duration) *HTTPQuestionClient {
	return &HTTPQuestionClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchQuestion sends {topic, difficultyTier, roundIndex, previousQuestionTexts}
// and expects {question, options[4], correctIndex} back
func (c *HTTPQuestionClient) FetchQuestion(ctx context.Context, qr model.QuestionRequest) (*model.Question, error) {
	if qr.PreviousQuestions == nil {
		qr.PreviousQuestions = []string{}
	}
	body, err := json.Marshal(qr)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", ErrQuestionStatus, resp.StatusCode)
	}

	var q model.Question
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedQuestion, err)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.Source = model.SourceRemote
	return &q, nil
}
