package model

import (
	"errors"
	"fmt"
	"strings"
)

// OptionCount is the number of candidate answers every question carries
const OptionCount = 4

var ErrMalformedQuestion = errors.New("malformed question")

// QuestionSource records where a question came from
type QuestionSource string

const (
	SourceRemote     QuestionSource = "remote"
	SourcePrefetch   QuestionSource = "prefetch"
	SourceProcedural QuestionSource = "procedural"
)

// Question is one multiple-choice prompt issued to a round. Immutable once issued.
type Question struct {
	Text         string         `json:"question"`
	Options      []string       `json:"options"`
	CorrectIndex int            `json:"correctIndex"`
	Source       QuestionSource `json:"source,omitempty"`
}

// QuestionRequest is sent to the remote question service
type QuestionRequest struct {
	Topic             string   `json:"topic"`
	DifficultyTier    Tier     `json:"difficultyTier"`
	RoundIndex        int      `json:"roundIndex"`
	PreviousQuestions []string `json:"previousQuestionTexts"`
}

// CorrectOption returns the text of the correct option
func (q *Question) CorrectOption() string {
	return q.Options[q.CorrectIndex]
}

// Validate checks the shape every round depends on: text, four distinct options
// and an in-range correct index.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrMalformedQuestion)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: want %d options, got %d", ErrMalformedQuestion, OptionCount, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: correct index %d out of range", ErrMalformedQuestion, q.CorrectIndex)
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		key := strings.TrimSpace(opt)
		if key == "" {
			return fmt.Errorf("%w: empty option", ErrMalformedQuestion)
		}
		if seen[key] {
			return fmt.Errorf("%w: duplicate option %q", ErrMalformedQuestion, opt)
		}
		seen[key] = true
	}
	return nil
}
