package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyMessage = errors.New("empty message")

const systemPrompt = `You are a study tutor for multiple-choice exam preparation.
Explain concepts step by step, point out common traps, and keep answers concise.
When the student pastes a question, walk through eliminating wrong options before
naming the right one. Never invent facts about the exam.`

type Service struct {
	llm LLMClient
}

func NewService(llm LLMClient) *Service {
	return &Service{llm: llm}
}

// Ask sends one student message and returns the tutor's reply.
func (s *Service) Ask(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	resp, err := s.llm.Complete(ctx, systemPrompt, message)
	if err != nil {
		return "", fmt.Errorf("tutor completion: %w", err)
	}
	return resp.Content, nil
}
