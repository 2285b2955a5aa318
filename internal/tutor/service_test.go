package tutor

import (
	"context"
	"errors"
	"testing"
)

type fakeLLM struct {
	reply string
	err   error

	lastSystem string
	lastUser   string
}

func (f *fakeLLM) Complete(_ context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.err != nil {
		return nil, f.err
	}
	return &LLMResponse{Content: f.reply}, nil
}

func TestAskPassesMessageThrough(t *testing.T) {
	llm := &fakeLLM{reply: "eliminate B and D first"}
	svc := NewService(llm)

	reply, err := svc.Ask(context.Background(), "  how do I approach assumption questions?  ")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if reply != "eliminate B and D first" {
		t.Errorf("reply = %q", reply)
	}
	if llm.lastUser != "how do I approach assumption questions?" {
		t.Errorf("user prompt not trimmed: %q", llm.lastUser)
	}
	if llm.lastSystem == "" {
		t.Error("system prompt missing")
	}
}

func TestAskRejectsEmptyMessage(t *testing.T) {
	svc := NewService(&fakeLLM{})
	if _, err := svc.Ask(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("error = %v, want ErrEmptyMessage", err)
	}
}

func TestAskWrapsClientFailure(t *testing.T) {
	svc := NewService(&fakeLLM{err: errors.New("rate limited")})
	if _, err := svc.Ask(context.Background(), "help"); err == nil {
		t.Error("expected error from failing client")
	}
}

func TestMockClientReturnsContent(t *testing.T) {
	resp, err := NewMockClient().Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content == "" {
		t.Error("mock reply is empty")
	}
}
