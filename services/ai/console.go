package aisvc

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/integralforce/backend/core"
)

// consoleService answers every prompt deterministically and logs it; it stands
// in for the canister in development.
type consoleService struct {
	disableOutput bool
}

var _ core.AIService = (*consoleService)(nil)

func NewConsoleService() core.AIService {
	return &consoleService{}
}

func (svc consoleService) Chat(_ context.Context, prompt string) (string, error) {
	svc.print("chat", prompt)
	return "This is a development response. Ask me again when a canister is configured.", nil
}

func (svc consoleService) GenerateQuestion(_ context.Context, topic string) (string, error) {
	svc.print("question", topic)
	return fmt.Sprintf("What is one way %s affects everyday life?", topic), nil
}

func (svc consoleService) EvaluateAnswer(_ context.Context, question, answer string) (string, error) {
	svc.print("evaluation", question+" / "+answer)
	return "Good effort! A configured canister would grade this answer properly.", nil
}

func (svc consoleService) print(kind, prompt string) {
	if !svc.disableOutput {
		log.Printf("AI %s prompt: %s", kind, prompt)
	}
}

// Mock records prompts and replies synchronously; for tests.
type Mock struct {
	mu      sync.Mutex
	Prompts []string

	// Reply and Err override the canned response when set.
	Reply string
	Err   error
}

var _ core.AIService = (*Mock)(nil)

func (m *Mock) Chat(_ context.Context, prompt string) (string, error) {
	return m.record(prompt)
}

func (m *Mock) GenerateQuestion(_ context.Context, topic string) (string, error) {
	return m.record(topic)
}

func (m *Mock) EvaluateAnswer(_ context.Context, question, answer string) (string, error) {
	return m.record(question + " / " + answer)
}

func (m *Mock) record(prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	return "mock response", nil
}
