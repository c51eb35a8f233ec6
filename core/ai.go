package core

import "context"

// AIService is any service that can obtain generated text from the remote
// AI collaborator (the canister backend). Calls are request/response with no
// retry policy; failures are surfaced to the caller as plain errors.
type AIService interface {
	// Chat sends a free-text prompt and returns the generated reply.
	Chat(ctx context.Context, prompt string) (string, error)
	// GenerateQuestion asks for a single quiz question on the given topic.
	GenerateQuestion(ctx context.Context, topic string) (string, error)
	// EvaluateAnswer asks for a short free-text evaluation of an answer.
	EvaluateAnswer(ctx context.Context, question, answer string) (string, error)
}
