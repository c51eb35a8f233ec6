package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/content"
)

// Fixed rules: an ad-hoc widget session costs 2 KP, each answered exchange
// earns 1 KP, and every AI-evaluated free-text answer earns 3 KP.
const (
	adHocSessionCost = 2
	interactionKP    = 1
	answerKP         = 3
)

var ErrSessionNotFound = errors.New("chat session not found")

type (
	Message struct {
		ID        string    `json:"id"`
		Type      string    `json:"type"` // "user" | "ai"
		Content   string    `json:"content"`
		Timestamp time.Time `json:"timestamp"`
	}

	Session struct {
		ID       string          `json:"id"`
		Chat     content.ChatDef `json:"chat"`
		Messages []Message       `json:"messages"`
	}

	// Evaluation is the outcome of an AI-graded free-text answer.
	Evaluation struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
		Verdict  string `json:"verdict"`
		KPEarned int    `json:"kpEarned"`
	}

	// Service drives the AI chat screens. The remote AI collaborator is only
	// consulted between the debit (at session start) and the credit (after a
	// response resolves); a failed call earns nothing and is not retried.
	Service struct {
		accts   *account.Service
		catalog *content.Catalog
		ai      core.AIService
		logger  core.Logger
		conf    *core.Config

		mutex    sync.Mutex
		sessions map[string]*Session
	}
)

func NewService(accts *account.Service, catalog *content.Catalog, ai core.AIService, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		accts:    accts,
		catalog:  catalog,
		ai:       ai,
		logger:   logger,
		conf:     conf,
		sessions: make(map[string]*Session),
	}
}

func (svc *Service) Chats() []content.ChatDef {
	return svc.catalog.Chats()
}

// StartSession debits the chat's cost and opens a session seeded with the
// chat's greeting. An empty chatID opens an ad-hoc session for 2 KP.
func (svc *Service) StartSession(chatID string) (Session, error) {
	var def content.ChatDef
	if chatID == "" {
		def = content.ChatDef{
			ID:       "ad-hoc",
			Title:    "AI Chat",
			Category: "social impact",
			Cost:     adHocSessionCost,
			Greeting: "Hi! Ask me anything about the topics you're learning.",
		}
		if err := svc.accts.DeductKP(def.Cost, "New AI Chat Session"); err != nil {
			return Session{}, err
		}
	} else {
		var err error
		if def, err = svc.catalog.Chat(chatID); err != nil {
			return Session{}, err
		}
		if err = svc.accts.DeductKP(def.Cost, "AI Chat: "+def.Title); err != nil {
			return Session{}, err
		}
	}

	sess := &Session{
		ID:   uuid.New().String(),
		Chat: def,
		Messages: []Message{{
			ID:        uuid.New().String(),
			Type:      "ai",
			Content:   def.Greeting,
			Timestamp: time.Now().UTC(),
		}},
	}
	svc.mutex.Lock()
	svc.sessions[sess.ID] = sess
	svc.mutex.Unlock()
	return *sess, nil
}

// SendMessage forwards the user's message to the AI collaborator and credits
// 1 KP once the response resolves. On failure nothing is credited and the
// session is left as it was.
func (svc *Service) SendMessage(ctx context.Context, sessionID, text string) (Message, error) {
	svc.mutex.Lock()
	sess, ok := svc.sessions[sessionID]
	svc.mutex.Unlock()
	if !ok {
		return Message{}, ErrSessionNotFound
	}

	prompt := fmt.Sprintf(
		"I will be asking question related to %s and %s. Response as if we're having a chat. "+
			"Give me a very short and precise answer to the following question: %s",
		sess.Chat.Category, sess.Chat.Description, text,
	)
	reply, err := svc.ai.Chat(ctx, prompt)
	if err != nil {
		svc.logger.Error("AI chat call failed", errors.Wrap(err, "AI chat call failed"))
		return Message{}, errors.Wrap(err, "sending chat message")
	}

	now := time.Now().UTC()
	userMsg := Message{ID: uuid.New().String(), Type: "user", Content: text, Timestamp: now}
	aiMsg := Message{ID: uuid.New().String(), Type: "ai", Content: reply, Timestamp: now}

	svc.mutex.Lock()
	sess.Messages = append(sess.Messages, userMsg, aiMsg)
	svc.mutex.Unlock()

	if err = svc.accts.AddKP(interactionKP, "AI Chat Interaction"); err != nil {
		return Message{}, err
	}
	return aiMsg, nil
}

// EndSession discards a session. The entry cost is not refunded.
func (svc *Service) EndSession(sessionID string) {
	svc.mutex.Lock()
	delete(svc.sessions, sessionID)
	svc.mutex.Unlock()
}

// GenerateQuestion asks the AI collaborator for a question on the given topic.
func (svc *Service) GenerateQuestion(ctx context.Context, topic string) (string, error) {
	if _, err := svc.accts.Current(); err != nil {
		return "", err
	}
	q, err := svc.ai.GenerateQuestion(ctx, topic)
	if err != nil {
		svc.logger.Error("AI question generation failed", errors.Wrap(err, "AI question generation failed"))
		return "", errors.Wrap(err, "generating question")
	}
	return q, nil
}

// EvaluateAnswer has the AI collaborator grade a free-text answer and credits
// 3 KP once the evaluation resolves.
func (svc *Service) EvaluateAnswer(ctx context.Context, question, answer string) (Evaluation, error) {
	if _, err := svc.accts.Current(); err != nil {
		return Evaluation{}, err
	}
	verdict, err := svc.ai.EvaluateAnswer(ctx, question, answer)
	if err != nil {
		svc.logger.Error("AI answer evaluation failed", errors.Wrap(err, "AI answer evaluation failed"))
		return Evaluation{}, errors.Wrap(err, "evaluating answer")
	}

	if err = svc.accts.AddKP(answerKP, "Answer question completion"); err != nil {
		return Evaluation{}, err
	}
	return Evaluation{Question: question, Answer: answer, Verdict: verdict, KPEarned: answerKP}, nil
}
