package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/content"
	aisvc "github.com/integralforce/backend/services/ai"
	"github.com/integralforce/backend/tests"
)

func newTestService(t *testing.T) (*Service, *account.Service, *aisvc.Mock) {
	t.Helper()
	conf := testutil.NewConfig()
	accts, _ := testutil.NewAccountService(conf)
	catalog, err := content.NewCatalog()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	mock := &aisvc.Mock{}
	return NewService(accts, catalog, mock, testutil.NopLogger{}, conf), accts, mock
}

func balance(t *testing.T, accts *account.Service) int {
	t.Helper()
	acct, err := accts.Current()
	if err != nil {
		t.Fatalf("Current() failed: %v", err)
	}
	return acct.KnowledgePoints
}

func TestService_StartSession(t *testing.T) {
	svc, accts, _ := newTestService(t)
	testutil.Login(t, accts, "chatter")

	// a 1 KP balance cannot cover the 5 KP session cost
	if _, err := svc.StartSession("rights-mentor"); errors.Cause(err) != account.ErrInsufficientKP {
		t.Fatalf("err = %v; want ErrInsufficientKP", err)
	}

	testutil.GrantKP(t, accts, 9) // 10
	sess, err := svc.StartSession("rights-mentor")
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if got := balance(t, accts); got != 5 {
		t.Errorf("balance = %d; want 5", got)
	}
	if len(sess.Messages) != 1 || sess.Messages[0].Type != "ai" {
		t.Fatalf("messages = %+v; want a single ai greeting", sess.Messages)
	}
	if sess.Messages[0].Content != sess.Chat.Greeting {
		t.Errorf("greeting = %q; want %q", sess.Messages[0].Content, sess.Chat.Greeting)
	}

	if _, err = svc.StartSession("no-such-chat"); errors.Cause(err) != content.ErrNotFound {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

func TestService_StartSession_adHoc(t *testing.T) {
	svc, accts, _ := newTestService(t)
	testutil.Login(t, accts, "chatter")
	testutil.GrantKP(t, accts, 4) // 5

	sess, err := svc.StartSession("")
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if got := balance(t, accts); got != 3 { // 5 - 2
		t.Errorf("balance = %d; want 3", got)
	}
	if sess.Chat.ID != "ad-hoc" {
		t.Errorf("chat = %q; want ad-hoc", sess.Chat.ID)
	}
}

func TestService_SendMessage(t *testing.T) {
	svc, accts, mock := newTestService(t)
	testutil.Login(t, accts, "chatter")
	testutil.GrantKP(t, accts, 9) // 10

	sess, err := svc.StartSession("rights-mentor")
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	mock.Reply = "They were adopted in 1948."

	msg, err := svc.SendMessage(context.Background(), sess.ID, "When were human rights declared?")
	if err != nil {
		t.Fatalf("SendMessage() failed: %v", err)
	}
	if msg.Type != "ai" || msg.Content != mock.Reply {
		t.Errorf("reply = %+v", msg)
	}
	if got := balance(t, accts); got != 6 { // 5 + 1 interaction
		t.Errorf("balance = %d; want 6", got)
	}

	if len(mock.Prompts) != 1 {
		t.Fatalf("prompts = %v; want 1", mock.Prompts)
	}
	prompt := mock.Prompts[0]
	if !strings.Contains(prompt, "Human Rights") || !strings.Contains(prompt, "When were human rights declared?") {
		t.Errorf("prompt = %q; want the chat category and the user question", prompt)
	}

	if _, err = svc.SendMessage(context.Background(), "no-such-session", "hi"); errors.Cause(err) != ErrSessionNotFound {
		t.Errorf("err = %v; want ErrSessionNotFound", err)
	}
}

func TestService_SendMessage_aiFailure(t *testing.T) {
	svc, accts, mock := newTestService(t)
	testutil.Login(t, accts, "chatter")
	testutil.GrantKP(t, accts, 9) // 10

	sess, err := svc.StartSession("rights-mentor")
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	mock.Err = errors.New("canister unreachable")

	if _, err = svc.SendMessage(context.Background(), sess.ID, "hello?"); err == nil {
		t.Fatal("expected an error")
	}
	// no KP credited on a failed call
	if got := balance(t, accts); got != 5 {
		t.Errorf("balance = %d; want 5", got)
	}
}

func TestService_GenerateQuestion(t *testing.T) {
	svc, accts, mock := newTestService(t)

	if _, err := svc.GenerateQuestion(context.Background(), "privacy"); errors.Cause(err) != account.ErrNotLoggedIn {
		t.Errorf("err = %v; want ErrNotLoggedIn", err)
	}

	testutil.Login(t, accts, "chatter")
	mock.Reply = "What does Article 12 protect?"
	q, err := svc.GenerateQuestion(context.Background(), "privacy")
	if err != nil {
		t.Fatalf("GenerateQuestion() failed: %v", err)
	}
	if q != mock.Reply {
		t.Errorf("question = %q", q)
	}
	// generating a question costs and earns nothing
	if got := balance(t, accts); got != 1 {
		t.Errorf("balance = %d; want 1", got)
	}
}

func TestService_EvaluateAnswer(t *testing.T) {
	svc, accts, mock := newTestService(t)
	testutil.Login(t, accts, "chatter")
	mock.Reply = "Correct! Privacy is protected by Article 12."

	eval, err := svc.EvaluateAnswer(context.Background(), "What does Article 12 protect?", "privacy")
	if err != nil {
		t.Fatalf("EvaluateAnswer() failed: %v", err)
	}
	if eval.Verdict != mock.Reply || eval.KPEarned != 3 {
		t.Errorf("evaluation = %+v", eval)
	}
	if got := balance(t, accts); got != 4 { // 1 + 3
		t.Errorf("balance = %d; want 4", got)
	}

	mock.Err = errors.New("canister unreachable")
	if _, err = svc.EvaluateAnswer(context.Background(), "q", "a"); err == nil {
		t.Fatal("expected an error")
	}
	if got := balance(t, accts); got != 4 {
		t.Errorf("balance after failed evaluation = %d; want 4", got)
	}
}
