package quiz

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/content"
	"github.com/integralforce/backend/tests"
)

func newTestService(t *testing.T) (*Service, *account.Service) {
	t.Helper()
	accts, _ := testutil.NewAccountService(testutil.NewConfig())
	catalog, err := content.NewCatalog()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	return NewService(accts, catalog), accts
}

func balance(t *testing.T, accts *account.Service) int {
	t.Helper()
	acct, err := accts.Current()
	if err != nil {
		t.Fatalf("Current() failed: %v", err)
	}
	return acct.KnowledgePoints
}

func TestMatchAnswer(t *testing.T) {
	tests := []struct {
		name             string
		expected, given  string
		want             bool
	}{
		{"exact", "1948", "1948", true},
		{"case and spacing", "Every person", "  every PERSON ", true},
		{"forgiven typo", "Eleanor Roosevelt", "Eleanor Rosevelt", true},
		{"wrong answer", "1948", "1945", false},
		{"empty given", "1948", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchAnswer(tt.expected, tt.given); got != tt.want {
				t.Errorf("MatchAnswer(%q, %q) = %v; want %v", tt.expected, tt.given, got, tt.want)
			}
		})
	}
}

func TestService_SubmitAnswer(t *testing.T) {
	svc, accts := newTestService(t)
	testutil.Login(t, accts, "quizzer")

	res, err := svc.SubmitAnswer(content.DifficultyEasy, "easy-1", "1948")
	if err != nil {
		t.Fatalf("SubmitAnswer() failed: %v", err)
	}
	if !res.Correct || res.KPEarned != 10 {
		t.Errorf("result = %+v; want correct, 10 KP", res)
	}
	if got := balance(t, accts); got != 11 {
		t.Errorf("balance = %d; want 11", got)
	}

	res, err = svc.SubmitAnswer(content.DifficultyEasy, "easy-1", "1945")
	if err != nil {
		t.Fatalf("SubmitAnswer() failed: %v", err)
	}
	if res.Correct || res.KPEarned != 0 {
		t.Errorf("result = %+v; want incorrect, 0 KP", res)
	}
	if res.Answer != "1948" || res.Explanation == "" {
		t.Errorf("result missing answer/explanation: %+v", res)
	}
	if got := balance(t, accts); got != 11 {
		t.Errorf("balance after wrong answer = %d; want 11", got)
	}

	if _, err = svc.SubmitAnswer(content.DifficultyEasy, "no-such-id", "x"); errors.Cause(err) != content.ErrNotFound {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

func TestService_SubmitAnswer_loggedOut(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SubmitAnswer(content.DifficultyEasy, "easy-1", "1945")
	if errors.Cause(err) != account.ErrNotLoggedIn {
		t.Errorf("err = %v; want ErrNotLoggedIn", err)
	}
}

func TestService_AddQuestion(t *testing.T) {
	svc, accts := newTestService(t)
	testutil.Login(t, accts, "contributor")

	nq := NewQuestion{
		Question:    "Which article of the Universal Declaration covers privacy?",
		Category:    "Human Rights",
		Difficulty:  content.DifficultyHard,
		Options:     []string{"Article 3", "Article 12", "Article 26"},
		Answer:      "Article 12",
		Explanation: "Article 12 protects against arbitrary interference with privacy.",
	}

	// a 1 KP balance cannot cover the 20 KP cost
	if _, err := svc.AddQuestion(nq); errors.Cause(err) != account.ErrInsufficientKP {
		t.Fatalf("err = %v; want ErrInsufficientKP", err)
	}
	if got := balance(t, accts); got != 1 {
		t.Errorf("balance after failed contribution = %d; want 1", got)
	}

	testutil.GrantKP(t, accts, 30) // 31
	reward, err := svc.AddQuestion(nq)
	if err != nil {
		t.Fatalf("AddQuestion() failed: %v", err)
	}
	if reward != 25 { // 10 base + 15 hard bonus
		t.Errorf("reward = %d; want 25", reward)
	}
	if got := balance(t, accts); got != 36 { // 31 - 20 + 25
		t.Errorf("balance = %d; want 36", got)
	}
	if got := svc.Pending(); len(got) != 1 || got[0].Question != nq.Question {
		t.Errorf("Pending() = %+v", got)
	}
}

func TestNewQuestion_Validate(t *testing.T) {
	validate := testutil.NewValidator()
	valid := NewQuestion{
		Question:    "Q?",
		Category:    "c",
		Difficulty:  content.DifficultyEasy,
		Options:     []string{"a", "b"},
		Answer:      "a",
		Explanation: "e",
	}

	tests := []struct {
		name    string
		mutate  func(q *NewQuestion)
		wantErr bool
	}{
		{"valid", func(q *NewQuestion) {}, false},
		{"invalid difficulty", func(q *NewQuestion) { q.Difficulty = "medium" }, true},
		{"answer not an option", func(q *NewQuestion) { q.Answer = "c" }, true},
		{"one option", func(q *NewQuestion) { q.Options = []string{"a"} }, true},
		{"missing explanation", func(q *NewQuestion) { q.Explanation = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			q.Options = append([]string{}, valid.Options...)
			tt.mutate(&q)
			err := q.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}
