package game

import (
	"testing"
	"time"

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

func mockClock(t *testing.T) *time.Time {
	t.Helper()
	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })
	return &now
}

func TestService_Start(t *testing.T) {
	mockClock(t)
	svc, accts := newTestService(t)
	testutil.Login(t, accts, "player")

	// a 1 KP balance cannot cover the 5 KP entry cost
	if _, err := svc.Start("rights-rush"); errors.Cause(err) != account.ErrInsufficientKP {
		t.Fatalf("err = %v; want ErrInsufficientKP", err)
	}

	testutil.GrantKP(t, accts, 9) // 10
	sess, err := svc.Start("rights-rush")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if got := balance(t, accts); got != 5 {
		t.Errorf("balance = %d; want 5", got)
	}
	if sess.Game.ID != "rights-rush" {
		t.Errorf("game = %q; want rights-rush", sess.Game.ID)
	}
	if want := sess.StartedAt.Add(60 * time.Second); !sess.Deadline.Equal(want) {
		t.Errorf("deadline = %v; want %v", sess.Deadline, want)
	}

	if _, err = svc.Start("no-such-game"); errors.Cause(err) != content.ErrNotFound {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

// rights-rush rewards 20 KP; correct answer indexes are 1, 1, 1, 0.
func TestService_Finish_rewardTiers(t *testing.T) {
	tests := []struct {
		name        string
		answers     []int
		wantScore   int
		wantCorrect int
		wantEarned  int
	}{
		{"perfect", []int{1, 1, 1, 0}, 100, 4, 20},
		{"three of four", []int{1, 1, 1, 3}, 75, 3, 14}, // round(0.7 * 20)
		{"half", []int{1, 1, 0, 3}, 50, 2, 8},           // round(0.4 * 20)
		{"one of four", []int{1, 0, 0, 3}, 25, 1, 0},
		{"nothing submitted", nil, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClock(t)
			svc, accts := newTestService(t)
			testutil.Login(t, accts, "player")
			testutil.GrantKP(t, accts, 9) // 10

			sess, err := svc.Start("rights-rush")
			if err != nil {
				t.Fatalf("Start() failed: %v", err)
			}
			for _, a := range tt.answers {
				if err = svc.SubmitAnswer(sess.ID, a); err != nil {
					t.Fatalf("SubmitAnswer(%d) failed: %v", a, err)
				}
			}

			res, err := svc.Finish(sess.ID)
			if err != nil {
				t.Fatalf("Finish() failed: %v", err)
			}
			if res.Score != tt.wantScore || res.CorrectAnswers != tt.wantCorrect || res.KPEarned != tt.wantEarned {
				t.Errorf("result = %+v; want score %d, correct %d, earned %d",
					res, tt.wantScore, tt.wantCorrect, tt.wantEarned)
			}
			if got, want := balance(t, accts), 5+tt.wantEarned; got != want {
				t.Errorf("balance = %d; want %d", got, want)
			}

			// the session is gone once finished
			if _, err = svc.Finish(sess.ID); err != ErrSessionNotFound {
				t.Errorf("second Finish() err = %v; want ErrSessionNotFound", err)
			}
		})
	}
}

// A game with no questions scores 0, not NaN.
func TestService_Finish_noQuestions(t *testing.T) {
	mockClock(t)
	svc, accts := newTestService(t)
	testutil.Login(t, accts, "player")

	now := NowFunc()
	svc.sessions["empty"] = &session{
		Session: Session{
			ID:        "empty",
			Game:      content.Game{ID: "empty-set", Title: "Empty Set", KPReward: 20},
			StartedAt: now,
			Deadline:  now.Add(60 * time.Second),
		},
	}

	res, err := svc.Finish("empty")
	if err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}
	if res.Score != 0 || res.KPEarned != 0 || res.TotalQuestions != 0 {
		t.Errorf("result = %+v; want score 0, earned 0, total 0", res)
	}
	if got := balance(t, accts); got != 1 {
		t.Errorf("balance = %d; want 1", got)
	}
}

func TestService_SubmitAnswer_deadline(t *testing.T) {
	now := mockClock(t)
	svc, accts := newTestService(t)
	testutil.Login(t, accts, "player")
	testutil.GrantKP(t, accts, 9)

	sess, err := svc.Start("rights-rush")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err = svc.SubmitAnswer(sess.ID, 1); err != nil {
		t.Fatalf("SubmitAnswer() failed: %v", err)
	}

	*now = now.Add(61 * time.Second)
	if err = svc.SubmitAnswer(sess.ID, 1); err != ErrTimeUp {
		t.Errorf("err = %v; want ErrTimeUp", err)
	}

	// the game can still be finished on what was submitted in time
	res, err := svc.Finish(sess.ID)
	if err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}
	if res.Score != 25 || res.CorrectAnswers != 1 {
		t.Errorf("result = %+v; want score 25, correct 1", res)
	}
	if res.TimeTaken != 61 {
		t.Errorf("TimeTaken = %d; want 61", res.TimeTaken)
	}
}

func TestService_SubmitAnswer_allAnswered(t *testing.T) {
	mockClock(t)
	svc, accts := newTestService(t)
	testutil.Login(t, accts, "player")
	testutil.GrantKP(t, accts, 9)

	sess, err := svc.Start("rights-rush")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err = svc.SubmitAnswer(sess.ID, 1); err != nil {
			t.Fatalf("SubmitAnswer() failed: %v", err)
		}
	}
	if err = svc.SubmitAnswer(sess.ID, 1); err != ErrAllAnswered {
		t.Errorf("err = %v; want ErrAllAnswered", err)
	}

	if err = svc.SubmitAnswer("no-such-session", 1); err != ErrSessionNotFound {
		t.Errorf("err = %v; want ErrSessionNotFound", err)
	}
}
