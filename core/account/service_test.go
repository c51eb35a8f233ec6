package account

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

// memRepo is a minimal in-package snapshot repository so the core tests do not
// depend on the storage layer.
type memRepo struct {
	data []byte
}

func (r *memRepo) Load() ([]byte, error) {
	if r.data == nil {
		return nil, ErrNoSnapshot
	}
	return r.data, nil
}
func (r *memRepo) Save(data []byte) error { r.data = data; return nil }
func (r *memRepo) Remove() error          { r.data = nil; return nil }

func newTestService(allowRelogin bool) (*Service, *memRepo) {
	conf := &core.Config{Account: core.AccountConfig{StartingKP: 1, AllowRelogin: allowRelogin}}
	repo := &memRepo{}
	return NewService(repo, nopLogger{}, conf), repo
}

func TestService_Login(t *testing.T) {
	svc, repo := newTestService(false)

	acct, err := svc.Login("alice")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if acct.Username != "alice" {
		t.Errorf("Username = %q, want %q", acct.Username, "alice")
	}
	if acct.KnowledgePoints != 1 {
		t.Errorf("KnowledgePoints = %d, want 1", acct.KnowledgePoints)
	}
	if acct.Level != LevelKids {
		t.Errorf("Level = %q, want %q", acct.Level, LevelKids)
	}
	if len(acct.Interests)+len(acct.CompletedContent)+len(acct.Badges)+len(acct.StakingHistory)+len(acct.NFTs) != 0 {
		t.Error("collections not empty on fresh account")
	}
	if repo.data == nil {
		t.Error("login did not persist a snapshot")
	}

	// re-entrant login is rejected unless explicitly enabled
	if _, err = svc.Login("bob"); errors.Cause(err) != ErrLoggedIn {
		t.Errorf("relogin error = %v, want ErrLoggedIn", err)
	}
	if cur, _ := svc.Current(); cur.Username != "alice" {
		t.Errorf("relogin overwrote the account: username = %q", cur.Username)
	}
}

func TestService_Login_relogin(t *testing.T) {
	svc, _ := newTestService(true)

	_, _ = svc.Login("alice")
	_ = svc.AddKP(100, "test")

	acct, err := svc.Login("bob")
	if err != nil {
		t.Fatalf("relogin error = %v", err)
	}
	if acct.Username != "bob" || acct.KnowledgePoints != 1 {
		t.Errorf("relogin did not yield a fresh account: %+v", acct)
	}
}

func TestService_AddDeductKP(t *testing.T) {
	svc, _ := newTestService(false)

	// all mutators fail explicitly when logged out
	if err := svc.AddKP(5, "test"); errors.Cause(err) != ErrNotLoggedIn {
		t.Errorf("AddKP logged out error = %v, want ErrNotLoggedIn", err)
	}
	if err := svc.DeductKP(5, "test"); errors.Cause(err) != ErrNotLoggedIn {
		t.Errorf("DeductKP logged out error = %v, want ErrNotLoggedIn", err)
	}

	_, _ = svc.Login("alice")

	// balance 1, deduct 2 fails and leaves balance intact
	if err := svc.DeductKP(2, "test"); errors.Cause(err) != ErrInsufficientKP {
		t.Errorf("DeductKP(2) error = %v, want ErrInsufficientKP", err)
	}
	if acct, _ := svc.Current(); acct.KnowledgePoints != 1 {
		t.Errorf("balance after failed deduct = %d, want 1", acct.KnowledgePoints)
	}

	if err := svc.AddKP(5, "test"); err != nil {
		t.Fatalf("AddKP(5) error = %v", err)
	}
	if acct, _ := svc.Current(); acct.KnowledgePoints != 6 {
		t.Errorf("balance = %d, want 6", acct.KnowledgePoints)
	}

	if err := svc.DeductKP(2, "test"); err != nil {
		t.Fatalf("DeductKP(2) error = %v", err)
	}
	if acct, _ := svc.Current(); acct.KnowledgePoints != 4 {
		t.Errorf("balance = %d, want 4", acct.KnowledgePoints)
	}

	// exact-balance debit succeeds; balance never goes negative
	if err := svc.DeductKP(4, "test"); err != nil {
		t.Fatalf("DeductKP(4) error = %v", err)
	}
	if err := svc.DeductKP(1, "test"); errors.Cause(err) != ErrInsufficientKP {
		t.Errorf("DeductKP on empty balance error = %v, want ErrInsufficientKP", err)
	}
	if acct, _ := svc.Current(); acct.KnowledgePoints != 0 {
		t.Errorf("balance = %d, want 0", acct.KnowledgePoints)
	}
}

func TestService_idempotentCollections(t *testing.T) {
	svc, _ := newTestService(false)
	_, _ = svc.Login("alice")

	for i := 0; i < 2; i++ {
		if err := svc.MarkContentComplete("lesson-1"); err != nil {
			t.Fatalf("MarkContentComplete() error = %v", err)
		}
		if err := svc.AddBadge("first-steps"); err != nil {
			t.Fatalf("AddBadge() error = %v", err)
		}
	}

	acct, _ := svc.Current()
	if len(acct.CompletedContent) != 1 || acct.CompletedContent[0] != "lesson-1" {
		t.Errorf("CompletedContent = %v, want [lesson-1]", acct.CompletedContent)
	}
	if len(acct.Badges) != 1 || acct.Badges[0] != "first-steps" {
		t.Errorf("Badges = %v, want [first-steps]", acct.Badges)
	}
}

func TestService_levelAndInterests(t *testing.T) {
	svc, _ := newTestService(false)

	if err := svc.UpdateLevel(LevelAdult); errors.Cause(err) != ErrNotLoggedIn {
		t.Errorf("UpdateLevel logged out error = %v, want ErrNotLoggedIn", err)
	}

	_, _ = svc.Login("alice")

	if err := svc.UpdateLevel("grown-up"); err == nil {
		t.Error("UpdateLevel accepted an invalid level")
	}
	if err := svc.UpdateLevel(LevelAdolescent); err != nil {
		t.Fatalf("UpdateLevel() error = %v", err)
	}
	if err := svc.SetInterests([]string{"human rights", "environment"}); err != nil {
		t.Fatalf("SetInterests() error = %v", err)
	}

	acct, _ := svc.Current()
	if acct.Level != LevelAdolescent {
		t.Errorf("Level = %q, want %q", acct.Level, LevelAdolescent)
	}
	if len(acct.Interests) != 2 {
		t.Errorf("Interests = %v, want 2 entries", acct.Interests)
	}
}

func TestService_logoutAndRehydration(t *testing.T) {
	conf := &core.Config{Account: core.AccountConfig{StartingKP: 1}}
	repo := &memRepo{}
	svc := NewService(repo, nopLogger{}, conf)

	_, _ = svc.Login("alice")
	_ = svc.AddKP(41, "test")
	_ = svc.MarkContentComplete("lesson-1")
	_ = svc.AddBadge("scholar")
	before, _ := svc.Current()

	// a restart rehydrates an account equal in all fields
	restarted := NewService(repo, nopLogger{}, conf)
	after, err := restarted.Current()
	if err != nil {
		t.Fatalf("Current() after restart error = %v", err)
	}
	b, _ := json.Marshal(before)
	a, _ := json.Marshal(after)
	if string(a) != string(b) {
		t.Errorf("rehydrated account differs:\n got %s\nwant %s", a, b)
	}

	// logout removes the snapshot; a fresh load finds no account
	svc.Logout()
	if repo.data != nil {
		t.Error("logout did not remove the persisted snapshot")
	}
	fresh := NewService(repo, nopLogger{}, conf)
	if _, err = fresh.Current(); errors.Cause(err) != ErrNotLoggedIn {
		t.Errorf("Current() after logout+restart error = %v, want ErrNotLoggedIn", err)
	}

	// logout when already logged out is a no-op
	fresh.Logout()
}

func TestService_corruptSnapshot(t *testing.T) {
	conf := &core.Config{Account: core.AccountConfig{StartingKP: 1}}
	repo := &memRepo{data: []byte("{not json")}

	svc := NewService(repo, nopLogger{}, conf)
	if _, err := svc.Current(); errors.Cause(err) != ErrNotLoggedIn {
		t.Errorf("Current() with corrupt snapshot error = %v, want ErrNotLoggedIn", err)
	}
}

func TestService_currentReturnsCopy(t *testing.T) {
	svc, _ := newTestService(false)
	_, _ = svc.Login("alice")
	_ = svc.MarkContentComplete("lesson-1")

	acct, _ := svc.Current()
	acct.CompletedContent[0] = "tampered"
	acct.KnowledgePoints = 9999

	cur, _ := svc.Current()
	if cur.CompletedContent[0] != "lesson-1" || cur.KnowledgePoints == 9999 {
		t.Error("Current() leaked a mutable reference to the account")
	}
}
