package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/integralforce/backend/core/account"
	inmemstate "github.com/integralforce/backend/storage/state/inmem"
	"github.com/integralforce/backend/tests"
)

func setup(t *testing.T) (*commandLine, *account.Service, *bytes.Buffer) {
	t.Helper()
	svc, repo := testutil.NewAccountService(testutil.NewConfig())
	out := new(bytes.Buffer)
	return &commandLine{svc: svc, repo: repo, out: out}, svc, out
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	wantOut string
}

func Test_commandLine_usage(t *testing.T) {
	tests := []cliTest{
		{name: "no args", args: nil, wantErr: errHelp, wantOut: "Usage:"},
		{name: "unknown command", args: []string{"frobnicate"}, wantErr: errHelp, wantOut: "Usage:"},
		{name: "grantkp without points", args: []string{"grantkp"}, wantErr: errHelp},
		{name: "resetstate without -yes", args: []string{"resetstate"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _, out := setup(t)
			err := cli.run(append([]string{"admin"}, tt.args...))
			if err != tt.wantErr {
				t.Errorf("run() err = %v; want %v", err, tt.wantErr)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q; want it to contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_grantKP(t *testing.T) {
	cli, svc, out := setup(t)

	// no account yet
	if err := cli.run([]string{"admin", "grantkp", "-points", "5"}); err != account.ErrNotLoggedIn {
		t.Errorf("run() err = %v; want ErrNotLoggedIn", err)
	}

	testutil.Login(t, svc, "amina")
	if err := cli.run([]string{"admin", "grantkp", "-points", "5", "-source", "promo"}); err != nil {
		t.Fatalf("run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "balance is now 6") {
		t.Errorf("output = %q", out.String())
	}

	acct, _ := svc.Current()
	if acct.KnowledgePoints != 6 {
		t.Errorf("balance = %d; want 6", acct.KnowledgePoints)
	}
}

func Test_commandLine_state(t *testing.T) {
	cli, svc, out := setup(t)

	if err := cli.run([]string{"admin", "state"}); err != nil {
		t.Fatalf("run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "no account snapshot") {
		t.Errorf("output = %q", out.String())
	}

	testutil.Login(t, svc, "amina")
	out.Reset()
	if err := cli.run([]string{"admin", "state"}); err != nil {
		t.Fatalf("run() failed: %v", err)
	}
	if !strings.Contains(out.String(), `"username": "amina"`) {
		t.Errorf("output = %q", out.String())
	}
}

func Test_commandLine_resetState(t *testing.T) {
	cli, svc, out := setup(t)
	testutil.Login(t, svc, "amina")

	if err := cli.run([]string{"admin", "resetstate", "-yes"}); err != nil {
		t.Fatalf("run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "account snapshot removed") {
		t.Errorf("output = %q", out.String())
	}

	repo := cli.repo.(*inmemstate.SnapshotRepository)
	if _, err := repo.Load(); err != account.ErrNoSnapshot {
		t.Errorf("Load() err = %v; want ErrNoSnapshot", err)
	}
}
