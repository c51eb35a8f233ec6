package testutil

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/account"
	inmemstate "github.com/integralforce/backend/storage/state/inmem"
)

// NopLogger discards everything; keeps test output clean.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}

// NewConfig returns a test configuration.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:     true,
		TestMode:  true,
		Env:       "TEST",
		AppName:   "IntegralForce",
		SecretKey: "test-secret-key",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
		},
		AI: core.AIConfig{
			Timeout: time.Second,
		},
		Account: core.AccountConfig{
			StartingKP: 1,
		},
	}
}

// NewValidator returns a fully initialized validator.
func NewValidator() *validator.Validate {
	validate := validator.New()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

// NewAccountService returns a fresh account store backed by an in-memory
// snapshot repository, plus the repository for state inspection.
func NewAccountService(conf *core.Config) (*account.Service, *inmemstate.SnapshotRepository) {
	repo := inmemstate.NewSnapshotRepository()
	return account.NewService(repo, NopLogger{}, conf), repo
}

// Login logs a user in and dies on failure.
func Login(t *testing.T, svc *account.Service, username string) account.Account {
	t.Helper()
	acct, err := svc.Login(username)
	if err != nil {
		t.Fatalf("Login(%q) failed: %v", username, err)
	}
	return acct
}

// GrantKP credits points and dies on failure.
func GrantKP(t *testing.T, svc *account.Service, points int) {
	t.Helper()
	if err := svc.AddKP(points, "test grant"); err != nil {
		t.Fatalf("AddKP(%d) failed: %v", points, err)
	}
}
