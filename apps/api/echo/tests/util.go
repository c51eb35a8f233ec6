package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/integralforce/backend/apps/api/echo"
	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/chat"
	"github.com/integralforce/backend/core/content"
	"github.com/integralforce/backend/core/game"
	"github.com/integralforce/backend/core/learn"
	"github.com/integralforce/backend/core/nft"
	"github.com/integralforce/backend/core/quiz"
	"github.com/integralforce/backend/core/staking"
	aisvc "github.com/integralforce/backend/services/ai"
	"github.com/integralforce/backend/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server  Server
	conf    *core.Config
	acctSvc *account.Service
	aiMock  *aisvc.Mock
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := testutil.NewConfig()
	acctSvc, _ := testutil.NewAccountService(conf)
	catalog, err := content.NewCatalog()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	aiMock := &aisvc.Mock{}

	validate := testutil.NewValidator()

	server := NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     testutil.NopLogger{},
			AccountSvc: acctSvc,
			LearnSvc:   learn.NewService(acctSvc, catalog),
			QuizSvc:    quiz.NewService(acctSvc, catalog),
			GameSvc:    game.NewService(acctSvc, catalog),
			ChatSvc:    chat.NewService(acctSvc, catalog, aiMock, testutil.NopLogger{}, conf),
			NFTSvc:     nft.NewService(acctSvc, catalog),
			StakingSvc: staking.NewService(acctSvc, catalog),
			Catalog:    catalog,
			Validate:   validate,
			Translator: core.Translator,
		},
	)
	return &testApp{server: server, conf: conf, acctSvc: acctSvc, aiMock: aiMock}
}

func (app *testApp) login(t *testing.T, username string) (account.Account, string) {
	t.Helper()
	acct := testutil.Login(t, app.acctSvc, username)
	token, err := GenerateToken(GetAccountClaims(acct, app.conf), app.conf)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return acct, token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
