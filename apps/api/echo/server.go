package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/chat"
	"github.com/integralforce/backend/core/content"
	"github.com/integralforce/backend/core/game"
	"github.com/integralforce/backend/core/learn"
	"github.com/integralforce/backend/core/nft"
	"github.com/integralforce/backend/core/quiz"
	"github.com/integralforce/backend/core/staking"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		AccountSvc *account.Service
		LearnSvc   *learn.Service
		QuizSvc    *quiz.Service
		GameSvc    *game.Service
		ChatSvc    *chat.Service
		NFTSvc     *nft.Service
		StakingSvc *staking.Service
		Catalog    *content.Catalog
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerAuthAPI(v1, jwt, s.deps.AccountSvc, conf, s.deps.Validate)
	registerAccountAPI(v1, jwt, s.deps.AccountSvc, s.deps.Catalog, s.deps.Validate)
	registerLearnAPI(v1, jwt, s.deps.LearnSvc, s.deps.Validate)
	registerQuizAPI(v1, jwt, s.deps.QuizSvc, s.deps.Validate)
	registerGameAPI(v1, jwt, s.deps.GameSvc, s.deps.Validate)
	registerChatAPI(v1, jwt, s.deps.ChatSvc, s.deps.Validate)
	registerNFTAPI(v1, jwt, s.deps.NFTSvc, s.deps.Validate)
	registerStakingAPI(v1, jwt, s.deps.StakingSvc, s.deps.Validate)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// signalShutdown is called by the error handler when an integrity issue is
// detected and the server must stop.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Integral Force API!")
}
