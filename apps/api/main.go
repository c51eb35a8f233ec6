package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/integralforce/backend/apps/api/echo"
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
	logsvc "github.com/integralforce/backend/services/logger"
	filestate "github.com/integralforce/backend/storage/state/file"
	inmemstate "github.com/integralforce/backend/storage/state/inmem"
	pgstate "github.com/integralforce/backend/storage/state/postgres"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up state backend
	snapRepo, cleanup, err := setUpSnapshotRepository(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up state backend: %v", err), err)
	}
	defer cleanup()

	// set up services
	catalog, err := content.NewCatalog()
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading content catalog: %v", err), err)
	}

	var ai core.AIService
	if conf.Debug {
		ai = aisvc.NewConsoleService()
	} else {
		ai = aisvc.NewCanisterService(conf)
	}

	acctSvc := account.NewService(snapRepo, logger, conf)
	learnSvc := learn.NewService(acctSvc, catalog)
	quizSvc := quiz.NewService(acctSvc, catalog)
	gameSvc := game.NewService(acctSvc, catalog)
	chatSvc := chat.NewService(acctSvc, catalog, ai, logger, conf)
	nftSvc := nft.NewService(acctSvc, catalog)
	stakingSvc := staking.NewService(acctSvc, catalog)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			AccountSvc: acctSvc,
			LearnSvc:   learnSvc,
			QuizSvc:    quizSvc,
			GameSvc:    gameSvc,
			ChatSvc:    chatSvc,
			NFTSvc:     nftSvc,
			StakingSvc: stakingSvc,
			Catalog:    catalog,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpSnapshotRepository(conf *core.Config) (account.SnapshotRepository, func(), error) {
	switch conf.State.Backend {
	case "memory":
		return inmemstate.NewSnapshotRepository(), func() {}, nil
	case "postgres":
		db, err := pgstate.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		repo, err := pgstate.NewSnapshotRepository(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil
	default:
		return filestate.NewSnapshotRepository(conf.State.Dir), func() {}, nil
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
