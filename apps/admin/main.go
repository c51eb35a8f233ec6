package main

import (
	"log"
	"os"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/account"
	logsvc "github.com/integralforce/backend/services/logger"
	filestate "github.com/integralforce/backend/storage/state/file"
	inmemstate "github.com/integralforce/backend/storage/state/inmem"
	pgstate "github.com/integralforce/backend/storage/state/postgres"
)

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up state backend
	repo, cleanup, err := setUpSnapshotRepository(conf)
	if err != nil {
		logger.Fatal("setting up state backend", err)
	}
	defer cleanup()

	// start CLI
	cli := commandLine{
		svc:  account.NewService(repo, logger, conf),
		repo: repo,
		out:  os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			log.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
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
