package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/integralforce/backend/core/account"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	svc  *account.Service
	repo account.SnapshotRepository
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  grantkp -points POINTS [-source SOURCE] - credit the logged-in account")
	fmt.Fprintln(cli.out, "  state - print the persisted account snapshot")
	fmt.Fprintln(cli.out, "  resetstate -yes - remove the persisted account snapshot")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	grantKPCmd := flag.NewFlagSet("grantkp", flag.ContinueOnError)
	grantKPPoints := grantKPCmd.Int("points", 0, "The number of Knowledge Points to credit.")
	grantKPSource := grantKPCmd.String("source", "Admin Grant", "The source recorded for the credit.")

	resetStateCmd := flag.NewFlagSet("resetstate", flag.ContinueOnError)
	resetStateYes := resetStateCmd.Bool("yes", false, "Confirm removal of the account snapshot.")

	switch args[1] {
	case "grantkp":
		if err := grantKPCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *grantKPPoints <= 0 {
			grantKPCmd.Usage()
			return errHelp
		}
		return cli.grantKP(*grantKPPoints, *grantKPSource)
	case "state":
		return cli.printState()
	case "resetstate":
		if err := resetStateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if !*resetStateYes {
			resetStateCmd.Usage()
			return errHelp
		}
		return cli.resetState()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) grantKP(points int, source string) error {
	if err := cli.svc.AddKP(points, source); err != nil {
		return err
	}
	acct, err := cli.svc.Current()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "granted %d KP to %q; balance is now %d\n", points, acct.Username, acct.KnowledgePoints)
	return nil
}

func (cli *commandLine) printState() error {
	data, err := cli.repo.Load()
	if err != nil {
		if err == account.ErrNoSnapshot {
			fmt.Fprintln(cli.out, "no account snapshot")
			return nil
		}
		return err
	}
	var buf bytes.Buffer
	if err = json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, buf.String())
	return nil
}

func (cli *commandLine) resetState() error {
	if err := cli.repo.Remove(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "account snapshot removed")
	return nil
}
