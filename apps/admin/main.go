package main

import (
	"fmt"
	"os"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
	"github.com/ArbeitTechnology/tausif-lms-sub000/services/remote"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// start CLI
	cli := commandLine{
		out:      os.Stdout,
		sessions: session.NewStore(),
		bank:     remote.NewQuestionClient(remote.NewClient(conf.Remote)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %v\n", err)
		}
		os.Exit(1)
	}
}
