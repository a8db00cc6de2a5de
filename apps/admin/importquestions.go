package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

func (cli *commandLine) importQuestions(path string, role session.Role) error {
	sess, err := cli.sessions.Session(role)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	batch, err := qbank.DecodeBatch(f)
	if err != nil {
		return err
	}

	report, err := batch.Submit(context.Background(), cli.bank.For(sess))
	if report != nil {
		for _, res := range report.Results {
			fmt.Fprintf(cli.out, "#%d %s", res.Position, res.Status)
			if res.RemoteID != "" {
				fmt.Fprintf(cli.out, " %s", res.RemoteID)
			}
			if res.Error != "" {
				fmt.Fprintf(cli.out, ": %s", res.Error)
			}
			fmt.Fprintln(cli.out)
		}
		fmt.Fprintln(cli.out, report.Summary())
	}
	return err
}
