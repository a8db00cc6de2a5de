package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// questionBank binds the question bank backend to a session.
type questionBank interface {
	For(sess session.Session) qbank.Creator
}

type commandLine struct {
	out      io.Writer
	sessions *session.Store
	bank     questionBank
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  validate -file FILE - check a course document against the submission rules")
	fmt.Fprintln(cli.out, "  importquestions -file FILE [-role teacher|admin] - submit a question bank batch")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validateFile := validateCmd.String("file", "", "The course document (JSON).")

	importCmd := flag.NewFlagSet("importquestions", flag.ExitOnError)
	importFile := importCmd.String("file", "", "The question bank batch (JSON array). The bearer token will be prompted next.")
	importRole := importCmd.String("role", string(session.RoleTeacher), "The role the token belongs to.")

	switch args[1] {
	case "validate":
		if err := validateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *validateFile == "" {
			validateCmd.Usage()
			return errHelp
		}
		return cli.validateCourse(*validateFile)
	case "importquestions":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		role := session.Role(*importRole)
		if *importFile == "" || !role.IsAuthor() {
			importCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter bearer token:")
		token, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(token) == 0 {
			importCmd.Usage()
			return errHelp
		}
		if err := cli.sessions.Set(role, string(token)); err != nil {
			return err
		}
		return cli.importQuestions(*importFile, role)
	default:
		cli.printUsage()
		return errHelp
	}
}
