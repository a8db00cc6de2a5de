package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"

	echoapi "github.com/ArbeitTechnology/tausif-lms-sub000/apps/api/echo"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/draft"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
	emailsvc "github.com/ArbeitTechnology/tausif-lms-sub000/services/email"
	logsvc "github.com/ArbeitTechnology/tausif-lms-sub000/services/logger"
	"github.com/ArbeitTechnology/tausif-lms-sub000/services/remote"
	"github.com/ArbeitTechnology/tausif-lms-sub000/storage/inmem"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		return err
	}
	if conf.SecretKey == "" {
		return errors.Errorf("%s_SECRETKEY is required to verify bearer tokens", conf.Env)
	}

	// set up loggers
	console, err := logsvc.NewConsoleLogger(conf)
	if err != nil {
		return err
	}
	defer console.Sync()

	var logger core.Logger = console
	if conf.RollbarToken != "" {
		rollbar := logsvc.NewRollbarLogger(console, conf)
		rollbar.Enable(!conf.Debug)
		defer rollbar.Close()
		logger = rollbar
	}

	templates, err := core.LoadEmailTemplates(filepath.Join(conf.WorkDir, "assets", "templates", "email"), !conf.Debug)
	if err != nil {
		return err
	}

	// set up services
	mailSvc := emailsvc.New(conf, templates, logger)
	notifier := emailsvc.NewNotifier(mailSvc, conf)
	client := remote.NewClient(conf.Remote)
	draftSvc := draft.NewService(
		inmem.NewDraftRepository(),
		remote.NewCourseClient(client),
		notifier,
		conf.Server.UploadDir,
		logger,
	)
	questionSvc := qbank.NewService(inmem.NewBatchRepository(), remote.NewQuestionClient(client), notifier, logger)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:       conf.Server.Address,
		Debug:         conf.Debug,
		TestMode:      conf.TestMode,
		MaxUploadSize: conf.Server.MaxUploadSize,
		Shutdown:      shutdown,
		SecretKey:     []byte(conf.SecretKey),
		Logger:        logger,
		DraftSvc:      draftSvc,
		QuestionSvc:   questionSvc,
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("server error", err)
			return err
		}
	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error("could not stop server gracefully", err)
			return err
		}
	}
	return nil
}
