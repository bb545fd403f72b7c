package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/bhavyajain7773/ATF-Design/apps/api/echo"
	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/state"
	"github.com/bhavyajain7773/ATF-Design/services/email"
	"github.com/bhavyajain7773/ATF-Design/services/logger"
	"github.com/bhavyajain7773/ATF-Design/storage"
	"github.com/bhavyajain7773/ATF-Design/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	seed, err := course.SeedCatalog()
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading seed catalog: %v", err), err)
	}

	// set up storage
	ctx := context.Background()
	backend, closeBackend, err := database.OpenBackend(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err = closeBackend(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()
	store := storage.NewStore(backend, dbLogger, seed, conf.Storage.Quota)

	// the API is the only writer while it runs: the admin CLI refuses to write meanwhile
	lock, err := store.Lock(ctx, "api")
	if err != nil {
		logger.Fatal(fmt.Sprintf("locking storage: %v", err), err)
	}
	defer func() {
		if err = store.Unlock(context.Background(), lock); err != nil {
			dbLogger.Error(fmt.Sprintf("releasing storage lock: %v", err), err)
		}
	}()

	// set up services
	mailSvc := emailsvc.NewService(conf, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	if err = core.ParseEmailTemplates(); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	app, err := state.New(ctx, state.Options{
		Store:   store,
		Logger:  logger,
		MailSvc: mailSvc,
		Conf:    conf,
		Seed:    seed,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("restoring state: %v", err), err)
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:   conf,
		Logger: logger,
		App:    app,
	})

	go func() {
		server.Start()
	}()
	logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
