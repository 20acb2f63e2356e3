package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/darasoft/shule/apps/api/echo"
	"github.com/darasoft/shule/core"
	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/message"
	"github.com/darasoft/shule/core/school"
	"github.com/darasoft/shule/core/user"
	emailsvc "github.com/darasoft/shule/services/email"
	logsvc "github.com/darasoft/shule/services/logger"
	inmemdb "github.com/darasoft/shule/storage/database/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}
	logger.Enable(!core.Conf.TestMode)

	// set up DB
	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	if err = inmemdb.SeedDemoData(db); err != nil {
		logger.Fatal(fmt.Sprintf("seeding demo data: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrRepo := inmemdb.NewUserRepository(db)
	schRepo := inmemdb.NewSchoolRepository(db)
	msgRepo := inmemdb.NewMessageRepository(db)

	usrSvc := user.NewService(usrRepo, mailSvc)
	schSvc := school.NewService(schRepo, usrRepo)
	msgSvc := message.NewService(msgRepo, usrRepo, mailSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)
	school.RegisterValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.Options{
			Addr:       core.Conf.Address(),
			Logger:     logger,
			UserSvc:    usrSvc,
			SchoolSvc:  schSvc,
			MessageSvc: msgSvc,
			Authz:      authz.NewEngine(schRepo),
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	sig := <-server.ShutdownSignal()
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}
