package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/wittayakom/apps/api/echo"
	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/core/news"
	"github.com/trezcool/wittayakom/core/settings"
	"github.com/trezcool/wittayakom/core/site"
	appfs "github.com/trezcool/wittayakom/fs"
	emailsvc "github.com/trezcool/wittayakom/services/email"
	logsvc "github.com/trezcool/wittayakom/services/logger"
	"github.com/trezcool/wittayakom/storage"
	imagestore "github.com/trezcool/wittayakom/storage/images"
)

func startManual() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	repos, err := storage.Open(conf, dbLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err = repos.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	cache := settings.NewCache(repos.Settings, settings.NewFileStore(conf.Storage.SettingsCachePath), logger)
	siteSvc := site.NewService(repos.Site)
	accSvc := account.NewService(repos.Accounts, mailSvc, conf)
	newsSvc := news.NewService(repos.News, imagestore.New(conf), logger)
	enrSvc := enrollment.NewService(repos.Applications, siteSvc, cache, mailSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)

	core.ParseEmailTemplates(appfs.FS, "templates/email", conf, logger)

	account.LoadCommonPasswords(appfs.FS, account.CommonPasswordsPath, logger)

	cache.RefreshAsync()

	// =========================================================================
	// Start API Service

	signalShutdown, shutdown := newShutdownSignal()
	server := echoapi.NewServer(
		&echoapi.Options{
			Conf:           conf,
			Logger:         logger,
			Validate:       validate,
			Translator:     translator,
			SignalShutdown: signalShutdown,
			AccountSvc:     accSvc,
			NewsSvc:        newsSvc,
			EnrollmentSvc:  enrSvc,
			SiteSvc:        siteSvc,
			Settings:       cache,
		},
	)
	serve(conf, logger, server, shutdown)
}
