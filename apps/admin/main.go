package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/settings"
	appfs "github.com/trezcool/wittayakom/fs"
	emailsvc "github.com/trezcool/wittayakom/services/email"
	logsvc "github.com/trezcool/wittayakom/services/logger"
	"github.com/trezcool/wittayakom/storage/database"
	"github.com/trezcool/wittayakom/storage/database/gormrepos"
	"github.com/trezcool/wittayakom/storage/database/sqlxrepos"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(err.Error(), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
	defer db.Close()
	gdb, err := database.OpenGorm(db.DB, conf)
	if err != nil {
		logger.Fatal(err.Error(), err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)
	account.LoadCommonPasswords(appfs.FS, account.CommonPasswordsPath, logger)

	// start CLI
	cli := commandLine{
		db:       db.DB,
		validate: validate,
		accSvc:   account.NewService(sqlxrepos.NewAccountRepository(db), emailsvc.NewConsoleService(conf, logger), conf),
		settings: settings.NewCache(
			gormrepos.NewSettingsRepository(gdb),
			settings.NewFileStore(conf.Storage.SettingsCachePath),
			logger,
		),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin: "+err.Error(), err)
		}
		db.Close()
		os.Exit(1)
	}
}
