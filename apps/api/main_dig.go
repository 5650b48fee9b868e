package main

import (
	"fmt"
	"log"

	dig_container "github.com/trezcool/wittayakom/apps/api/di/dig"
	echoapi "github.com/trezcool/wittayakom/apps/api/echo"
	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/settings"
	appfs "github.com/trezcool/wittayakom/fs"
	"github.com/trezcool/wittayakom/storage"
)

func startWithDig() {
	c := dig_container.New(core.NewConfig)

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		repos *storage.Repositories,
		cache *settings.Cache,
		shutdown *dig_container.Shutdown,
		server echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		core.ParseEmailTemplates(appfs.FS, "templates/email", conf, apiLogger)

		account.LoadCommonPasswords(appfs.FS, account.CommonPasswordsPath, apiLogger)

		cache.RefreshAsync()

		dbLogger := dbLoggerParam.Logger
		defer func() {
			if err := repos.Close(); err != nil {
				dbLogger.Error("Failed to close", err)
			}
		}()
		defer apiLogger.Info("Application stopped")

		serve(conf, apiLogger, server, shutdown.C)
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
