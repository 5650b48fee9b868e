// Package storage opens the repositories backing the app, as selected by the configured engine.
package storage

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/core/news"
	"github.com/trezcool/wittayakom/core/settings"
	"github.com/trezcool/wittayakom/core/site"
	"github.com/trezcool/wittayakom/storage/database"
	"github.com/trezcool/wittayakom/storage/database/gormrepos"
	"github.com/trezcool/wittayakom/storage/database/inmem"
	"github.com/trezcool/wittayakom/storage/database/sqlxrepos"
)

const (
	EnginePostgres = "postgres"
	EngineMemory   = "memory"
)

type Repositories struct {
	Accounts     account.Repository
	News         news.Repository
	Applications enrollment.Repository
	Settings     settings.Repository
	Site         site.Repository

	close func() error
}

// Close releases the underlying connection pool, if any.
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open sets up the configured storage engine. PostgreSQL databases are created and migrated when needed.
func Open(conf *core.Config, logger core.Logger) (*Repositories, error) {
	switch conf.Storage.Engine {
	case EngineMemory:
		logger.Warn("using the in-memory storage: nothing will be persisted")
		db := inmemdb.NewDB()
		return &Repositories{
			Accounts:     inmemdb.NewAccountRepository(db),
			News:         inmemdb.NewNewsRepository(db),
			Applications: inmemdb.NewApplicationRepository(db),
			Settings:     inmemdb.NewSettingsRepository(db),
			Site:         inmemdb.NewSiteRepository(db),
		}, nil

	case EnginePostgres, "":
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		gdb, err := database.OpenGorm(db.DB, conf)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Repositories{
			Accounts:     sqlxrepos.NewAccountRepository(db),
			News:         sqlxrepos.NewNewsRepository(db),
			Applications: sqlxrepos.NewApplicationRepository(db),
			Settings:     gormrepos.NewSettingsRepository(gdb),
			Site:         gormrepos.NewSiteRepository(gdb),
			close:        db.Close,
		}, nil
	}
	return nil, errors.New(fmt.Sprintf("unknown storage engine %q", conf.Storage.Engine))
}
