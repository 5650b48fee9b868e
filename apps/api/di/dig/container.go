// Package dig_container wires the api dependencies with go.uber.org/dig.
package dig_container

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/wittayakom/apps/api/echo"
	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/core/news"
	"github.com/trezcool/wittayakom/core/settings"
	"github.com/trezcool/wittayakom/core/site"
	emailsvc "github.com/trezcool/wittayakom/services/email"
	logsvc "github.com/trezcool/wittayakom/services/logger"
	"github.com/trezcool/wittayakom/storage"
	imagestore "github.com/trezcool/wittayakom/storage/images"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	repositories struct {
		dig.Out
		Accounts     account.Repository
		News         news.Repository
		Applications enrollment.Repository
		Settings     settings.Repository
		Site         site.Repository
	}

	// Shutdown is closed once a handler reports an integrity issue.
	Shutdown struct {
		C    <-chan struct{}
		once sync.Once
		ch   chan struct{}
	}

	serverParams struct {
		dig.In
		Conf          *core.Config
		Logger        core.Logger
		Validate      *validator.Validate
		Shutdown      *Shutdown
		AccountSvc    account.Service
		NewsSvc       news.Service
		EnrollmentSvc enrollment.Service
		SiteSvc       *site.Service
		Settings      *settings.Cache
	}
)

func (s *Shutdown) signal() { s.once.Do(func() { close(s.ch) }) }

func newShutdown() *Shutdown {
	ch := make(chan struct{})
	return &Shutdown{C: ch, ch: ch}
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) *storage.Repositories {
	repos, err := storage.Open(conf, loggerParam.Logger)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	return repos
}

func splitRepositories(repos *storage.Repositories) repositories {
	return repositories{
		Accounts:     repos.Accounts,
		News:         repos.News,
		Applications: repos.Applications,
		Settings:     repos.Settings,
		Site:         repos.Site,
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newSettingsCache(conf *core.Config, repo settings.Repository, logger core.Logger) *settings.Cache {
	return settings.NewCache(repo, settings.NewFileStore(conf.Storage.SettingsCachePath), logger)
}

func newEnrollmentService(
	repo enrollment.Repository,
	siteSvc *site.Service,
	cache *settings.Cache,
	mailSvc core.EmailService,
	logger core.Logger,
) enrollment.Service {
	return enrollment.NewService(repo, siteSvc, cache, mailSvc, logger)
}

func newServer(p serverParams) echoapi.Server {
	translator := core.NewTranslator()
	core.InitValidators(p.Validate, translator)
	account.InitValidators(p.Validate, translator)

	return echoapi.NewServer(&echoapi.Options{
		Conf:           p.Conf,
		Logger:         p.Logger,
		Validate:       p.Validate,
		Translator:     translator,
		SignalShutdown: p.Shutdown.signal,
		AccountSvc:     p.AccountSvc,
		NewsSvc:        p.NewsSvc,
		EnrollmentSvc:  p.EnrollmentSvc,
		SiteSvc:        p.SiteSvc,
		Settings:       p.Settings,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(splitRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(imagestore.New))
	must(c.Provide(newSettingsCache))
	must(c.Provide(site.NewService))
	must(c.Provide(account.NewService))
	must(c.Provide(news.NewService))
	must(c.Provide(newEnrollmentService))
	must(c.Provide(validator.New))
	must(c.Provide(newShutdown))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
