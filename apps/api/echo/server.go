package echoapi

import (
	"context"
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/core/news"
	"github.com/trezcool/wittayakom/core/settings"
	"github.com/trezcool/wittayakom/core/site"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		// SignalShutdown is called when a handler fails with a shutdown error.
		SignalShutdown func()

		AccountSvc    account.Service
		NewsSvc       news.Service
		EnrollmentSvc enrollment.Service
		SiteSvc       *site.Service
		Settings      *settings.Cache
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
		TokenFor(acc account.Account) (string, error)
	}

	server struct {
		opts  *Options
		app   *echo.Echo
		auth  *authenticator
		hub   *hub
		unsub func()
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.SignalShutdown == nil {
		opts.SignalShutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
		auth: newAuthenticator(opts.Conf, opts.AccountSvc),
		hub:  newHub(opts.Logger),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.auth, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug
	s.app.Renderer = mustNewRenderer(s.opts.Logger)

	if conf.Storage.ImagesBackend != "supabase" && conf.Storage.ImagesDir != "" {
		s.app.Static(conf.Storage.ImagesBaseURL, conf.Storage.ImagesDir)
	}

	registerPages(s.app, s.opts)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.auth.jwtConfig)
	admin := []echo.MiddlewareFunc{jwt, adminMiddleware(s.auth)}

	registerAccountAPI(v1, jwt, s.auth, s.opts)
	registerNewsAPI(v1, admin, s.opts)
	registerEnrollmentAPI(v1, admin, s.opts)
	registerSettingsAPI(v1, admin, s.hub, s.opts)

	// push every new settings snapshot to the websocket clients
	go s.hub.run()
	s.unsub = s.opts.Settings.Subscribe(s.hub.publish)
}

func (s *server) Start() error {
	s.opts.Logger.Info(fmt.Sprintf("api listening on %s", s.opts.Conf.Server.Address()))
	return s.app.Start(s.opts.Conf.Server.Address())
}

func (s *server) Stop(ctx context.Context) error {
	s.unsub()
	s.hub.stop()
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
