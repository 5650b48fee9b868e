package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core/settings"
)

type settingsApi struct {
	cache    *settings.Cache
	hub      *hub
	validate *validator.Validate
}

func registerSettingsAPI(g *echo.Group, admin []echo.MiddlewareFunc, h *hub, opts *Options) {
	api := settingsApi{
		cache:    opts.Settings,
		hub:      h,
		validate: opts.Validate,
	}

	sg := g.Group("/settings")
	sg.GET("", api.retrieve)
	sg.GET("/ws", api.subscribe)
	sg.PUT("", api.update, admin...)
	sg.POST("/refresh", api.refresh, admin...)
}

// Handlers

func (api *settingsApi) retrieve(ctx echo.Context) error {
	api.cache.RefreshAsync()
	return ctx.JSON(http.StatusOK, api.cache.Get())
}

func (api *settingsApi) subscribe(ctx echo.Context) error {
	return api.hub.serve(ctx.Response(), ctx.Request(), api.cache.Get())
}

func (api *settingsApi) update(ctx echo.Context) error {
	var data settings.Update
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to settings.Update")
	}
	s, err := api.cache.Update(ctx.Request().Context(), api.validate, data)
	if err != nil {
		return errors.Wrap(err, "updating settings")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *settingsApi) refresh(ctx echo.Context) error {
	s, err := api.cache.Refresh(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "refreshing settings")
	}
	return ctx.JSON(http.StatusOK, s)
}
