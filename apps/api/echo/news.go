package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/news"
)

var maxCoverSize int64 = 10 << 20

type (
	MoveResponse struct {
		Moved    bool           `json:"moved"`
		Articles []news.Article `json:"articles"`
	}

	CoverResponse struct {
		URL string `json:"url"`
	}
)

type newsApi struct {
	svc      news.Service
	validate *validator.Validate
	logger   core.Logger
}

func registerNewsAPI(g *echo.Group, admin []echo.MiddlewareFunc, opts *Options) {
	api := newsApi{
		svc:      opts.NewsSvc,
		validate: opts.Validate,
		logger:   opts.Logger,
	}

	ng := g.Group("/news")

	// public endpoints
	ng.GET("/public", api.listPublished)
	ng.GET("/public/:id", api.retrievePublished)
	ng.POST("/:id/view", api.countView)

	// admin endpoints
	ag := ng.Group("", admin...)
	ag.GET("", api.list)
	ag.POST("", api.create)
	ag.GET("/categories", api.categories)
	ag.POST("/covers", api.uploadCover)
	ag.PUT("/reorder", api.reorder)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.delete)
	ag.POST("/:id/move", api.move)
	ag.POST("/:id/publish", api.togglePublish)
}

func newsFilter(ctx echo.Context) (news.QueryFilter, error) {
	filter := news.QueryFilter{
		Search:   ctx.QueryParam("search"),
		Category: ctx.QueryParam("category"),
	}
	if raw := ctx.QueryParam("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "published must be a boolean")
		}
		filter.Published = &published
	}
	return filter, nil
}

// Handlers

func (api *newsApi) list(ctx echo.Context) error {
	filter, err := newsFilter(ctx)
	if err != nil {
		return err
	}
	articles, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying articles")
	}
	return ctx.JSON(http.StatusOK, articles)
}

func (api *newsApi) listPublished(ctx echo.Context) error {
	filter, err := newsFilter(ctx)
	if err != nil {
		return err
	}
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
	}
	articles, err := api.svc.QueryPublished(ctx.Request().Context(), filter, limit)
	if err != nil {
		return errors.Wrap(err, "querying published articles")
	}
	return ctx.JSON(http.StatusOK, articles)
}

func (api *newsApi) retrieve(ctx echo.Context) error {
	a, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting article")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *newsApi) retrievePublished(ctx echo.Context) error {
	a, err := api.svc.GetPublished(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting published article")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *newsApi) countView(ctx echo.Context) error {
	if err := api.svc.IncrementViews(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "incrementing views")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *newsApi) categories(ctx echo.Context) error {
	cats, err := api.svc.Categories(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	return ctx.JSON(http.StatusOK, cats)
}

func (api *newsApi) create(ctx echo.Context) error {
	var form news.Form
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to news.Form")
	}
	if err := form.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), form)
	if err != nil {
		return errors.Wrap(err, "creating article")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *newsApi) update(ctx echo.Context) error {
	var form news.Form
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to news.Form")
	}
	if err := form.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), form)
	if err != nil {
		return errors.Wrap(err, "updating article")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *newsApi) delete(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting article")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *newsApi) togglePublish(ctx echo.Context) error {
	a, err := api.svc.TogglePublish(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "toggling publish")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *newsApi) reorder(ctx echo.Context) error {
	var data news.ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to news.ReorderRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	articles, err := api.svc.Reorder(ctx.Request().Context(), data.IDs)
	if err != nil {
		return errors.Wrap(err, "reordering articles")
	}
	return ctx.JSON(http.StatusOK, articles)
}

func (api *newsApi) move(ctx echo.Context) error {
	var data news.MoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to news.MoveRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	articles, moved, err := api.svc.Move(ctx.Request().Context(), ctx.Param("id"), *data.Position)
	if err != nil {
		return errors.Wrap(err, "moving article")
	}
	return ctx.JSON(http.StatusOK, MoveResponse{Moved: moved, Articles: articles})
}

func (api *newsApi) uploadCover(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > maxCoverSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	url, err := api.svc.UploadCover(ctx.Request().Context(), fh.Filename, f)
	if err != nil {
		return errors.Wrap(err, "uploading cover")
	}
	return ctx.JSON(http.StatusCreated, CoverResponse{URL: url})
}
