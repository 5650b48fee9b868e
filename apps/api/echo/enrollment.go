package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/enrollment"
)

type (
	// WizardRequest carries the client-held wizard state.
	WizardRequest struct {
		Step enrollment.Step     `json:"step"`
		Data enrollment.FormData `json:"data"`
	}

	WizardResponse struct {
		Step     enrollment.Step     `json:"step"`
		StepName string              `json:"step_name"`
		Data     enrollment.FormData `json:"data"`
	}

	SubmitResponse struct {
		Number      string                 `json:"number"`
		Application enrollment.Application `json:"application"`
	}

	ProgramsResponse struct {
		AcademicYear   string               `json:"academic_year"`
		Programs       []enrollment.Program `json:"programs"`
		Prefixes       []string             `json:"prefixes"`
		PreviousLevels []string             `json:"previous_levels"`
		EnrollLevels   []string             `json:"enroll_levels"`
	}
)

func newWizardResponse(w *enrollment.Wizard) WizardResponse {
	return WizardResponse{Step: w.Step, StepName: w.Step.String(), Data: w.Data}
}

type enrollmentApi struct {
	svc      enrollment.Service
	validate *validator.Validate
	logger   core.Logger
}

func registerEnrollmentAPI(g *echo.Group, admin []echo.MiddlewareFunc, opts *Options) {
	api := enrollmentApi{
		svc:      opts.EnrollmentSvc,
		validate: opts.Validate,
		logger:   opts.Logger,
	}

	eg := g.Group("/enrollment")

	// public endpoints
	eg.GET("/programs", api.programs)
	eg.POST("/wizard/next", api.next)
	eg.POST("/wizard/back", api.back)
	eg.POST("/submit", api.submit)
	eg.GET("/lookup", api.lookup)

	// admin endpoints
	eg.GET("/applications", api.listApplications, admin...)
	eg.GET("/applications/:id", api.retrieveApplication, admin...)
}

func (api *enrollmentApi) resume(ctx echo.Context) (*enrollment.Wizard, error) {
	var data WizardRequest
	if err := ctx.Bind(&data); err != nil {
		return nil, errors.Wrap(err, "binding to WizardRequest")
	}
	return enrollment.ResumeWizard(data.Step, data.Data)
}

// Handlers

func (api *enrollmentApi) programs(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ProgramsResponse{
		AcademicYear:   api.svc.AcademicYear(),
		Programs:       api.svc.Programs(ctx.Request().Context()),
		Prefixes:       enrollment.Prefixes,
		PreviousLevels: enrollment.PreviousLevels,
		EnrollLevels:   enrollment.EnrollLevels,
	})
}

func (api *enrollmentApi) next(ctx echo.Context) error {
	w, err := api.resume(ctx)
	if err != nil {
		return err
	}
	if err := w.Next(api.validate); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newWizardResponse(w))
}

func (api *enrollmentApi) back(ctx echo.Context) error {
	w, err := api.resume(ctx)
	if err != nil {
		return err
	}
	if err := w.Back(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newWizardResponse(w))
}

func (api *enrollmentApi) submit(ctx echo.Context) error {
	w, err := api.resume(ctx)
	if err != nil {
		return err
	}
	app, err := w.Submit(ctx.Request().Context(), api.validate, api.svc)
	if err != nil {
		return errors.Wrap(err, "submitting application")
	}
	return ctx.JSON(http.StatusCreated, SubmitResponse{
		Number:      app.Number(api.svc.AcademicYear()),
		Application: app,
	})
}

func (api *enrollmentApi) lookup(ctx echo.Context) error {
	app, err := api.svc.Lookup(ctx.Request().Context(), ctx.QueryParam("q"))
	if err != nil {
		return errors.Wrap(err, "looking application up")
	}
	return ctx.JSON(http.StatusOK, app.LookupResult(api.svc.AcademicYear()))
}

func (api *enrollmentApi) listApplications(ctx echo.Context) error {
	filter := enrollment.QueryFilter{
		Search: ctx.QueryParam("search"),
		Status: ctx.QueryParam("status"),
	}
	apps, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *enrollmentApi) retrieveApplication(ctx echo.Context) error {
	app, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting application")
	}
	return ctx.JSON(http.StatusOK, app)
}
