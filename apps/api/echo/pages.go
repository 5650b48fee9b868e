package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/core/news"
	"github.com/trezcool/wittayakom/core/settings"
	"github.com/trezcool/wittayakom/core/site"
)

const homeNewsLimit = 4

type pages struct {
	settings   *settings.Cache
	site       *site.Service
	news       news.Service
	enrollment enrollment.Service
	logger     core.Logger
}

func registerPages(app *echo.Echo, opts *Options) {
	p := pages{
		settings:   opts.Settings,
		site:       opts.SiteSvc,
		news:       opts.NewsSvc,
		enrollment: opts.EnrollmentSvc,
		logger:     opts.Logger,
	}

	app.GET("/", p.home)
	app.GET("/about", p.about)
	app.GET("/administrators", p.administrators)
	app.GET("/staff", p.staff)
	app.GET("/students", p.students)
	app.GET("/curriculum", p.curriculum)
	app.GET("/gallery", p.simple("gallery", "แกลเลอรี่"))
	app.GET("/calendar", p.simple("calendar", "ปฏิทินการศึกษา"))
	app.GET("/news", p.newsPage)
	app.GET("/enrollment", p.enrollmentPage)
	app.GET("/enrollment/:id/print", p.enrollmentPrint)
	app.GET("/contact", p.simple("contact", "ติดต่อเรา"))
}

// page starts a fresh settings refresh for the next render and returns the current snapshot.
func (p *pages) page(ctx echo.Context, title string) *PageData {
	p.settings.RefreshAsync()
	return &PageData{
		Title:    title,
		Path:     ctx.Path(),
		Settings: p.settings.Get(),
		Nav:      navLinks,
	}
}

// fetch runs one section fetch. A failure is logged and noticed on the page, the section renders empty.
func (p *pages) fetch(pd *PageData, section string, fn func() error) {
	if err := fn(); err != nil {
		p.logger.Error(fmt.Sprintf("page %s: fetching %s: %v", pd.Path, section, err), err)
		pd.notice(section)
	}
}

func (p *pages) simple(name, title string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.Render(http.StatusOK, name, p.page(ctx, title))
	}
}

// Handlers

func (p *pages) home(ctx echo.Context) error {
	pd := p.page(ctx, "หน้าแรก")
	c := ctx.Request().Context()

	var data struct {
		News     []news.Article
		Programs []site.CurriculumProgram
		Admins   []site.Administrator
	}
	p.fetch(pd, "news", func() (err error) {
		data.News, err = p.news.QueryPublished(c, news.QueryFilter{}, homeNewsLimit)
		return
	})
	p.fetch(pd, "curriculum", func() (err error) {
		data.Programs, err = p.site.CurriculumPrograms(c)
		return
	})
	p.fetch(pd, "administrators", func() (err error) {
		data.Admins, err = p.site.Administrators(c)
		return
	})
	pd.Data = data
	return ctx.Render(http.StatusOK, "home", pd)
}

func (p *pages) about(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "about", p.page(ctx, "เกี่ยวกับเรา"))
}

func (p *pages) administrators(ctx echo.Context) error {
	pd := p.page(ctx, "ผู้บริหาร")
	var admins []site.Administrator
	p.fetch(pd, "administrators", func() (err error) {
		admins, err = p.site.Administrators(ctx.Request().Context())
		return
	})
	pd.Data = admins
	return ctx.Render(http.StatusOK, "administrators", pd)
}

func (p *pages) staff(ctx echo.Context) error {
	pd := p.page(ctx, "บุคลากร")
	pd.Data = p.site.Staff()
	return ctx.Render(http.StatusOK, "staff", pd)
}

func (p *pages) students(ctx echo.Context) error {
	pd := p.page(ctx, "นักเรียน")
	c := ctx.Request().Context()

	var data struct {
		Stats        []site.StudentStat
		Grades       []site.GradeLevel
		Totals       site.GradeLevel
		Achievements []site.Achievement
		Activities   []site.StudentActivity
		Council      []site.StudentCouncilMember
	}
	p.fetch(pd, "stats", func() (err error) {
		data.Stats, err = p.site.StudentStats(c)
		return
	})
	p.fetch(pd, "grades", func() (err error) {
		data.Grades, err = p.site.GradeLevels(c)
		return
	})
	data.Totals = site.GradeTotals(data.Grades)
	p.fetch(pd, "achievements", func() (err error) {
		data.Achievements, err = p.site.Achievements(c)
		return
	})
	p.fetch(pd, "activities", func() (err error) {
		data.Activities, err = p.site.StudentActivities(c)
		return
	})
	p.fetch(pd, "council", func() (err error) {
		data.Council, err = p.site.StudentCouncil(c)
		return
	})
	pd.Data = data
	return ctx.Render(http.StatusOK, "students", pd)
}

func (p *pages) curriculum(ctx echo.Context) error {
	pd := p.page(ctx, "หลักสูตร")
	c := ctx.Request().Context()

	var data struct {
		Programs   []site.CurriculumProgram
		Activities []site.CurriculumActivity
	}
	p.fetch(pd, "programs", func() (err error) {
		data.Programs, err = p.site.CurriculumPrograms(c)
		return
	})
	p.fetch(pd, "activities", func() (err error) {
		data.Activities, err = p.site.CurriculumActivities(c)
		return
	})
	pd.Data = data
	return ctx.Render(http.StatusOK, "curriculum", pd)
}

func (p *pages) newsPage(ctx echo.Context) error {
	pd := p.page(ctx, "ข่าวสาร")
	c := ctx.Request().Context()

	var data struct {
		Filter     news.QueryFilter
		Articles   []news.Article
		Categories []string
		Selected   *news.Article
	}
	data.Filter = news.QueryFilter{Search: ctx.QueryParam("search"), Category: ctx.QueryParam("category")}

	if id := ctx.QueryParam("id"); id != "" {
		a, err := p.news.GetPublished(c, id)
		switch {
		case err == nil:
			data.Selected = &a
			p.countView(c, id)
		case errors.Cause(err) != news.ErrNotFound:
			p.logger.Error(fmt.Sprintf("page %s: fetching article %s: %v", pd.Path, id, err), err)
			pd.notice("article")
		}
	}

	p.fetch(pd, "news", func() (err error) {
		data.Articles, err = p.news.QueryPublished(c, data.Filter, 0)
		return
	})
	p.fetch(pd, "categories", func() (err error) {
		data.Categories, err = p.news.Categories(c)
		return
	})
	pd.Data = data
	return ctx.Render(http.StatusOK, "news", pd)
}

func (p *pages) countView(ctx context.Context, id string) {
	if err := p.news.IncrementViews(ctx, id); err != nil {
		p.logger.Warn(fmt.Sprintf("incrementing views of article %s: %v", id, err), err)
	}
}

func (p *pages) enrollmentPage(ctx echo.Context) error {
	pd := p.page(ctx, "สมัครเรียน")
	c := ctx.Request().Context()

	data := struct {
		Programs       []enrollment.Program
		Prefixes       []string
		PreviousLevels []string
		EnrollLevels   []string
		Query          string
		Found          *enrollment.LookupResult
		PrintID        string // only known to whoever looked the application up by its number
		NotFound       bool
	}{
		Programs:       p.enrollment.Programs(c),
		Prefixes:       enrollment.Prefixes,
		PreviousLevels: enrollment.PreviousLevels,
		EnrollLevels:   enrollment.EnrollLevels,
		Query:          core.CleanString(ctx.QueryParam("q")),
	}

	if data.Query != "" {
		app, err := p.enrollment.Lookup(c, data.Query)
		switch {
		case err == nil:
			res := app.LookupResult(p.enrollment.AcademicYear())
			data.Found = &res
			if strings.EqualFold(data.Query, res.Number) {
				data.PrintID = app.ID
			}
		case errors.Cause(err) == enrollment.ErrNotFound:
			data.NotFound = true
		default:
			p.logger.Error(fmt.Sprintf("page %s: looking up %q: %v", pd.Path, data.Query, err), err)
			pd.notice("lookup")
		}
	}
	pd.Data = data
	return ctx.Render(http.StatusOK, "enrollment", pd)
}

func (p *pages) enrollmentPrint(ctx echo.Context) error {
	app, err := p.enrollment.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting application")
	}
	s := p.settings.Get()
	pd := &PageData{
		Title:    "ใบสมัครเรียน",
		Path:     ctx.Path(),
		Settings: s,
		Data:     enrollment.NewSummary(app, s.Get(settings.KeySchoolName), s.Get(settings.KeyAcademicYear)),
	}
	return ctx.Render(http.StatusOK, "enrollment_print", pd)
}
