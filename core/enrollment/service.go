package enrollment

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/settings"
	"github.com/trezcool/wittayakom/core/site"
)

var (
	// errors
	ErrNotFound     = errors.New("application not found")
	ErrEmptyLookup  = errors.New("please enter a name or an application number")
	lookupSeparator = "-"

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		GetApplication(ctx context.Context, id string) (Application, error)
		// FindApplicationByName returns the first application whose student name contains name (case-insensitive).
		FindApplicationByName(ctx context.Context, name string) (Application, error)
		// FindApplicationByIDFragment returns the first application whose ID contains frag (case-insensitive).
		FindApplicationByIDFragment(ctx context.Context, frag string) (Application, error)
		QueryApplications(ctx context.Context, filter *QueryFilter) ([]Application, error)
	}

	// ProgramSource lists the active curriculum programs.
	ProgramSource interface {
		CurriculumPrograms(ctx context.Context) ([]site.CurriculumProgram, error)
	}

	Service interface {
		Submitter
		Programs(ctx context.Context) []Program
		Lookup(ctx context.Context, query string) (Application, error)
		Get(ctx context.Context, id string) (Application, error)
		Query(ctx context.Context, filter QueryFilter) ([]Application, error)
		AcademicYear() string
	}

	service struct {
		repo     Repository
		programs ProgramSource
		settings *settings.Cache
		mailSvc  core.EmailService
		logger   core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	programs ProgramSource,
	settingsCache *settings.Cache,
	mailSvc core.EmailService,
	logger core.Logger,
) Service {
	return &service{
		repo:     repo,
		programs: programs,
		settings: settingsCache,
		mailSvc:  mailSvc,
		logger:   logger,
	}
}

// Programs returns the active curriculum programs, or FallbackPrograms when none could be fetched.
func (svc *service) Programs(ctx context.Context) []Program {
	progs, err := svc.programs.CurriculumPrograms(ctx)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching curriculum programs: %v", err), err)
		return FallbackPrograms
	}
	if len(progs) == 0 {
		return FallbackPrograms
	}
	res := make([]Program, 0, len(progs))
	for _, p := range progs {
		res = append(res, Program{Value: p.ID, Label: p.Title})
	}
	return res
}

func (svc *service) AcademicYear() string {
	return svc.settings.Get().Get(settings.KeyAcademicYear)
}

// Submit stores data as a new pending application and sends the confirmation email.
// data is expected to be validated already (see Wizard.Submit).
func (svc *service) Submit(ctx context.Context, data FormData) (Application, error) {
	now := nowFunc().UTC()
	app := Application{
		Prefix:           data.Prefix,
		FirstName:        data.FirstName,
		LastName:         data.LastName,
		StudentName:      data.StudentName(),
		IDCard:           data.IDCard,
		BirthDate:        data.BirthDate,
		Nationality:      data.Nationality,
		Religion:         data.Religion,
		Gender:           DeriveGender(data.Prefix),
		Phone:            data.Phone,
		Email:            data.Email,
		Address:          data.Address,
		FatherName:       data.FatherName,
		FatherPhone:      data.FatherPhone,
		FatherOccupation: data.FatherOccupation,
		MotherName:       data.MotherName,
		MotherPhone:      data.MotherPhone,
		MotherOccupation: data.MotherOccupation,
		PreviousSchool:   data.PreviousSchool,
		PreviousLevel:    data.PreviousLevel,
		GPA:              data.GPA,
		EnrollLevel:      data.EnrollLevel,
		Program:          ProgramLabel(svc.Programs(ctx), data.Program),
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	app, err := svc.repo.CreateApplication(ctx, app)
	if err != nil {
		return Application{}, errors.Wrap(err, "creating application")
	}
	svc.sendConfirmationMail(app)
	return app, nil
}

func (svc *service) sendConfirmationMail(app Application) {
	if svc.mailSvc == nil || app.Email == "" {
		return
	}
	s := svc.settings.Get()
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: app.StudentName, Address: app.Email}},
		Subject:      "Enrollment application received",
		TemplateName: "enrollment_submitted",
		TemplateData: map[string]interface{}{
			"Application": app,
			"Number":      app.Number(s.Get(settings.KeyAcademicYear)),
			"SchoolName":  s.Get(settings.KeySchoolName),
		},
	})
}

// Lookup finds one submitted application from free text: first by name, then, when the text contains
// a separator, by the trailing token as an ID fragment (e.g. the last part of an application number).
func (svc *service) Lookup(ctx context.Context, query string) (Application, error) {
	query = core.CleanString(query)
	if query == "" {
		return Application{}, core.NewValidationError(ErrEmptyLookup, core.FieldError{Field: "q", Error: ErrEmptyLookup.Error()})
	}

	app, err := svc.repo.FindApplicationByName(ctx, query)
	if err == nil || errors.Cause(err) != ErrNotFound {
		return app, err
	}

	if strings.Contains(query, lookupSeparator) {
		frag := query[strings.LastIndex(query, lookupSeparator)+len(lookupSeparator):]
		if frag = core.CleanString(frag); frag != "" {
			return svc.repo.FindApplicationByIDFragment(ctx, frag)
		}
	}
	return Application{}, ErrNotFound
}

func (svc *service) Get(ctx context.Context, id string) (Application, error) {
	return svc.repo.GetApplication(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Application, error) {
	filter.Clean()
	return svc.repo.QueryApplications(ctx, &filter)
}
