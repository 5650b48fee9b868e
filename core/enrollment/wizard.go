package enrollment

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Step is a state of the enrollment wizard.
type Step int

const (
	StepStudent Step = iota + 1
	StepGuardian
	StepAcademic
	StepReview
	StepSubmitted
)

var (
	// errors
	ErrInvalidStep       = errors.New("invalid wizard step")
	ErrInvalidTransition = errors.New("this action is not allowed at the current step")

	stepNames = map[Step]string{
		StepStudent:   "student",
		StepGuardian:  "guardian",
		StepAcademic:  "academic",
		StepReview:    "review",
		StepSubmitted: "submitted",
	}

	// stepFields lists the FormData fields validated before leaving each step.
	stepFields = map[Step][]string{
		StepStudent: {
			"Prefix", "FirstName", "LastName", "IDCard", "BirthDate",
			"Nationality", "Religion", "Phone", "Email", "Address",
		},
		StepGuardian: {
			"FatherName", "FatherPhone", "FatherOccupation",
			"MotherName", "MotherPhone", "MotherOccupation",
		},
		StepAcademic: {"PreviousSchool", "PreviousLevel", "GPA", "EnrollLevel", "Program"},
		StepReview:   {"AgreeTerms", "AgreePrivacy"},
	}
)

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Step) Valid() bool {
	return s >= StepStudent && s <= StepSubmitted
}

// Fields returns the names of the FormData fields owned by the step.
func (s Step) Fields() []string {
	return stepFields[s]
}

// Submitter persists a validated form.
type Submitter interface {
	Submit(ctx context.Context, data FormData) (Application, error)
}

// Wizard is the enrollment form state machine:
// student -> guardian -> academic -> review -> submitted.
type Wizard struct {
	Step        Step         `json:"step"`
	Data        FormData     `json:"data"`
	Application *Application `json:"application,omitempty"` // set once submitted
}

func NewWizard() *Wizard {
	return &Wizard{Step: StepStudent, Data: NewFormData()}
}

// ResumeWizard rebuilds a wizard at step with the data accumulated so far.
func ResumeWizard(step Step, data FormData) (*Wizard, error) {
	if !step.Valid() || step == StepSubmitted {
		return nil, ErrInvalidStep
	}
	return &Wizard{Step: step, Data: data}, nil
}

// ValidateStep only validates the fields owned by step.
func (w *Wizard) ValidateStep(validate *validator.Validate, step Step) error {
	flds := step.Fields()
	if len(flds) == 0 {
		return nil
	}
	w.Data.Clean()
	return validate.StructPartial(w.Data, flds...)
}

// Next validates the current step and moves forward. On failure the step does not change.
func (w *Wizard) Next(validate *validator.Validate) error {
	if w.Step >= StepReview {
		return ErrInvalidTransition
	}
	if err := w.ValidateStep(validate, w.Step); err != nil {
		return err
	}
	w.Step++
	return nil
}

// Back moves to the previous step without validation. It is a no-op on the first step.
func (w *Wizard) Back() error {
	if w.Step == StepSubmitted {
		return ErrInvalidTransition
	}
	if w.Step > StepStudent {
		w.Step--
	}
	return nil
}

// Submit validates every step, agreements included, and hands the data to sub.
// It is only allowed from the review step; on any failure the wizard stays there.
func (w *Wizard) Submit(ctx context.Context, validate *validator.Validate, sub Submitter) (Application, error) {
	if w.Step != StepReview {
		return Application{}, ErrInvalidTransition
	}
	w.Data.Clean()
	if err := validate.Struct(w.Data); err != nil {
		return Application{}, err
	}
	app, err := sub.Submit(ctx, w.Data)
	if err != nil {
		return Application{}, err
	}
	w.Step = StepSubmitted
	w.Application = &app
	return app, nil
}
