package enrollment

import (
	"fmt"
	"strings"
	"time"

	"github.com/trezcool/wittayakom/core"
)

// Application statuses
const (
	StatusPending   = "pending"
	StatusReviewing = "reviewing"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// Genders, as stored on the application
const (
	GenderMale   = "ชาย"
	GenderFemale = "หญิง"
)

var (
	Statuses = []string{StatusPending, StatusReviewing, StatusApproved, StatusRejected}

	Prefixes       = []string{"เด็กชาย", "เด็กหญิง", "นาย", "นางสาว"}
	PreviousLevels = []string{"ป.6", "ม.3"}
	EnrollLevels   = []string{"ม.1", "ม.4"}

	// FallbackPrograms is offered when no active curriculum program could be fetched.
	FallbackPrograms = []Program{
		{Value: "sci-math", Label: "วิทย์-คณิต"},
		{Value: "arts-lang", Label: "ศิลป์-ภาษา"},
		{Value: "arts-calc", Label: "ศิลป์-คำนวณ"},
		{Value: "computer", Label: "คอมพิวเตอร์"},
	}
)

// Program is one selectable study program.
type Program struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ProgramLabel maps value to its label, falling back to value itself.
func ProgramLabel(programs []Program, value string) string {
	for _, p := range programs {
		if p.Value == value {
			return p.Label
		}
	}
	return value
}

// DeriveGender infers the applicant gender from the name prefix.
func DeriveGender(prefix string) string {
	if strings.Contains(prefix, "ชาย") || prefix == "นาย" {
		return GenderMale
	}
	return GenderFemale
}

// FormData is the single record accumulated across the wizard steps.
type FormData struct {
	// student
	Prefix      string `json:"prefix" validate:"required"`
	FirstName   string `json:"first_name" validate:"required,min=2,max=50"`
	LastName    string `json:"last_name" validate:"required,min=2,max=50"`
	IDCard      string `json:"id_card" validate:"required,len=13"`
	BirthDate   string `json:"birth_date" validate:"required"`
	Nationality string `json:"nationality" validate:"required"`
	Religion    string `json:"religion" validate:"required"`
	Phone       string `json:"phone" validate:"required,min=9,max=10"`
	Email       string `json:"email" validate:"required,email"`
	Address     string `json:"address" validate:"required,min=10"`

	// guardian
	FatherName       string `json:"father_name" validate:"required,min=2,max=100"`
	FatherPhone      string `json:"father_phone" validate:"required,min=9,max=10"`
	FatherOccupation string `json:"father_occupation" validate:"required"`
	MotherName       string `json:"mother_name" validate:"required,min=2,max=100"`
	MotherPhone      string `json:"mother_phone" validate:"required,min=9,max=10"`
	MotherOccupation string `json:"mother_occupation" validate:"required"`

	// academic
	PreviousSchool string `json:"previous_school" validate:"required,min=2"`
	PreviousLevel  string `json:"previous_level" validate:"required"`
	GPA            string `json:"gpa" validate:"required"`
	EnrollLevel    string `json:"enroll_level" validate:"required"`
	Program        string `json:"program" validate:"required"`

	// review
	AgreeTerms   bool `json:"agree_terms" validate:"accepted"`
	AgreePrivacy bool `json:"agree_privacy" validate:"accepted"`
}

// NewFormData returns an empty form with the usual defaults pre-filled.
func NewFormData() FormData {
	return FormData{Nationality: "ไทย", Religion: "พุทธ"}
}

// Clean trims every text field.
func (fd *FormData) Clean() {
	for _, s := range []*string{
		&fd.Prefix, &fd.FirstName, &fd.LastName, &fd.IDCard, &fd.BirthDate, &fd.Nationality, &fd.Religion,
		&fd.Phone, &fd.Address, &fd.FatherName, &fd.FatherPhone, &fd.FatherOccupation, &fd.MotherName,
		&fd.MotherPhone, &fd.MotherOccupation, &fd.PreviousSchool, &fd.PreviousLevel, &fd.GPA,
		&fd.EnrollLevel, &fd.Program,
	} {
		*s = core.CleanString(*s)
	}
	fd.Email = core.CleanString(fd.Email, true /* lower */)
}

// StudentName joins the name parts the way they are stored.
func (fd FormData) StudentName() string {
	return fd.Prefix + fd.FirstName + " " + fd.LastName
}

// Application is a submitted enrollment, awaiting staff review.
type Application struct {
	ID               string    `json:"id"`
	Prefix           string    `json:"prefix"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	StudentName      string    `json:"student_name"`
	IDCard           string    `json:"student_id_card"`
	BirthDate        string    `json:"birth_date"`
	Nationality      string    `json:"nationality"`
	Religion         string    `json:"religion"`
	Gender           string    `json:"gender"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Address          string    `json:"address"`
	FatherName       string    `json:"father_name"`
	FatherPhone      string    `json:"father_phone"`
	FatherOccupation string    `json:"father_occupation"`
	MotherName       string    `json:"mother_name"`
	MotherPhone      string    `json:"mother_phone"`
	MotherOccupation string    `json:"mother_occupation"`
	PreviousSchool   string    `json:"previous_school"`
	PreviousLevel    string    `json:"previous_level"`
	GPA              string    `json:"gpa"`
	EnrollLevel      string    `json:"grade_applying"`
	Program          string    `json:"program_applying"` // label
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at"` // UTC
}

// Number returns the application number shown to the applicant, e.g. ENR-2568-3F2A91C0.
// Its trailing token is a fragment of the application ID, so it can be used to look the application up.
func (app Application) Number(academicYear string) string {
	frag := app.ID
	if len(frag) > 8 {
		frag = frag[:8]
	}
	return fmt.Sprintf("ENR-%s-%s", academicYear, strings.ToUpper(frag))
}

// LookupResult is the public view of an application, as shown to whoever looks it up.
type LookupResult struct {
	Number      string    `json:"number"`
	StudentName string    `json:"student_name"`
	EnrollLevel string    `json:"grade_applying"`
	Program     string    `json:"program_applying"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"` // UTC
}

func (app Application) LookupResult(academicYear string) LookupResult {
	return LookupResult{
		Number:      app.Number(academicYear),
		StudentName: app.StudentName,
		EnrollLevel: app.EnrollLevel,
		Program:     app.Program,
		Status:      app.Status,
		SubmittedAt: app.CreatedAt,
	}
}

type QueryFilter struct {
	Search string `query:"search"`
	Status string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

// Matches reports whether app satisfies the filter (case-insensitive name substring AND equal status).
func (qf QueryFilter) Matches(app Application) bool {
	if qf.Search != "" && !core.ContainsFold(app.StudentName, qf.Search) {
		return false
	}
	if qf.Status != "" && app.Status != qf.Status {
		return false
	}
	return true
}
