// Package testutil holds the fixtures shared by the test suites.
package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/core/news"
	appfs "github.com/trezcool/wittayakom/fs"
	"github.com/trezcool/wittayakom/services/logger"
)

// NewLogger returns a silent logger with error reporting disabled.
func NewLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), core.NewTestConfig())
	logger.Enable(false)
	return logger
}

// NewValidator returns a validator with every custom validation and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)
	account.LoadCommonPasswords(appfs.FS, account.CommonPasswordsPath, NewLogger())
	return validate, translator
}

func CreateAccount(
	t *testing.T,
	repo account.Repository,
	name, uname, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) account.Account {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	acc := account.Account{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := acc.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAccount() failed: %v", err)
		}
	}
	acc, err := repo.CreateAccount(context.Background(), acc)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return acc
}

// CreateArticle stores a, defaulting its category and timestamps.
func CreateArticle(t *testing.T, repo news.Repository, a news.Article) news.Article {
	if a.Category == "" {
		a.Category = "ข่าวประชาสัมพันธ์"
	}
	if a.Excerpt == "" {
		a.Excerpt = a.Title + " excerpt"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Published && a.PublishedAt == nil {
		pubAt := a.CreatedAt
		a.PublishedAt = &pubAt
	}
	a, err := repo.CreateArticle(context.Background(), a)
	if err != nil {
		t.Fatalf("CreateArticle() failed: %v", err)
	}
	return a
}

// ValidFormData returns a form passing every wizard step.
func ValidFormData() enrollment.FormData {
	fd := enrollment.NewFormData()
	fd.Prefix = "เด็กชาย"
	fd.FirstName = "สมชาย"
	fd.LastName = "ใจดี"
	fd.IDCard = "1234567890123"
	fd.BirthDate = "2012-05-01"
	fd.Phone = "0812345678"
	fd.Email = "somchai@test.th"
	fd.Address = "99 หมู่ 1 ตำบลในเมือง อำเภอเมือง"
	fd.FatherName = "สมศักดิ์ ใจดี"
	fd.FatherPhone = "0811111111"
	fd.FatherOccupation = "ค้าขาย"
	fd.MotherName = "สมศรี ใจดี"
	fd.MotherPhone = "0822222222"
	fd.MotherOccupation = "รับราชการ"
	fd.PreviousSchool = "โรงเรียนบ้านหนองบัว"
	fd.PreviousLevel = "ป.6"
	fd.GPA = "3.50"
	fd.EnrollLevel = "ม.1"
	fd.Program = "sci-math"
	fd.AgreeTerms = true
	fd.AgreePrivacy = true
	return fd
}

// CreateApplication stores an application for studentName.
func CreateApplication(t *testing.T, repo enrollment.Repository, studentName, status string, createdAt ...time.Time) enrollment.Application {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	fd := ValidFormData()
	app, err := repo.CreateApplication(context.Background(), enrollment.Application{
		Prefix:         fd.Prefix,
		StudentName:    studentName,
		IDCard:         fd.IDCard,
		Gender:         enrollment.DeriveGender(fd.Prefix),
		Email:          fd.Email,
		PreviousSchool: fd.PreviousSchool,
		EnrollLevel:    fd.EnrollLevel,
		Program:        "วิทย์-คณิต",
		Status:         status,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	})
	if err != nil {
		t.Fatalf("CreateApplication() failed: %v", err)
	}
	return app
}
