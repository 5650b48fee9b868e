package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core/enrollment"
)

// admissionColumns are read back into enrollment.Application; the parent_* contact columns are write-only.
const (
	admissionColumns = `id, prefix, first_name, last_name, student_name, student_id_card, birth_date, nationality,
	religion, gender, phone, email, address, father_name, father_phone, father_occupation, mother_name,
	mother_phone, mother_occupation, previous_school, previous_level, gpa, grade_applying, program_applying,
	status, created_at, updated_at`
	admissionInsertColumns = admissionColumns + `, parent_name, parent_phone, parent_email`
)

type admissionRow struct {
	enrollment.Application

	// main contact, kept for the staff back-office
	ParentName  string `json:"parent_name"`
	ParentPhone string `json:"parent_phone"`
	ParentEmail string `json:"parent_email"`
}

type applicationRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*applicationRepository)(nil) // interface compliance check

// NewApplicationRepository maps the admissions columns on the json names of enrollment.Application.
func NewApplicationRepository(db *sqlx.DB) enrollment.Repository {
	mapped := sqlx.NewDb(db.DB, db.DriverName())
	mapped.Mapper = reflectx.NewMapperFunc("json", strings.ToLower)
	return &applicationRepository{db: mapped}
}

func (repo applicationRepository) CreateApplication(ctx context.Context, app enrollment.Application) (enrollment.Application, error) {
	app.ID = uuid.NewString()
	row := admissionRow{
		Application: app,
		ParentName:  app.FatherName,
		ParentPhone: app.FatherPhone,
		ParentEmail: app.Email,
	}
	q := `INSERT INTO admissions (` + admissionInsertColumns + `)
		VALUES (:id, :prefix, :first_name, :last_name, :student_name, :student_id_card, :birth_date, :nationality,
			:religion, :gender, :phone, :email, :address, :father_name, :father_phone, :father_occupation, :mother_name,
			:mother_phone, :mother_occupation, :previous_school, :previous_level, :gpa, :grade_applying,
			:program_applying, :status, :created_at, :updated_at, :parent_name, :parent_phone, :parent_email)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, row); err != nil {
		return enrollment.Application{}, errors.Wrap(err, "inserting admission")
	}
	return app, nil
}

func (repo applicationRepository) GetApplication(ctx context.Context, id string) (enrollment.Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return enrollment.Application{}, enrollment.ErrNotFound
	}
	var app enrollment.Application
	if err := sqlx.GetContext(ctx, repo.db, &app, "SELECT "+admissionColumns+" FROM admissions WHERE id = $1", id); err != nil {
		return enrollment.Application{}, trapNoRowsErr(err, enrollment.ErrNotFound, "finding admission by ID")
	}
	return app, nil
}

func (repo applicationRepository) findOne(ctx context.Context, where string, arg interface{}) (enrollment.Application, error) {
	var app enrollment.Application
	q := "SELECT " + admissionColumns + " FROM admissions WHERE " + where + " ORDER BY created_at DESC, id LIMIT 1"
	if err := sqlx.GetContext(ctx, repo.db, &app, q, arg); err != nil {
		return enrollment.Application{}, trapNoRowsErr(err, enrollment.ErrNotFound, "finding admission")
	}
	return app, nil
}

func (repo applicationRepository) FindApplicationByName(ctx context.Context, name string) (enrollment.Application, error) {
	return repo.findOne(ctx, "student_name ILIKE $1", likePattern(name))
}

func (repo applicationRepository) FindApplicationByIDFragment(ctx context.Context, frag string) (enrollment.Application, error) {
	return repo.findOne(ctx, "id::text ILIKE $1", likePattern(frag))
}

func (repo applicationRepository) QueryApplications(ctx context.Context, filter *enrollment.QueryFilter) ([]enrollment.Application, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter != nil {
		if filter.Search != "" {
			args = append(args, likePattern(filter.Search))
			where = append(where, fmt.Sprintf("student_name ILIKE $%d", len(args)))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			where = append(where, fmt.Sprintf("status = $%d", len(args)))
		}
	}
	q := "SELECT " + admissionColumns + " FROM admissions"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id"

	apps := make([]enrollment.Application, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &apps, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying admissions")
	}
	return apps, nil
}
